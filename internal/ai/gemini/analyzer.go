package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"recruit-iq/internal/ai"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Analyzer turns a job description / resume pair into a MatchAnalysis via a
// content generator. Model replies are interpreted leniently: code fences are
// stripped and loose JSON types coerced; anything still unparseable comes
// back as a degraded raw-text result rather than an error.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator contentGenerator, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, jobDescription, resume string) (*ai.MatchAnalysis, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	resume = strings.TrimSpace(resume)
	if jobDescription == "" || resume == "" {
		return nil, ai.ErrEmptyInput
	}

	prompt := buildPrompt(jobDescription, resume)

	a.logger.Debug("gemini analysis request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", truncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", truncateForLog(raw, a.maxLogLen)),
	)

	analysis, err := parseResponse(raw)
	if err != nil {
		// Degraded, not fatal: hand the raw text back so the caller can
		// still render something.
		a.logger.Warn("gemini response not parseable, returning raw text", zap.Error(err))
		return &ai.MatchAnalysis{Degraded: true, Raw: raw}, nil
	}

	return analysis, nil
}

func buildPrompt(jobDescription, resume string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job description:\n{{JOB_DESCRIPTION}}\n\nResume:\n{{RESUME}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", resume)
	return prompt
}

func parseResponse(raw string) (*ai.MatchAnalysis, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &ai.MatchAnalysis{
		Score:       score,
		Summary:     coerceString(data["summary"]),
		Strengths:   coerceStringSlice(data["strengths"]),
		Gaps:        coerceStringSlice(data["gaps"]),
		Suggestions: coerceStringSlice(data["suggestions"]),
	}, nil
}

// extractJSON strips markdown code fences the model tends to wrap its output
// in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStringSlice(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	default:
		return nil
	}
}

func truncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
