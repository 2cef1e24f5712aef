package ai

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned before any model call when either document is
// blank.
var ErrEmptyInput = errors.New("job description and resume must not be empty")

// MatchAnalysis is the structured verdict for one job description / resume
// pair. When the model reply cannot be interpreted, Degraded is set and Raw
// carries the unparsed text so callers can still show something.
type MatchAnalysis struct {
	Score       float64  `json:"score"`
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	Gaps        []string `json:"gaps"`
	Suggestions []string `json:"suggestions"`
	Degraded    bool     `json:"degraded,omitempty"`
	Raw         string   `json:"raw,omitempty"`
}

type Analyzer interface {
	Analyze(ctx context.Context, jobDescription, resume string) (*MatchAnalysis, error)
}
