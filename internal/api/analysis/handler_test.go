package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruit-iq/internal/ai"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	result *ai.MatchAnalysis
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, _ string) (*ai.MatchAnalysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func analysisRouter(analyzer ai.Analyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analysis", Analyze(analyzer, nil))
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analysis", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeReturnsResult(t *testing.T) {
	stub := &stubAnalyzer{result: &ai.MatchAnalysis{Score: 85, Summary: "Strong match"}}
	r := analysisRouter(stub)

	w := postJSON(r, `{"job_description": "Go developer", "resume": "I write Go"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"score":85`)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyzeRejectsEmptyInputBeforeModelCall(t *testing.T) {
	stub := &stubAnalyzer{result: &ai.MatchAnalysis{}}
	r := analysisRouter(stub)

	cases := []string{
		`{"job_description": "", "resume": ""}`,
		`{"job_description": "Go developer", "resume": "   "}`,
		`{"resume": "I write Go"}`,
	}
	for _, body := range cases {
		w := postJSON(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	assert.Equal(t, 0, stub.calls)
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	stub := &stubAnalyzer{err: errors.New("gemini unreachable")}
	r := analysisRouter(stub)

	w := postJSON(r, `{"job_description": "Go developer", "resume": "I write Go"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAnalyzePassesThroughDegradedResult(t *testing.T) {
	stub := &stubAnalyzer{result: &ai.MatchAnalysis{Degraded: true, Raw: "not json at all"}}
	r := analysisRouter(stub)

	w := postJSON(r, `{"job_description": "Go developer", "resume": "I write Go"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":true`)
	assert.Contains(t, w.Body.String(), "not json at all")
}

func TestAnalyzeUnconfigured(t *testing.T) {
	r := analysisRouter(nil)

	w := postJSON(r, `{"job_description": "Go developer", "resume": "I write Go"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
