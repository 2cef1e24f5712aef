package analysis

import (
	"errors"
	"net/http"
	"strings"

	"recruit-iq/internal/ai"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Analyze runs the paid job-description/resume match. Empty input is
// rejected before the model is ever called; model failures are surfaced as
// upstream errors with no retry.
func Analyze(analyzer ai.Analyzer, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if analyzer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis is not configured"})
			return
		}

		var body struct {
			JobDescription string `json:"job_description"`
			Resume         string `json:"resume"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		jobDescription := strings.TrimSpace(body.JobDescription)
		resume := strings.TrimSpace(body.Resume)
		if jobDescription == "" || resume == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job_description and resume are required"})
			return
		}

		result, err := analyzer.Analyze(c.Request.Context(), jobDescription, resume)
		if err != nil {
			if errors.Is(err, ai.ErrEmptyInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "job_description and resume are required"})
				return
			}
			log.Error("analysis request failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis service failed"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
