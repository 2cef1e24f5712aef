package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProChecker reports whether a user currently holds the pro entitlement.
type ProChecker func(ctx context.Context, userID uint) (bool, error)

// RequirePro admits a request iff the authenticated user's entitlement flag
// is true. Anonymous requests are denied outright; non-entitled users get a
// 403 the frontend turns into the paywall. Pure read, no side effects.
func RequirePro(isPro ProChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ok, err := isPro(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Pro subscription required"})
			return
		}

		c.Next()
	}
}
