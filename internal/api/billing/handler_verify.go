package billing

import (
	"errors"
	"net/http"

	"recruit-iq/database"
	"recruit-iq/internal/domain/users"
	"recruit-iq/internal/entitlement"

	"github.com/gin-gonic/gin"
)

// VerifyPayment is the user-initiated fallback for when webhook delivery
// never reached us (local dev, outages, misconfiguration). It re-derives
// entitlement from Stripe and converges on the same grant as the webhook
// path.
func VerifyPayment(rec *entitlement.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user users.User
		if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.IsPro {
			c.JSON(http.StatusOK, gin.H{"success": true, "is_pro": true})
			return
		}

		customerID := ""
		if user.StripeCustomerID != nil {
			customerID = *user.StripeCustomerID
		}

		err := rec.ReconcileUser(c.Request.Context(), user.ID, customerID, user.Email)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"success": true, "is_pro": true})
		case errors.Is(err, entitlement.ErrNoPayment):
			// Negative result, not a failure: the caller retries later or
			// contacts support.
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "No completed payment found for this account",
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment verification failed"})
		}
	}
}
