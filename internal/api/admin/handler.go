package admin

import (
	"net/http"

	"recruit-iq/database"
	"recruit-iq/internal/domain/billing"
	"recruit-iq/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	IsVerified       bool    `json:"is_verified"`
	IsPro            bool    `json:"is_pro"`
	PlanName         *string `json:"plan_name,omitempty"`
	StripeCustomerID *string `json:"stripe_customer_id,omitempty"`
}

type AdminPayment struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	PlanName  *string `json:"plan_name,omitempty"`
	AmountEUR float64 `json:"amount_eur"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Preload("Plan").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	adminUsers := make([]AdminUser, 0, len(all))
	for _, u := range all {
		var planName *string
		if u.Plan != nil {
			planName = &u.Plan.Name
		}

		adminUsers = append(adminUsers, AdminUser{
			ID:               u.ID,
			Name:             u.Name,
			Email:            u.Email,
			Role:             u.Role,
			IsVerified:       u.IsVerified,
			IsPro:            u.IsPro,
			PlanName:         planName,
			StripeCustomerID: u.StripeCustomerID,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	if err := database.DB.
		Preload("User").
		Preload("Plan").
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	adminPayments := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		var planName *string
		if p.Plan != nil {
			planName = &p.Plan.Name
		}

		adminPayments = append(adminPayments, AdminPayment{
			ID:        p.ID,
			Email:     p.User.Email,
			PlanName:  planName,
			AmountEUR: p.AmountEUR,
			Status:    p.Status,
			CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, adminPayments)
}
