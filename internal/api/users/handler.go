package users

import (
	"net/http"

	"recruit-iq/config"
	"recruit-iq/database"
	"recruit-iq/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type PlanDTO struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	PriceEUR float64 `json:"price_eur"`
	Interval string  `json:"interval"`
}

type MeResponse struct {
	ID         uint     `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	IsVerified bool     `json:"is_verified"`
	IsPro      bool     `json:"is_pro"`
	Plan       *PlanDTO `json:"plan,omitempty"`
}

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.
		Preload("Plan").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var plan *PlanDTO
	if user.Plan != nil {
		plan = &PlanDTO{
			ID:       user.Plan.ID,
			Name:     user.Plan.Name,
			PriceEUR: user.Plan.PriceEUR,
			Interval: user.Plan.Interval,
		}
	}

	c.JSON(http.StatusOK, MeResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		// Same column the pro gate reads; there is no second truth source.
		IsPro: user.IsPro,
		Plan:  plan,
	})
}

func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var t users.VerificationToken
	if err := database.DB.Where("token = ? AND type = ?", token, "email_verification").First(&t).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", t.UserID).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	database.DB.Delete(&t)

	c.Redirect(http.StatusTemporaryRedirect, config.APP_URL+"/signin")
}
