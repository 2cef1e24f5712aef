package routes

import (
	"recruit-iq/database"
	"recruit-iq/internal/ai"
	adminapi "recruit-iq/internal/api/admin"
	analysisapi "recruit-iq/internal/api/analysis"
	authapi "recruit-iq/internal/api/auth"
	"recruit-iq/internal/api/billing"
	plansapi "recruit-iq/internal/api/plans"
	stripewebhooks "recruit-iq/internal/api/stripewebhook"
	usersapi "recruit-iq/internal/api/users"
	"recruit-iq/internal/app/http/middleware"
	"recruit-iq/internal/entitlement"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.Engine, analyzer ai.Analyzer, log *zap.Logger) {
	store := entitlement.NewGormStore(database.DB)
	reconciler := entitlement.New(store, entitlement.NewStripeLedger(), log)
	webhookHandler := stripewebhooks.NewHandler(reconciler, stripewebhooks.NewGormRecorder(database.DB), log)

	r.POST("/webhook", webhookHandler.HandleWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plansapi.ListPlans)
	public.GET("/verify", usersapi.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/billing/checkout", billing.CreateCheckoutSession)
	auth.POST("/billing/verify", billing.VerifyPayment(reconciler))
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.POST("/change-password", authapi.ChangePassword)

	// Pro feature
	pro := auth.Group("/")
	pro.Use(middleware.RequirePro(store.IsPro))
	pro.POST("/analysis", analysisapi.Analyze(analyzer, log))

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.POST("/sync-plans", plansapi.SyncPlansFromStripe)
}
