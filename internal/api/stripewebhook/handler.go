package stripewebhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"recruit-iq/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"go.uber.org/zap"
)

// Granter is the entitlement write path. A verified checkout.session.completed
// event is sufficient proof of payment, so the handler needs nothing else.
type Granter interface {
	Grant(ctx context.Context, userID uint) error
}

// PaymentRecorder persists the local projection of a completed checkout.
type PaymentRecorder interface {
	RecordCheckout(ctx context.Context, payment *billing.Payment) error
}

type Handler struct {
	granter  Granter
	payments PaymentRecorder
	log      *zap.Logger
}

func NewHandler(granter Granter, payments PaymentRecorder, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{granter: granter, payments: payments, log: log}
}

// HandleWebhook processes Stripe event deliveries. Unverified payloads are
// never processed; verified events are always acknowledged with 200, even
// when they carry nothing actionable, since Stripe retries any failure
// indefinitely.
func (h *Handler) HandleWebhook(c *gin.Context) {
	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.Warn("stripe signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := h.handleCheckoutCompleted(c.Request.Context(), &session); err != nil {
			// 500 so Stripe retries; the grant is idempotent.
			h.log.Error("checkout.session.completed handling failed",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return

	case "customer.subscription.deleted":
		// No revoke path: entitlement is grant-only. Log for operators and
		// acknowledge.
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err == nil {
			h.log.Info("subscription deleted (no entitlement change)",
				zap.String("subscription_id", sub.ID),
				zap.String("status", string(sub.Status)),
			)
		}
		c.JSON(http.StatusOK, gin.H{"status": "acknowledged"})
		return

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
