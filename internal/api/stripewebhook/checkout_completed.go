package stripewebhook

import (
	"context"
	"fmt"
	"strconv"

	"recruit-iq/internal/domain/billing"
	stripeinfra "recruit-iq/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

// handleCheckoutCompleted grants entitlement to the user the session was
// created for. Everything needed is on the verified event payload; no
// follow-up Stripe calls. A session without a user reference is logged and
// acknowledged, never failed, because Stripe would retry forever.
func (h *Handler) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	userID, ok := userIDFromSession(session)
	if !ok {
		h.log.Warn("checkout session carries no user reference, skipping",
			zap.String("session_id", session.ID),
		)
		return nil
	}

	if err := h.granter.Grant(ctx, userID); err != nil {
		return fmt.Errorf("grant after checkout: %w", err)
	}

	if h.payments != nil {
		if err := h.payments.RecordCheckout(ctx, paymentFromSession(userID, session)); err != nil {
			// The grant already happened; the payment row is a projection
			// for history views, so a failure here must not fail delivery.
			h.log.Error("failed to record checkout payment",
				zap.String("session_id", session.ID),
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// userIDFromSession prefers client_reference_id, set at session creation,
// falling back to the session metadata.
func userIDFromSession(session *stripe.CheckoutSession) (uint, bool) {
	userIDStr := session.ClientReferenceID
	if userIDStr == "" && session.Metadata != nil {
		userIDStr = session.Metadata["user_id"]
	}
	if userIDStr == "" {
		return 0, false
	}

	uid64, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(uid64), true
}

func paymentFromSession(userID uint, session *stripe.CheckoutSession) *billing.Payment {
	p := &billing.Payment{
		UserID:          userID,
		StripeSessionID: session.ID,
		AmountEUR:       float64(session.AmountTotal) / 100.0,
		Currency:        string(session.Currency),
		Status:          stripeinfra.NormalizePaymentStatus(string(session.PaymentStatus)),
	}

	if session.Customer != nil && session.Customer.ID != "" {
		id := session.Customer.ID
		p.StripeCustomerID = &id
	}
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		email := session.CustomerDetails.Email
		p.CustomerEmail = &email
	}
	if session.Metadata != nil {
		if planStr := session.Metadata["plan_id"]; planStr != "" {
			if pid64, err := strconv.ParseUint(planStr, 10, 64); err == nil {
				pid := uint(pid64)
				p.PlanID = &pid
			}
		}
	}

	return p
}
