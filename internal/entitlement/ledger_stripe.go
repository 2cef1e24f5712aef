package entitlement

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// StripeLedger reads payment truth from Stripe checkout sessions. It never
// writes; session creation lives in the billing handlers.
type StripeLedger struct {
	// recentLimit caps the email-fallback scan of recent sessions.
	recentLimit int64
}

func NewStripeLedger() *StripeLedger {
	return &StripeLedger{recentLimit: 100}
}

func (l *StripeLedger) HasPaidCustomer(ctx context.Context, customerID string) (bool, error) {
	if err := ensureStripeKey(); err != nil {
		return false, err
	}

	params := &stripe.CheckoutSessionListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(20)

	it := checkoutsession.List(params)
	for it.Next() {
		if sessionPaid(it.CheckoutSession()) {
			return true, nil
		}
	}
	return false, it.Err()
}

// HasPaidSessionForEmail scans recent sessions for a paid one whose customer
// email matches. Email is not a unique key; this is a best-effort fallback
// for sessions created before a customer ID was stored on the user.
func (l *StripeLedger) HasPaidSessionForEmail(ctx context.Context, email string) (bool, error) {
	if err := ensureStripeKey(); err != nil {
		return false, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}

	params := &stripe.CheckoutSessionListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(l.recentLimit)

	it := checkoutsession.List(params)
	for it.Next() {
		s := it.CheckoutSession()
		if !sessionPaid(s) {
			continue
		}
		if strings.EqualFold(sessionEmail(s), email) {
			return true, nil
		}
	}
	return false, it.Err()
}

func sessionPaid(s *stripe.CheckoutSession) bool {
	if s == nil {
		return false
	}
	if s.Status == stripe.CheckoutSessionStatusComplete {
		return true
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		s.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
}

func sessionEmail(s *stripe.CheckoutSession) string {
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.CustomerEmail
}

func ensureStripeKey() error {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		return errors.New("STRIPE_SECRET_KEY not configured")
	}
	return nil
}
