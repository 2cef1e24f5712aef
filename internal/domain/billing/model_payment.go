package billing

import (
	"recruit-iq/internal/domain/plans"
	"recruit-iq/internal/domain/users"
	"time"
)

// Payment is the local projection of a completed checkout session. It exists
// for history/audit; entitlement truth still lives on the user row.
type Payment struct {
	ID               uint `gorm:"primaryKey"`
	UserID           uint
	User             users.User
	PlanID           *uint
	Plan             *plans.Plan
	StripeSessionID  string  `gorm:"uniqueIndex"`
	StripeCustomerID *string `gorm:"column:stripe_customer_id"`
	AmountEUR        float64
	Currency         string
	Status           string
	CustomerEmail    *string
	CreatedAt        time.Time
}
