package stripewebhook

import (
	"context"

	"recruit-iq/internal/domain/billing"
	"recruit-iq/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRecorder writes the payment projection. Inserts conflict-ignore on the
// session ID so retried webhook deliveries stay idempotent.
type GormRecorder struct {
	db *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

func (r *GormRecorder) RecordCheckout(ctx context.Context, payment *billing.Payment) error {
	tx := r.db.WithContext(ctx)

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_session_id"}},
		DoNothing: true,
	}).Create(payment).Error; err != nil {
		return err
	}

	// Remember the processor-assigned customer ID on the user so later
	// manual reconciliations can join on it instead of email.
	updates := map[string]interface{}{}
	if payment.StripeCustomerID != nil && *payment.StripeCustomerID != "" {
		updates["stripe_customer_id"] = *payment.StripeCustomerID
	}
	if payment.PlanID != nil {
		updates["plan_id"] = *payment.PlanID
	}
	if len(updates) == 0 {
		return nil
	}

	return tx.Model(&users.User{}).
		Where("id = ?", payment.UserID).
		Updates(updates).Error
}
