package users

import (
	"recruit-iq/internal/domain/plans"
	"time"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string
	IsVerified   bool

	// IsPro is the entitlement flag. It is the single truth source for paid
	// access: the reconciler writes it, the pro gate and /me read it.
	IsPro bool `gorm:"column:is_pro;not null;default:false"`

	PlanID *uint
	Plan   *plans.Plan

	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
