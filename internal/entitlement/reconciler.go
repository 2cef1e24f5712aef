// Package entitlement reconciles "has this user paid" (Stripe is the system
// of record) with the is_pro flag on the user row. Both trigger paths, the
// webhook and the manual verify endpoint, funnel through the same monotonic
// grant so duplicate or concurrent deliveries are harmless.
package entitlement

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoPayment is the negative reconciliation result: the ledger holds no
// completed payment for the user. Callers report it as "not found", not as a
// system failure.
var ErrNoPayment = errors.New("no completed payment found")

// Store holds the per-user entitlement flag.
type Store interface {
	IsPro(ctx context.Context, userID uint) (bool, error)
	// GrantPro sets the flag to true. Implementations must be idempotent
	// and must never clear an existing grant.
	GrantPro(ctx context.Context, userID uint) error
}

// Ledger is the read side of the payment system of record.
type Ledger interface {
	HasPaidCustomer(ctx context.Context, customerID string) (bool, error)
	HasPaidSessionForEmail(ctx context.Context, email string) (bool, error)
}

type Reconciler struct {
	store  Store
	ledger Ledger
	log    *zap.Logger
}

func New(store Store, ledger Ledger, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{store: store, ledger: ledger, log: log}
}

// Grant marks the user entitled. The webhook path calls this directly since a
// verified checkout.session.completed event already establishes the payment
// fact. Setting an already-true flag is a no-op by contract of the Store.
func (r *Reconciler) Grant(ctx context.Context, userID uint) error {
	if err := r.store.GrantPro(ctx, userID); err != nil {
		return fmt.Errorf("grant entitlement for user %d: %w", userID, err)
	}
	r.log.Info("entitlement granted", zap.Uint("user_id", userID))
	return nil
}

// ReconcileUser recomputes entitlement from the ledger and grants when a
// completed payment exists. The stored Stripe customer ID is the preferred
// join key; email matching is a fallback for users who paid before the
// customer ID was recorded. Returns ErrNoPayment when nothing matches; no
// write happens in that case.
func (r *Reconciler) ReconcileUser(ctx context.Context, userID uint, customerID, email string) error {
	paid, err := r.lookupPaid(ctx, customerID, email)
	if err != nil {
		return fmt.Errorf("query payment ledger: %w", err)
	}
	if !paid {
		r.log.Info("no completed payment found",
			zap.Uint("user_id", userID),
			zap.Bool("had_customer_id", customerID != ""),
		)
		return ErrNoPayment
	}
	return r.Grant(ctx, userID)
}

func (r *Reconciler) lookupPaid(ctx context.Context, customerID, email string) (bool, error) {
	if customerID != "" {
		paid, err := r.ledger.HasPaidCustomer(ctx, customerID)
		if err != nil {
			return false, err
		}
		if paid {
			return true, nil
		}
	}
	if email != "" {
		return r.ledger.HasPaidSessionForEmail(ctx, email)
	}
	return false, nil
}
