package entitlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	pro    map[uint]bool
	grants int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{pro: map[uint]bool{}}
}

func (s *fakeStore) IsPro(_ context.Context, userID uint) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.pro[userID], nil
}

func (s *fakeStore) GrantPro(_ context.Context, userID uint) error {
	if s.err != nil {
		return s.err
	}
	s.pro[userID] = true
	s.grants++
	return nil
}

type fakeLedger struct {
	paidCustomers map[string]bool
	paidEmails    map[string]bool
	err           error

	customerCalls int
	emailCalls    int
}

func (l *fakeLedger) HasPaidCustomer(_ context.Context, customerID string) (bool, error) {
	l.customerCalls++
	if l.err != nil {
		return false, l.err
	}
	return l.paidCustomers[customerID], nil
}

func (l *fakeLedger) HasPaidSessionForEmail(_ context.Context, email string) (bool, error) {
	l.emailCalls++
	if l.err != nil {
		return false, l.err
	}
	return l.paidEmails[email], nil
}

func TestGrantSetsFlag(t *testing.T) {
	store := newFakeStore()
	rec := New(store, &fakeLedger{}, nil)

	require.NoError(t, rec.Grant(context.Background(), 123))
	assert.True(t, store.pro[123])
}

func TestGrantIsIdempotent(t *testing.T) {
	store := newFakeStore()
	rec := New(store, &fakeLedger{}, nil)

	require.NoError(t, rec.Grant(context.Background(), 123))
	require.NoError(t, rec.Grant(context.Background(), 123))

	assert.True(t, store.pro[123])
	assert.Len(t, store.pro, 1)
}

func TestReconcileGrantsForPaidCustomer(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{paidCustomers: map[string]bool{"cus_1": true}}
	rec := New(store, ledger, nil)

	err := rec.ReconcileUser(context.Background(), 7, "cus_1", "a@x.com")

	require.NoError(t, err)
	assert.True(t, store.pro[7])
	// customer ID matched, email fallback never consulted
	assert.Equal(t, 1, ledger.customerCalls)
	assert.Equal(t, 0, ledger.emailCalls)
}

func TestReconcileFallsBackToEmail(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{
		paidCustomers: map[string]bool{},
		paidEmails:    map[string]bool{"a@x.com": true},
	}
	rec := New(store, ledger, nil)

	err := rec.ReconcileUser(context.Background(), 7, "cus_unpaid", "a@x.com")

	require.NoError(t, err)
	assert.True(t, store.pro[7])
	assert.Equal(t, 1, ledger.customerCalls)
	assert.Equal(t, 1, ledger.emailCalls)
}

func TestReconcileNoCustomerIDSkipsCustomerLookup(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{paidEmails: map[string]bool{"a@x.com": true}}
	rec := New(store, ledger, nil)

	require.NoError(t, rec.ReconcileUser(context.Background(), 7, "", "a@x.com"))
	assert.Equal(t, 0, ledger.customerCalls)
	assert.Equal(t, 1, ledger.emailCalls)
}

func TestReconcileNoPaymentPerformsNoWrite(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{paidCustomers: map[string]bool{}, paidEmails: map[string]bool{}}
	rec := New(store, ledger, nil)

	err := rec.ReconcileUser(context.Background(), 456, "", "nobody@x.com")

	require.ErrorIs(t, err, ErrNoPayment)
	assert.Equal(t, 0, store.grants)
	assert.False(t, store.pro[456])
}

func TestReconcileLedgerFailureIsNotNoPayment(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{err: errors.New("stripe is down")}
	rec := New(store, ledger, nil)

	err := rec.ReconcileUser(context.Background(), 7, "cus_1", "a@x.com")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPayment)
	assert.Equal(t, 0, store.grants)
}

func TestGrantSurfacesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("store unavailable")
	rec := New(store, &fakeLedger{}, nil)

	require.Error(t, rec.Grant(context.Background(), 7))
}
