package stripewebhook

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recruit-iq/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75/webhook"
)

const testSecret = "whsec_test_secret"

type fakeGranter struct {
	granted []uint
	err     error
}

func (g *fakeGranter) Grant(_ context.Context, userID uint) error {
	if g.err != nil {
		return g.err
	}
	g.granted = append(g.granted, userID)
	return nil
}

type fakeRecorder struct {
	recorded []*billing.Payment
	err      error
}

func (r *fakeRecorder) RecordCheckout(_ context.Context, p *billing.Payment) error {
	if r.err != nil {
		return r.err
	}
	r.recorded = append(r.recorded, p)
	return nil
}

func newTestRouter(granter *fakeGranter, recorder *fakeRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(granter, recorder, nil)
	r.POST("/webhook", h.HandleWebhook)
	return r
}

func signedRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, testSecret)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig)))
	return req
}

func checkoutCompletedPayload() []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"client_reference_id": "123",
				"amount_total": 900,
				"currency": "eur",
				"payment_status": "paid",
				"customer_details": {"email": "a@x.com"}
			}
		}
	}`)
}

func TestWebhookGrantsOnCheckoutCompleted(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{}
	recorder := &fakeRecorder{}
	r := newTestRouter(granter, recorder)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, checkoutCompletedPayload()))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []uint{123}, granter.granted)

	require.Len(t, recorder.recorded, 1)
	p := recorder.recorded[0]
	assert.Equal(t, uint(123), p.UserID)
	assert.Equal(t, "cs_test_1", p.StripeSessionID)
	assert.Equal(t, "paid", p.Status)
	assert.Equal(t, 9.0, p.AmountEUR)
	require.NotNil(t, p.CustomerEmail)
	assert.Equal(t, "a@x.com", *p.CustomerEmail)
}

func TestWebhookRejectsTamperedPayload(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{}
	r := newTestRouter(granter, &fakeRecorder{})

	valid := checkoutCompletedPayload()
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, valid, testSecret)

	// body differs from what was signed
	tampered := bytes.Replace(valid, []byte(`"123"`), []byte(`"999"`), 1)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(tampered))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, granter.granted)
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_other_secret")

	granter := &fakeGranter{}
	r := newTestRouter(granter, &fakeRecorder{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, checkoutCompletedPayload()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, granter.granted)
}

func TestWebhookMissingSecretIsServerError(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	granter := &fakeGranter{}
	r := newTestRouter(granter, &fakeRecorder{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, checkoutCompletedPayload()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, granter.granted)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{}
	r := newTestRouter(granter, &fakeRecorder{})

	payload := []byte(`{"id": "evt_2", "type": "invoice.paid", "data": {"object": {}}}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, granter.granted)
}

func TestWebhookAcknowledgesSubscriptionDeletedWithoutWrite(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{}
	r := newTestRouter(granter, &fakeRecorder{})

	payload := []byte(`{
		"id": "evt_3",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_1", "object": "subscription", "status": "canceled"}}
	}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, granter.granted)
}

func TestWebhookAcksSessionWithoutUserReference(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{}
	recorder := &fakeRecorder{}
	r := newTestRouter(granter, recorder)

	payload := []byte(`{
		"id": "evt_4",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_2", "object": "checkout.session", "payment_status": "paid"}}
	}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, payload))

	// acked so Stripe does not retry forever; nothing written
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, granter.granted)
	assert.Empty(t, recorder.recorded)
}

func TestWebhookGrantFailureIsRetryable(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{err: errors.New("store unavailable")}
	r := newTestRouter(granter, &fakeRecorder{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, checkoutCompletedPayload()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookDuplicateDeliveryIsHarmless(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{}
	recorder := &fakeRecorder{}
	r := newTestRouter(granter, recorder)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedRequest(t, checkoutCompletedPayload()))
		require.Equal(t, http.StatusOK, w.Code)
	}

	// both deliveries grant the same user; the store makes that a no-op
	assert.Equal(t, []uint{123, 123}, granter.granted)
}

func TestMetadataUserIDFallback(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	granter := &fakeGranter{}
	r := newTestRouter(granter, &fakeRecorder{})

	payload := []byte(`{
		"id": "evt_5",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_3", "object": "checkout.session", "payment_status": "paid", "metadata": {"user_id": "77"}}}
	}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{77}, granter.granted)
}
