package handlers_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"audio-mixing-backend/internal/handlers"
	"audio-mixing-backend/internal/migrate"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"
	"audio-mixing-backend/internal/service"
	"audio-mixing-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test"

// stubStripe fails session lookups while sessionErr is set; otherwise every
// session reads back as paid.
type stubStripe struct {
	sessionErr error
}

func (s *stubStripe) CreatePaymentIntent(ctx context.Context, in service.PaymentIntentInput) (*service.PaymentIntentResult, error) {
	return &service.PaymentIntentResult{ID: "pi_test", Status: "succeeded"}, nil
}

func (s *stubStripe) CreateCheckoutSession(ctx context.Context, in service.CheckoutSessionInput) (*service.CheckoutSessionResult, error) {
	return &service.CheckoutSessionResult{ID: "cs_test", URL: "https://stripe.test/cs_test"}, nil
}

func (s *stubStripe) GetCheckoutSession(ctx context.Context, sessionID string) (*service.CheckoutSessionResult, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return &service.CheckoutSessionResult{ID: sessionID, PaymentStatus: "paid", PaymentIntent: "pi_test"}, nil
}

type stubPayPal struct{}

func (stubPayPal) CreateOrder(ctx context.Context, amountCents int64, currency, description string) (*service.PayPalOrderResult, error) {
	return &service.PayPalOrderResult{ID: "pp_test", ApproveURL: "https://paypal.test/approve"}, nil
}

func (stubPayPal) CaptureOrder(ctx context.Context, orderID string) (*service.PayPalCaptureResult, error) {
	return &service.PayPalCaptureResult{CaptureID: "cap_test", Status: "COMPLETED"}, nil
}

type dropPublisher struct{}

func (dropPublisher) SendEmail(ctx context.Context, key string, msg service.EmailMessage) error {
	return nil
}

func setupWebhookRouter(t *testing.T, repo *repository.Repository, gateway *stubStripe) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	notifier := service.NewNotifier(dropPublisher{}, repo.Users, "admin@example.com", zap.NewNop())
	checkout := service.NewCheckoutService(repo, gateway, stubPayPal{}, nil, notifier, "https://frontend.test", zap.NewNop())
	h := handlers.NewWebhookHandler(checkout, repo, testWebhookSecret, zap.NewNop())

	r := gin.New()
	r.POST("/api/stripe/webhook", h.Stripe)
	return r
}

func seedWebhookVariant(t *testing.T, repo *repository.Repository, priceCents int64) models.Variant {
	t.Helper()
	ctx := context.Background()

	cat := models.Category{Name: "Mixing " + uuid.NewString()}
	if err := repo.Catalog.CreateCategory(ctx, &cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	off := models.Offering{
		CategoryID: cat.ID,
		Name:       "Stereo Mix",
		Slug:       "stereo-mix-" + uuid.NewString(),
		IsActive:   true,
	}
	if err := repo.Catalog.CreateOffering(ctx, &off); err != nil {
		t.Fatalf("create offering: %v", err)
	}
	v := models.Variant{
		OfferingID: off.ID,
		Name:       "Up to 20 stems",
		PriceCents: priceCents,
		Currency:   "USD",
		OrderType:  models.OrderTypeOneTime,
	}
	if err := repo.Catalog.CreateVariant(ctx, &v); err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return v
}

func signedSessionEvent(t *testing.T, eventID, sessionID, items string, amount int64) ([]byte, string) {
	t.Helper()
	evt := map[string]any{
		"id":          eventID,
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":           sessionID,
				"object":       "checkout.session",
				"amount_total": amount,
				"currency":     "usd",
				"metadata": map[string]string{
					"items":       items,
					"guest_name":  "Guest Buyer",
					"guest_email": "guest@example.com",
				},
			},
		},
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return payload, fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func TestStripeWebhook_RetryAfterTransientFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Migrate(ctx, db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := repository.New(db)
	v := seedWebhookVariant(t, repo, 5000)

	gateway := &stubStripe{sessionErr: fmt.Errorf("stripe: temporarily unavailable")}
	r := setupWebhookRouter(t, repo, gateway)

	eventID := "evt_" + uuid.NewString()
	sessionID := "cs_" + uuid.NewString()
	items := v.ID.String() + ":1"

	deliver := func() *httptest.ResponseRecorder {
		payload, header := signedSessionEvent(t, eventID, sessionID, items, 5000)
		req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// First delivery hits the gateway outage; nothing may be marked handled.
	if w := deliver(); w.Code != http.StatusInternalServerError {
		t.Fatalf("transient failure: expected 500, got %d (%s)", w.Code, w.Body.String())
	}
	if ord, err := repo.Orders.GetByTransactionID(ctx, sessionID); err != nil || ord != nil {
		t.Fatalf("failed confirmation must not leave an order, got %v (err %v)", ord, err)
	}

	// The gateway recovers; the retry carries the same event id and must be
	// processed rather than answered as a duplicate.
	gateway.sessionErr = nil
	w := deliver()
	if w.Code != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode retry response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("retry swallowed as %q, expected ok", resp["status"])
	}
	ord, err := repo.Orders.GetByTransactionID(ctx, sessionID)
	if err != nil || ord == nil {
		t.Fatalf("retry did not create the order: %v (err %v)", ord, err)
	}

	// A replay of the now-handled event is deduplicated and creates nothing.
	w = deliver()
	if w.Code != http.StatusOK {
		t.Fatalf("replay: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	resp = map[string]any{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode replay response: %v", err)
	}
	if resp["status"] != "duplicate" {
		t.Fatalf("replay answered %q, expected duplicate", resp["status"])
	}
	if _, total, err := repo.Orders.List(ctx, repository.OrderListFilter{}); err != nil || total != 1 {
		t.Fatalf("expected exactly one order after replay, got %d (err %v)", total, err)
	}
}

func TestStripeWebhook_RejectsBadSignature(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Migrate(ctx, db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := repository.New(db)
	r := setupWebhookRouter(t, repo, &stubStripe{})

	payload, _ := signedSessionEvent(t, "evt_"+uuid.NewString(), "cs_"+uuid.NewString(), uuid.NewString()+":1", 5000)
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("forged signature: expected 400, got %d", w.Code)
	}
}
