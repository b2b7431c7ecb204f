package service_test

import (
	"context"
	"testing"

	"audio-mixing-backend/internal/migrate"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"
	"audio-mixing-backend/internal/service"
	"audio-mixing-backend/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.Migrate(context.Background(), db, zap.NewNop(), migrate.DefaultOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.New(db)
}

type seededCatalog struct {
	Category models.Category
	Offering models.Offering
	Variant  models.Variant
}

func seedCatalog(t *testing.T, repo *repository.Repository, priceCents int64, giftCard bool) seededCatalog {
	t.Helper()
	ctx := context.Background()

	cat := models.Category{Name: "Mixing " + uuid.NewString(), IsGiftCard: giftCard}
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
	return seededCatalog{Category: cat, Offering: off, Variant: v}
}

func seedUser(t *testing.T, repo *repository.Repository, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "irrelevant",
		Name:     "Test User",
		Role:     role,
	}
	if err := repo.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedOrder(t *testing.T, repo *repository.Repository, userID *uuid.UUID, status models.OrderStatus, cat seededCatalog, maxRevision int32) (*models.Order, *models.OrderItem) {
	t.Helper()
	ctx := context.Background()

	ord := &models.Order{
		UserID:        userID,
		TransactionID: "tx-" + uuid.NewString(),
		AmountCents:   cat.Variant.PriceCents,
		Currency:      "USD",
		PaymentStatus: "paid",
		PaymentMethod: models.PaymentMethodStripe,
		OrderType:     models.OrderTypeOneTime,
		Status:        status,
	}
	if err := repo.Orders.Create(ctx, ord); err != nil {
		t.Fatalf("create order: %v", err)
	}

	items := []models.OrderItem{{
		OrderID:        ord.ID,
		VariantID:      cat.Variant.ID,
		OfferingID:     cat.Offering.ID,
		Name:           cat.Offering.Name,
		ServiceType:    string(cat.Variant.OrderType),
		Quantity:       1,
		UnitPriceCents: cat.Variant.PriceCents,
		LineTotalCents: cat.Variant.PriceCents,
		MaxRevision:    maxRevision,
	}}
	if err := repo.OrderItems.BulkCreate(ctx, items); err != nil {
		t.Fatalf("create order item: %v", err)
	}
	return ord, &items[0]
}

func authedCtx(userID uuid.UUID, role models.Role) context.Context {
	ctx := service.WithUserID(context.Background(), userID)
	return service.WithRole(ctx, role)
}

// mockPublisher collects every message the notifier sends.
type mockPublisher struct {
	Sent []service.EmailMessage
}

func (m *mockPublisher) SendEmail(ctx context.Context, key string, msg service.EmailMessage) error {
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *mockPublisher) templates() []string {
	out := make([]string, 0, len(m.Sent))
	for _, msg := range m.Sent {
		out = append(out, msg.Template)
	}
	return out
}

func newTestNotifier(repo *repository.Repository) (*service.Notifier, *mockPublisher) {
	pub := &mockPublisher{}
	return service.NewNotifier(pub, repo.Users, "admin@example.com", zap.NewNop()), pub
}

type mockStripe struct {
	CreatePaymentIntentFunc   func(ctx context.Context, in service.PaymentIntentInput) (*service.PaymentIntentResult, error)
	CreateCheckoutSessionFunc func(ctx context.Context, in service.CheckoutSessionInput) (*service.CheckoutSessionResult, error)
	GetCheckoutSessionFunc    func(ctx context.Context, sessionID string) (*service.CheckoutSessionResult, error)
}

func (m *mockStripe) CreatePaymentIntent(ctx context.Context, in service.PaymentIntentInput) (*service.PaymentIntentResult, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, in)
	}
	return &service.PaymentIntentResult{ID: "pi_test", Status: "requires_confirmation"}, nil
}

func (m *mockStripe) CreateCheckoutSession(ctx context.Context, in service.CheckoutSessionInput) (*service.CheckoutSessionResult, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, in)
	}
	return &service.CheckoutSessionResult{ID: "cs_test", URL: "https://stripe.test/cs_test"}, nil
}

func (m *mockStripe) GetCheckoutSession(ctx context.Context, sessionID string) (*service.CheckoutSessionResult, error) {
	if m.GetCheckoutSessionFunc != nil {
		return m.GetCheckoutSessionFunc(ctx, sessionID)
	}
	return &service.CheckoutSessionResult{ID: sessionID, PaymentStatus: "paid"}, nil
}

type mockPayPal struct {
	CreateOrderFunc  func(ctx context.Context, amountCents int64, currency, description string) (*service.PayPalOrderResult, error)
	CaptureOrderFunc func(ctx context.Context, orderID string) (*service.PayPalCaptureResult, error)
}

func (m *mockPayPal) CreateOrder(ctx context.Context, amountCents int64, currency, description string) (*service.PayPalOrderResult, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amountCents, currency, description)
	}
	return &service.PayPalOrderResult{ID: "pp_test", ApproveURL: "https://paypal.test/approve"}, nil
}

func (m *mockPayPal) CaptureOrder(ctx context.Context, orderID string) (*service.PayPalCaptureResult, error) {
	if m.CaptureOrderFunc != nil {
		return m.CaptureOrderFunc(ctx, orderID)
	}
	return &service.PayPalCaptureResult{CaptureID: "cap_test", Status: "COMPLETED"}, nil
}

func containsTemplate(templates []string, want string) bool {
	for _, tmpl := range templates {
		if tmpl == want {
			return true
		}
	}
	return false
}
