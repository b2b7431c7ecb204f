package repository_test

import (
	"context"
	"testing"

	"audio-mixing-backend/internal/migrate"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"
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

func TestUserRepo_UniqueEmailCaseInsensitive(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := &models.User{Email: "User@Example.com", Password: "hash"}
	if err := repo.Users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &models.User{Email: "user@example.com", Password: "hash"}
	if err := repo.Users.Create(ctx, dup); err == nil {
		t.Fatal("expected unique violation on lower(email)")
	}

	exists, err := repo.Users.ExistsByEmail(ctx, "USER@EXAMPLE.COM")
	if err != nil || !exists {
		t.Fatalf("ExistsByEmail case-insensitive lookup: %v %v", exists, err)
	}
	got, err := repo.Users.GetByEmail(ctx, "user@EXAMPLE.com")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail case-insensitive lookup: %+v %v", got, err)
	}
}

func TestOrderRepo_TransactionIDUnique(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	ord := &models.Order{
		TransactionID: "cs_unique_1",
		Currency:      "USD",
		PaymentMethod: models.PaymentMethodStripe,
		OrderType:     models.OrderTypeOneTime,
		Status:        models.OrderStatusPending,
	}
	if err := repo.Orders.Create(ctx, ord); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &models.Order{
		TransactionID: "cs_unique_1",
		Currency:      "USD",
		PaymentMethod: models.PaymentMethodStripe,
		OrderType:     models.OrderTypeOneTime,
		Status:        models.OrderStatusPending,
	}
	if err := repo.Orders.Create(ctx, dup); err == nil {
		t.Fatal("expected unique violation on transaction_id")
	}

	got, err := repo.Orders.GetByTransactionID(ctx, "cs_unique_1")
	if err != nil || got == nil || got.ID != ord.ID {
		t.Fatalf("GetByTransactionID: %+v %v", got, err)
	}
	if missing, err := repo.Orders.GetByTransactionID(ctx, "cs_other"); err != nil || missing != nil {
		t.Fatalf("missing transaction should be nil, nil: %v %v", missing, err)
	}
}

func TestOrderRepo_ClaimGuestOrders(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	mk := func(email string, userID *uuid.UUID) *models.Order {
		o := &models.Order{
			UserID:        userID,
			GuestContact:  models.GuestContact{GuestEmail: email},
			TransactionID: "tx-" + uuid.NewString(),
			Currency:      "USD",
			PaymentMethod: models.PaymentMethodStripe,
			OrderType:     models.OrderTypeOneTime,
			Status:        models.OrderStatusPending,
		}
		if err := repo.Orders.Create(ctx, o); err != nil {
			t.Fatalf("create order: %v", err)
		}
		return o
	}

	claimed := mk("Guest@Example.com", nil)
	other := mk("someone.else@example.com", nil)
	already := uuid.New()
	mk("guest@example.com", &already)

	newUser := uuid.New()
	n, err := repo.Orders.ClaimGuestOrders(ctx, "guest@example.com", newUser)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one claimed order, got %d", n)
	}

	got, _ := repo.Orders.GetByID(ctx, claimed.ID)
	if got.UserID == nil || *got.UserID != newUser {
		t.Fatalf("guest order not claimed: %+v", got.UserID)
	}
	untouched, _ := repo.Orders.GetByID(ctx, other.ID)
	if untouched.UserID != nil {
		t.Fatalf("unrelated guest order was claimed")
	}
}

func TestWebhookEventRepo_RecordDeduplicates(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first := &models.WebhookEvent{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "checkout.session.completed",
	}
	seen, err := repo.WebhookEvents.Record(ctx, first)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if seen {
		t.Fatal("first delivery must not be marked as processed")
	}

	replay := &models.WebhookEvent{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "checkout.session.completed",
	}
	seen, err = repo.WebhookEvents.Record(ctx, replay)
	if err != nil {
		t.Fatalf("record replay: %v", err)
	}
	if !seen {
		t.Fatal("replayed delivery must be reported as already processed")
	}

	// Same event id from another provider is a distinct event.
	seen, err = repo.WebhookEvents.Record(ctx, &models.WebhookEvent{
		Provider:        "paypal",
		ProviderEventID: "evt_1",
		EventType:       "capture.completed",
	})
	if err != nil || seen {
		t.Fatalf("cross-provider event wrongly deduplicated: %v %v", seen, err)
	}
}

func TestCartRepo_DeleteByUserAndVariants(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	user := uuid.New()
	v1, v2, v3 := uuid.New(), uuid.New(), uuid.New()
	for _, v := range []uuid.UUID{v1, v2, v3} {
		if err := repo.Carts.Create(ctx, &models.Cart{
			UserID: user, VariantID: v, Quantity: 1,
			UnitPriceCents: 1000, LineTotalCents: 1000,
			OrderType: models.OrderTypeOneTime,
		}); err != nil {
			t.Fatalf("create cart: %v", err)
		}
	}

	n, err := repo.Carts.DeleteByUserAndVariants(ctx, user, []uuid.UUID{v1, v2})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows deleted, got %d", n)
	}

	left, _ := repo.Carts.ListByUser(ctx, user)
	if len(left) != 1 || left[0].VariantID != v3 {
		t.Fatalf("wrong rows left: %+v", left)
	}
}

func TestCatalogRepo_Offerings(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	cat := models.Category{Name: "Mastering"}
	if err := repo.Catalog.CreateCategory(ctx, &cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	active := &models.Offering{
		CategoryID: cat.ID, Name: "Stem Mastering", Slug: "stem-mastering", IsActive: true,
		Variants: []models.Variant{{Name: "EP", PriceCents: 20000, Currency: "USD", OrderType: models.OrderTypeOneTime}},
	}
	if err := repo.Catalog.CreateOffering(ctx, active); err != nil {
		t.Fatalf("create offering: %v", err)
	}
	hidden := &models.Offering{CategoryID: cat.ID, Name: "Old Deal", Slug: "old-deal", IsActive: false}
	if err := repo.Catalog.CreateOffering(ctx, hidden); err != nil {
		t.Fatalf("create hidden offering: %v", err)
	}

	list, total, err := repo.Catalog.ListOfferings(ctx, repository.OfferingListFilter{ActiveOnly: true, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("active-only listing wrong: total=%d", total)
	}

	bySlug, err := repo.Catalog.GetOfferingBySlug(ctx, "stem-mastering")
	if err != nil || bySlug == nil {
		t.Fatalf("get by slug: %v %v", bySlug, err)
	}
	if len(bySlug.Variants) != 1 || bySlug.Variants[0].PriceCents != 20000 {
		t.Fatalf("variants not preloaded: %+v", bySlug.Variants)
	}

	vars, err := repo.Catalog.GetVariants(ctx, []uuid.UUID{bySlug.Variants[0].ID})
	if err != nil || len(vars) != 1 {
		t.Fatalf("get variants: %v %v", vars, err)
	}
}

func TestRepository_WithTxRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := &models.User{Email: "tx@example.com", Password: "hash"}
	err := repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Users.Create(ctx, u); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	if err == nil {
		t.Fatal("expected the forced error to surface")
	}

	exists, err := repo.Users.ExistsByEmail(ctx, "tx@example.com")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("rolled back insert is still visible")
	}
}
