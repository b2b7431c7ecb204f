package service_test

import (
	"context"
	"errors"
	"testing"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"
	"audio-mixing-backend/internal/service"

	"go.uber.org/zap"
)

func newRevisionService(repo *repository.Repository) (*service.RevisionService, *mockPublisher) {
	notifier, pub := newTestNotifier(repo)
	return service.NewRevisionService(repo, notifier, zap.NewNop()), pub
}

func TestSubmitRevision_DecrementsUntilExhausted(t *testing.T) {
	repo := setupRepo(t)
	cat := seedCatalog(t, repo, 5000, false)
	user := seedUser(t, repo, models.RoleCustomer)
	ord, item := seedOrder(t, repo, &user.ID, models.OrderStatusDelivered, cat, 1)

	svc, pub := newRevisionService(repo)
	ctx := authedCtx(user.ID, models.RoleCustomer)

	rev, err := svc.Submit(ctx, service.SubmitRevisionInput{
		OrderID:    ord.ID,
		OfferingID: cat.Offering.ID,
		Message:    "vocal up 2dB please",
		Files:      []string{"https://cdn.test/ref.mp3", "  "},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rev.Status != models.RevisionStatusRequested {
		t.Fatalf("revision status wrong: %s", rev.Status)
	}

	got, err := repo.OrderItems.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.MaxRevision != 0 {
		t.Fatalf("counter expected 0 after one free revision, got %d", got.MaxRevision)
	}

	ordAfter, _ := repo.Orders.GetByID(context.Background(), ord.ID)
	if ordAfter.Status != models.OrderStatusRevisionRequested {
		t.Fatalf("order status expected revision requested, got %s", ordAfter.Status)
	}

	full, _ := repo.Revisions.GetByID(context.Background(), rev.ID)
	if len(full.Files) != 1 {
		t.Fatalf("blank file links must be dropped, got %d files", len(full.Files))
	}

	if !containsTemplate(pub.templates(), service.TmplRevisionRequested) {
		t.Fatalf("revision request email not published: %v", pub.templates())
	}

	// Counter floor: the next request must be rejected, never go negative.
	_, err = svc.Submit(ctx, service.SubmitRevisionInput{
		OrderID:    ord.ID,
		OfferingID: cat.Offering.ID,
		Message:    "one more tweak",
	})
	if !errors.Is(err, service.ErrMaxRevisionReached) {
		t.Fatalf("expected ErrMaxRevisionReached, got %v", err)
	}
	got, _ = repo.OrderItems.GetByID(context.Background(), item.ID)
	if got.MaxRevision != 0 {
		t.Fatalf("counter went below zero: %d", got.MaxRevision)
	}
}

func TestSubmitRevision_PaidEditUpdatesInPlace(t *testing.T) {
	repo := setupRepo(t)
	cat := seedCatalog(t, repo, 5000, false)
	user := seedUser(t, repo, models.RoleCustomer)
	ord, item := seedOrder(t, repo, &user.ID, models.OrderStatusDelivered, cat, 3)

	svc, _ := newRevisionService(repo)
	ctx := authedCtx(user.ID, models.RoleCustomer)
	txID := "rev_tx_1"

	first, err := svc.Submit(ctx, service.SubmitRevisionInput{
		OrderID:       ord.ID,
		OfferingID:    cat.Offering.ID,
		Message:       "initial notes",
		TransactionID: &txID,
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	afterFirst, _ := repo.OrderItems.GetByID(context.Background(), item.ID)

	second, err := svc.Submit(ctx, service.SubmitRevisionInput{
		OrderID:       ord.ID,
		OfferingID:    cat.Offering.ID,
		Message:       "updated notes",
		TransactionID: &txID,
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmit with same transaction must edit in place, got new revision %s", second.ID)
	}

	stored, _ := repo.Revisions.GetByID(context.Background(), first.ID)
	if stored.Message != "updated notes" {
		t.Fatalf("message not updated: %q", stored.Message)
	}

	afterSecond, _ := repo.OrderItems.GetByID(context.Background(), item.ID)
	if afterSecond.MaxRevision != afterFirst.MaxRevision {
		t.Fatalf("paid edit must not decrement the counter: %d -> %d", afterFirst.MaxRevision, afterSecond.MaxRevision)
	}

	revs, _ := repo.Revisions.ListByOrder(context.Background(), ord.ID)
	if len(revs) != 1 {
		t.Fatalf("expected one revision row, got %d", len(revs))
	}
}

func TestSubmitRevision_Authorization(t *testing.T) {
	repo := setupRepo(t)
	cat := seedCatalog(t, repo, 5000, false)
	owner := seedUser(t, repo, models.RoleCustomer)
	other := seedUser(t, repo, models.RoleCustomer)
	ord, _ := seedOrder(t, repo, &owner.ID, models.OrderStatusDelivered, cat, 3)

	svc, _ := newRevisionService(repo)

	in := service.SubmitRevisionInput{OrderID: ord.ID, OfferingID: cat.Offering.ID, Message: "hi"}

	if _, err := svc.Submit(context.Background(), in); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("anonymous: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Submit(authedCtx(other.ID, models.RoleCustomer), in); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("other user: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Submit(authedCtx(other.ID, models.RoleAdmin), in); err != nil {
		t.Fatalf("admin may submit on behalf of the customer: %v", err)
	}
}

func TestUploadDelivery(t *testing.T) {
	repo := setupRepo(t)
	cat := seedCatalog(t, repo, 5000, false)
	user := seedUser(t, repo, models.RoleCustomer)
	admin := seedUser(t, repo, models.RoleAdmin)
	ord, _ := seedOrder(t, repo, &user.ID, models.OrderStatusDelivered, cat, 3)

	svc, pub := newRevisionService(repo)

	rev, err := svc.Submit(authedCtx(user.ID, models.RoleCustomer), service.SubmitRevisionInput{
		OrderID:    ord.ID,
		OfferingID: cat.Offering.ID,
		Message:    "snare too loud",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	adminCtx := authedCtx(admin.ID, models.RoleAdmin)

	if _, err := svc.UploadDelivery(authedCtx(user.ID, models.RoleCustomer), service.UploadDeliveryInput{RevisionID: rev.ID, Links: []string{"x"}}); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("customer upload: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UploadDelivery(adminCtx, service.UploadDeliveryInput{RevisionID: rev.ID, Links: []string{"  ", ""}}); !errors.Is(err, service.ErrNoDeliverables) {
		t.Fatalf("blank links: expected ErrNoDeliverables, got %v", err)
	}

	delivered, err := svc.UploadDelivery(adminCtx, service.UploadDeliveryInput{
		RevisionID: rev.ID,
		Links:      []string{" https://cdn.test/mix_v2.wav ", ""},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if delivered.Status != models.RevisionStatusDelivered {
		t.Fatalf("revision status expected delivered, got %s", delivered.Status)
	}
	if delivered.UserIsRead {
		t.Fatalf("delivery must flip the revision back to unread for the customer")
	}
	if len(delivered.Files) != 1 || delivered.Files[0].URL != "https://cdn.test/mix_v2.wav" {
		t.Fatalf("delivered files wrong: %+v", delivered.Files)
	}

	ordAfter, _ := repo.Orders.GetByID(context.Background(), ord.ID)
	if ordAfter.Status != models.OrderStatusDelivered {
		t.Fatalf("order status expected delivered, got %s", ordAfter.Status)
	}
	if !containsTemplate(pub.templates(), service.TmplRevisionDelivered) {
		t.Fatalf("delivery email not published: %v", pub.templates())
	}
}

func TestFlagRead(t *testing.T) {
	repo := setupRepo(t)
	cat := seedCatalog(t, repo, 5000, false)
	user := seedUser(t, repo, models.RoleCustomer)
	ord, item := seedOrder(t, repo, &user.ID, models.OrderStatusDelivered, cat, 3)

	svc, _ := newRevisionService(repo)
	userCtx := authedCtx(user.ID, models.RoleCustomer)

	rev, err := svc.Submit(userCtx, service.SubmitRevisionInput{
		OrderID:    ord.ID,
		OfferingID: cat.Offering.ID,
		Message:    "notes",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.FlagRead(userCtx, service.FlagReadInput{
		Type:        service.FlagTargetOrder,
		OrderID:     ord.ID,
		OrderItemID: item.ID,
	}); err != nil {
		t.Fatalf("flag order read: %v", err)
	}
	got, _ := repo.OrderItems.GetByID(context.Background(), item.ID)
	if !got.UserIsRead {
		t.Fatalf("order item user flag not set")
	}

	if err := svc.FlagRead(userCtx, service.FlagReadInput{
		Type:        service.FlagTargetRevision,
		OrderID:     ord.ID,
		OrderItemID: item.ID,
		Admin:       true,
	}); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("customer flipping admin flag: expected ErrForbidden, got %v", err)
	}

	if err := svc.FlagRead(userCtx, service.FlagReadInput{
		Type:        service.FlagTargetRevision,
		OrderID:     ord.ID,
		OrderItemID: item.ID,
	}); err != nil {
		t.Fatalf("flag revision read: %v", err)
	}
	revAfter, _ := repo.Revisions.GetByID(context.Background(), rev.ID)
	if !revAfter.UserIsRead {
		t.Fatalf("revision user flag not set")
	}
}
