package service_test

import (
	"context"
	"errors"
	"testing"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"

	"go.uber.org/zap"
)

func TestBlog_PublishLifecycle(t *testing.T) {
	repo := setupRepo(t)
	admin := seedUser(t, repo, models.RoleAdmin)
	svc := service.NewBlogService(repo, zap.NewNop())
	adminCtx := authedCtx(admin.ID, models.RoleAdmin)
	publicCtx := context.Background()

	if _, err := svc.Create(publicCtx, service.BlogPostInput{Title: "Nope"}); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("anonymous create: expected ErrUnauthorized, got %v", err)
	}

	draft, err := svc.Create(adminCtx, service.BlogPostInput{
		Title:   "How We Master Loud Records",
		Content: "Long form content",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if draft.Slug != "how-we-master-loud-records" {
		t.Fatalf("slug not derived: %q", draft.Slug)
	}
	if draft.IsPublished || draft.PublishedAt != nil {
		t.Fatalf("new posts start as drafts: %+v", draft)
	}

	// Drafts are invisible to the public but visible to staff.
	if _, err := svc.GetBySlug(publicCtx, draft.Slug); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("public draft read: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetBySlug(adminCtx, draft.Slug); err != nil {
		t.Fatalf("staff draft read: %v", err)
	}
	if _, total, err := svc.List(publicCtx, 1, 10, false); err != nil || total != 0 {
		t.Fatalf("public list must hide drafts: total=%d err=%v", total, err)
	}
	if _, total, err := svc.List(adminCtx, 1, 10, true); err != nil || total != 1 {
		t.Fatalf("staff list must include drafts: total=%d err=%v", total, err)
	}

	publish := true
	published, err := svc.Update(adminCtx, draft.Slug, service.BlogPostInput{Publish: &publish})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublished || published.PublishedAt == nil {
		t.Fatalf("publish not applied: %+v", published)
	}
	stored, err := svc.GetBySlug(publicCtx, draft.Slug)
	if err != nil {
		t.Fatalf("read after publish: %v", err)
	}
	firstPublishedAt := *stored.PublishedAt

	// Re-publishing keeps the original publication time.
	republished, err := svc.Update(adminCtx, draft.Slug, service.BlogPostInput{Publish: &publish})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !republished.PublishedAt.Equal(firstPublishedAt) {
		t.Fatalf("published_at must not move on re-publish")
	}

	if err := svc.Delete(adminCtx, draft.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(adminCtx, draft.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}
