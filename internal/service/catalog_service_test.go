package service_test

import (
	"context"
	"errors"
	"testing"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"

	"go.uber.org/zap"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Stereo Mix":              "stereo-mix",
		"Mix & Master (2 Songs)":  "mix-master-2-songs",
		"  Vocal Tuning  ":        "vocal-tuning",
		"ALL CAPS":                "all-caps",
		"already-a-slug":          "already-a-slug",
		"émigré":                  "migr",
		"---":                     "",
	}
	for in, want := range cases {
		if got := service.Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateOffering(t *testing.T) {
	repo := setupRepo(t)
	existing := seedCatalog(t, repo, 5000, false)
	admin := seedUser(t, repo, models.RoleAdmin)
	customer := seedUser(t, repo, models.RoleCustomer)
	svc := service.NewCatalogService(repo, zap.NewNop())

	in := service.OfferingInput{
		CategoryID:  existing.Category.ID,
		Name:        "Mix & Master Bundle",
		Description: "Both passes in one package",
		Variants: []service.VariantInput{
			{Name: "Single", PriceCents: 15000},
			{Name: "EP", PriceCents: 50000, Currency: "usd"},
		},
	}

	if _, err := svc.CreateOffering(authedCtx(customer.ID, models.RoleCustomer), in); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("customer create: expected ErrForbidden, got %v", err)
	}

	off, err := svc.CreateOffering(authedCtx(admin.ID, models.RoleAdmin), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if off.Slug != "mix-master-bundle" {
		t.Fatalf("slug not derived from name: %q", off.Slug)
	}
	if !off.IsActive {
		t.Fatalf("offerings default to active")
	}
	if len(off.Variants) != 2 {
		t.Fatalf("variants not created: %d", len(off.Variants))
	}
	if off.Variants[0].Currency != "USD" || off.Variants[0].OrderType != models.OrderTypeOneTime {
		t.Fatalf("variant defaults not applied: %+v", off.Variants[0])
	}

	got, err := svc.GetOfferingBySlug(context.Background(), "mix-master-bundle")
	if err != nil || got == nil {
		t.Fatalf("get by slug: %v %v", got, err)
	}
}

func TestUpdateAndDeleteOffering(t *testing.T) {
	repo := setupRepo(t)
	cat := seedCatalog(t, repo, 5000, false)
	admin := seedUser(t, repo, models.RoleAdmin)
	svc := service.NewCatalogService(repo, zap.NewNop())
	adminCtx := authedCtx(admin.ID, models.RoleAdmin)

	inactive := false
	updated, err := svc.UpdateOffering(adminCtx, cat.Offering.ID, service.OfferingInput{
		Name:     "Renamed Mix",
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed Mix" || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}
	// Fields left empty keep their previous values.
	if updated.Slug != cat.Offering.Slug {
		t.Fatalf("slug must not change when not provided: %q", updated.Slug)
	}

	v, err := svc.AddVariant(adminCtx, cat.Offering.ID, service.VariantInput{Name: "Rush", PriceCents: 9000})
	if err != nil {
		t.Fatalf("add variant: %v", err)
	}
	if err := svc.DeleteVariant(adminCtx, v.ID); err != nil {
		t.Fatalf("delete variant: %v", err)
	}
	if err := svc.DeleteVariant(adminCtx, v.ID); !errors.Is(err, service.ErrVariantNotFound) {
		t.Fatalf("double delete: expected ErrVariantNotFound, got %v", err)
	}

	if err := svc.DeleteOffering(adminCtx, cat.Offering.ID); err != nil {
		t.Fatalf("delete offering: %v", err)
	}
	if err := svc.DeleteOffering(adminCtx, cat.Offering.ID); !errors.Is(err, service.ErrOfferingNotFound) {
		t.Fatalf("double delete: expected ErrOfferingNotFound, got %v", err)
	}
}

func TestListOfferings_HidesInactiveFromPublic(t *testing.T) {
	repo := setupRepo(t)
	cat := seedCatalog(t, repo, 5000, false)
	admin := seedUser(t, repo, models.RoleAdmin)
	svc := service.NewCatalogService(repo, zap.NewNop())

	inactive := false
	if _, err := svc.UpdateOffering(authedCtx(admin.ID, models.RoleAdmin), cat.Offering.ID, service.OfferingInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, total, err := svc.ListOfferings(context.Background(), service.ListOfferingsInput{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("public list: %v", err)
	}
	if total != 0 {
		t.Fatalf("public listing must hide inactive offerings, got %d", total)
	}

	_, total, err = svc.ListOfferings(authedCtx(admin.ID, models.RoleAdmin), service.ListOfferingsInput{Page: 1, PerPage: 10, IncludeInact: true})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if total != 1 {
		t.Fatalf("admin listing must include inactive offerings, got %d", total)
	}
}
