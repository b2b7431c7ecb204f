package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, now: time.Now, log: log}
}

type ListOfferingsInput struct {
	CategoryID   *uuid.UUID
	LabelID      *uuid.UUID
	TagID        *uuid.UUID
	IncludeInact bool
	Page         int
	PerPage      int
}

func (s *CatalogService) ListOfferings(ctx context.Context, in ListOfferingsInput) ([]*models.Offering, int64, error) {
	activeOnly := true
	if in.IncludeInact {
		if _, role, err := requireAuth(ctx); err == nil && (role == models.RoleAdmin || role == models.RoleEngineer) {
			activeOnly = false
		}
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PerPage <= 0 || in.PerPage > 100 {
		in.PerPage = 20
	}
	return s.repo.Catalog.ListOfferings(ctx, repository.OfferingListFilter{
		CategoryID: in.CategoryID,
		LabelID:    in.LabelID,
		TagID:      in.TagID,
		ActiveOnly: activeOnly,
		Limit:      in.PerPage,
		Offset:     (in.Page - 1) * in.PerPage,
	})
}

func (s *CatalogService) GetOffering(ctx context.Context, id uuid.UUID) (*models.Offering, error) {
	off, err := s.repo.Catalog.GetOffering(ctx, id)
	if err != nil {
		return nil, err
	}
	if off == nil {
		return nil, ErrOfferingNotFound
	}
	return off, nil
}

func (s *CatalogService) GetOfferingBySlug(ctx context.Context, slug string) (*models.Offering, error) {
	off, err := s.repo.Catalog.GetOfferingBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if off == nil {
		return nil, ErrOfferingNotFound
	}
	return off, nil
}

type VariantInput struct {
	Name       string
	PriceCents int64
	Currency   string
	OrderType  models.OrderType
}

type OfferingInput struct {
	CategoryID  uuid.UUID
	LabelID     *uuid.UUID
	Name        string
	Slug        string
	Description string
	ImageURL    string
	IsActive    *bool
	Variants    []VariantInput
}

func (s *CatalogService) CreateOffering(ctx context.Context, in OfferingInput) (*models.Offering, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	now := s.now()
	off := &models.Offering{
		CategoryID:  in.CategoryID,
		LabelID:     in.LabelID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if off.Slug == "" {
		off.Slug = Slugify(in.Name)
	}
	if in.IsActive != nil {
		off.IsActive = *in.IsActive
	}
	for _, v := range in.Variants {
		cur := v.Currency
		if cur == "" {
			cur = "USD"
		}
		ot := v.OrderType
		if ot == "" {
			ot = models.OrderTypeOneTime
		}
		off.Variants = append(off.Variants, models.Variant{
			Name:       v.Name,
			PriceCents: v.PriceCents,
			Currency:   cur,
			OrderType:  ot,
			CreatedAt:  now,
		})
	}
	if err := s.repo.Catalog.CreateOffering(ctx, off); err != nil {
		return nil, err
	}
	return off, nil
}

func (s *CatalogService) UpdateOffering(ctx context.Context, id uuid.UUID, in OfferingInput) (*models.Offering, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	off, err := s.repo.Catalog.GetOffering(ctx, id)
	if err != nil {
		return nil, err
	}
	if off == nil {
		return nil, ErrOfferingNotFound
	}
	if in.Name != "" {
		off.Name = in.Name
	}
	if in.Slug != "" {
		off.Slug = in.Slug
	}
	if in.Description != "" {
		off.Description = in.Description
	}
	if in.ImageURL != "" {
		off.ImageURL = in.ImageURL
	}
	if in.CategoryID != uuid.Nil {
		off.CategoryID = in.CategoryID
	}
	if in.LabelID != nil {
		off.LabelID = in.LabelID
	}
	if in.IsActive != nil {
		off.IsActive = *in.IsActive
	}
	off.UpdatedAt = s.now()
	if err := s.repo.Catalog.UpdateOffering(ctx, off); err != nil {
		return nil, err
	}
	return off, nil
}

func (s *CatalogService) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	if err := requireStaff(ctx); err != nil {
		return err
	}
	n, err := s.repo.Catalog.DeleteOffering(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOfferingNotFound
	}
	return nil
}

func (s *CatalogService) AddVariant(ctx context.Context, offeringID uuid.UUID, in VariantInput) (*models.Variant, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	off, err := s.repo.Catalog.GetOffering(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if off == nil {
		return nil, ErrOfferingNotFound
	}
	cur := in.Currency
	if cur == "" {
		cur = "USD"
	}
	ot := in.OrderType
	if ot == "" {
		ot = models.OrderTypeOneTime
	}
	v := &models.Variant{
		OfferingID: offeringID,
		Name:       in.Name,
		PriceCents: in.PriceCents,
		Currency:   cur,
		OrderType:  ot,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Catalog.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *CatalogService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	if err := requireStaff(ctx); err != nil {
		return err
	}
	n, err := s.repo.Catalog.DeleteVariant(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Catalog.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string, isGiftCard bool) (*models.Category, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	c := &models.Category{Name: name, IsGiftCard: isGiftCard, CreatedAt: s.now()}
	if err := s.repo.Catalog.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListLabels(ctx context.Context) ([]models.Label, error) {
	return s.repo.Catalog.ListLabels(ctx)
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.Catalog.ListTags(ctx)
}

func requireStaff(ctx context.Context) error {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && role != models.RoleEngineer {
		return ErrForbidden
	}
	return nil
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses runs of non-alphanumerics to a
// single hyphen.
func Slugify(name string) string {
	s := slugCleanup.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
