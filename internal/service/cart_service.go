package service

import (
	"context"
	"time"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) *CartService {
	return &CartService{repo: repo, now: time.Now, log: log}
}

// CartLine is a cart row joined with its offering snapshot for display.
type CartLine struct {
	Cart     models.Cart
	Variant  *models.Variant
	Offering *models.Offering
}

func (s *CartService) List(ctx context.Context) ([]CartLine, int64, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.repo.Carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	lines := make([]CartLine, 0, len(rows))
	var total int64
	for _, row := range rows {
		line := CartLine{Cart: row}
		if v, verr := s.repo.Catalog.GetVariant(ctx, row.VariantID); verr == nil && v != nil {
			line.Variant = v
			if off, oerr := s.repo.Catalog.GetOffering(ctx, v.OfferingID); oerr == nil {
				line.Offering = off
			}
		}
		total += row.LineTotalCents
		lines = append(lines, line)
	}
	return lines, total, nil
}

type AddCartInput struct {
	VariantID uuid.UUID
	Quantity  uint32
}

// Add puts a variant in the cart. Adding a variant already in the cart bumps
// its quantity instead of failing on the unique index.
func (s *CartService) Add(ctx context.Context, in AddCartInput) (*models.Cart, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		return nil, ErrQuantityInvalid
	}

	variant, err := s.repo.Catalog.GetVariant(ctx, in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	off, err := s.repo.Catalog.GetOffering(ctx, variant.OfferingID)
	if err != nil {
		return nil, err
	}
	if off == nil || !off.IsActive {
		return nil, ErrOfferingNotFound
	}

	existing, err := s.repo.Carts.GetByUserAndVariant(ctx, userID, in.VariantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += in.Quantity
		existing.UnitPriceCents = variant.PriceCents
		existing.LineTotalCents = variant.PriceCents * int64(existing.Quantity)
		if err := s.repo.Carts.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	now := s.now()
	row := &models.Cart{
		UserID:         userID,
		VariantID:      in.VariantID,
		Quantity:       in.Quantity,
		UnitPriceCents: variant.PriceCents,
		LineTotalCents: variant.PriceCents * int64(in.Quantity),
		OrderType:      variant.OrderType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Carts.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, cartID uuid.UUID, quantity uint32) (*models.Cart, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		return nil, ErrQuantityInvalid
	}

	row, err := s.repo.Carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if row == nil || row.UserID != userID {
		return nil, ErrNotFound
	}

	row.Quantity = quantity
	row.LineTotalCents = row.UnitPriceCents * int64(quantity)
	if err := s.repo.Carts.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *CartService) Remove(ctx context.Context, cartID uuid.UUID) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	row, err := s.repo.Carts.GetByID(ctx, cartID)
	if err != nil {
		return err
	}
	if row == nil || row.UserID != userID {
		return ErrNotFound
	}
	_, err = s.repo.Carts.Delete(ctx, cartID)
	return err
}

func (s *CartService) Clear(ctx context.Context) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	_, err = s.repo.Carts.ClearByUser(ctx, userID)
	return err
}
