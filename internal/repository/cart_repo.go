package repository

import (
	"context"
	"errors"

	"audio-mixing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepo interface {
	Create(ctx context.Context, c *models.Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	GetByUserAndVariant(ctx context.Context, userID, variantID uuid.UUID) (*models.Cart, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
	Update(ctx context.Context, c *models.Cart) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByUserAndVariants(ctx context.Context, userID uuid.UUID, variantIDs []uuid.UUID) (int64, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) Create(ctx context.Context, c *models.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cartRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var row models.Cart
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *cartRepo) GetByUserAndVariant(ctx context.Context, userID, variantID uuid.UUID) (*models.Cart, error) {
	var row models.Cart
	err := r.db.WithContext(ctx).
		First(&row, "user_id = ? AND variant_id = ?", userID, variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *cartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Cart, error) {
	var rows []models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *cartRepo) Update(ctx context.Context, c *models.Cart) error {
	return r.db.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", c.ID).
		Updates(map[string]any{
			"quantity":         c.Quantity,
			"unit_price_cents": c.UnitPriceCents,
			"line_total_cents": c.LineTotalCents,
		}).Error
}

func (r *cartRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}

func (r *cartRepo) DeleteByUserAndVariants(ctx context.Context, userID uuid.UUID, variantIDs []uuid.UUID) (int64, error) {
	if len(variantIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND variant_id IN ?", userID, variantIDs).
		Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}

func (r *cartRepo) ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Cart{})
	return res.RowsAffected, res.Error
}
