package repository

import (
	"context"
	"errors"

	"audio-mixing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferingListFilter struct {
	CategoryID *uuid.UUID
	LabelID    *uuid.UUID
	TagID      *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

type CatalogRepo interface {
	ListOfferings(ctx context.Context, f OfferingListFilter) ([]*models.Offering, int64, error)
	GetOffering(ctx context.Context, id uuid.UUID) (*models.Offering, error)
	GetOfferingBySlug(ctx context.Context, slug string) (*models.Offering, error)
	CreateOffering(ctx context.Context, o *models.Offering) error
	UpdateOffering(ctx context.Context, o *models.Offering) error
	DeleteOffering(ctx context.Context, id uuid.UUID) (int64, error)

	GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	GetVariants(ctx context.Context, ids []uuid.UUID) ([]models.Variant, error)
	CreateVariant(ctx context.Context, v *models.Variant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) (int64, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	ListLabels(ctx context.Context) ([]models.Label, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) CatalogRepo { return &catalogRepo{db: db} }

func (r *catalogRepo) ListOfferings(ctx context.Context, f OfferingListFilter) ([]*models.Offering, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Offering{})

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.LabelID != nil {
		q = q.Where("label_id = ?", *f.LabelID)
	}
	if f.TagID != nil {
		q = q.Joins("JOIN offering_tags ot ON ot.offering_id = offerings.id AND ot.tag_id = ?", *f.TagID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Offering
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).
		Preload("Variants").Preload("Category").Preload("Tags").
		Find(&list).Error
	return list, total, err
}

func (r *catalogRepo) GetOffering(ctx context.Context, id uuid.UUID) (*models.Offering, error) {
	var o models.Offering
	err := r.db.WithContext(ctx).
		Preload("Variants").Preload("Category").Preload("Tags").
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *catalogRepo) GetOfferingBySlug(ctx context.Context, slug string) (*models.Offering, error) {
	var o models.Offering
	err := r.db.WithContext(ctx).
		Preload("Variants").Preload("Category").Preload("Tags").
		First(&o, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *catalogRepo) CreateOffering(ctx context.Context, o *models.Offering) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *catalogRepo) UpdateOffering(ctx context.Context, o *models.Offering) error {
	return r.db.WithContext(ctx).Model(&models.Offering{}).Where("id = ?", o.ID).
		Updates(map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"image_url":   o.ImageURL,
			"category_id": o.CategoryID,
			"label_id":    o.LabelID,
			"is_active":   o.IsActive,
		}).Error
}

func (r *catalogRepo) DeleteOffering(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Offering{})
	return res.RowsAffected, res.Error
}

func (r *catalogRepo) GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var v models.Variant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *catalogRepo) GetVariants(ctx context.Context, ids []uuid.UUID) ([]models.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Variant
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) CreateVariant(ctx context.Context, v *models.Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *catalogRepo) DeleteVariant(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Variant{})
	return res.RowsAffected, res.Error
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogRepo) ListLabels(ctx context.Context) ([]models.Label, error) {
	var rows []models.Label
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var rows []models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}
