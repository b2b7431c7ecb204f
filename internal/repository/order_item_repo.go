package repository

import (
	"context"
	"errors"

	"audio-mixing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemRepo interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	GetByOrderAndVariant(ctx context.Context, orderID, variantID uuid.UUID) (*models.OrderItem, error)
	// LockByOrderAndOffering takes a row lock; call inside a transaction.
	LockByOrderAndOffering(ctx context.Context, orderID, offeringID uuid.UUID) (*models.OrderItem, error)
	SetMaxRevision(ctx context.Context, id uuid.UUID, maxRevision int32) error
	SetUserIsRead(ctx context.Context, id uuid.UUID, read bool) error
	SetAdminIsRead(ctx context.Context, id uuid.UUID, read bool) error
	AddDeliverables(ctx context.Context, files []models.DeliverableFile) error
	ListDeliverables(ctx context.Context, orderItemID uuid.UUID) ([]models.DeliverableFile, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).Preload("Deliverables").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *orderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	err := r.db.WithContext(ctx).Preload("Deliverables").
		Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return rows, err
}

func (r *orderItemRepo) GetByOrderAndVariant(ctx context.Context, orderID, variantID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		First(&item, "order_id = ? AND variant_id = ?", orderID, variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *orderItemRepo) LockByOrderAndOffering(ctx context.Context, orderID, offeringID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "order_id = ? AND offering_id = ?", orderID, offeringID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *orderItemRepo) SetMaxRevision(ctx context.Context, id uuid.UUID, maxRevision int32) error {
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("id = ?", id).
		Update("max_revision", maxRevision).Error
}

func (r *orderItemRepo) SetUserIsRead(ctx context.Context, id uuid.UUID, read bool) error {
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("id = ?", id).
		Update("user_is_read", read).Error
}

func (r *orderItemRepo) SetAdminIsRead(ctx context.Context, id uuid.UUID, read bool) error {
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("id = ?", id).
		Update("admin_is_read", read).Error
}

func (r *orderItemRepo) AddDeliverables(ctx context.Context, files []models.DeliverableFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&files).Error
}

func (r *orderItemRepo) ListDeliverables(ctx context.Context, orderItemID uuid.UUID) ([]models.DeliverableFile, error) {
	var rows []models.DeliverableFile
	err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}
