package repository

import (
	"context"
	"errors"

	"audio-mixing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevisionRepo interface {
	Create(ctx context.Context, rev *models.Revision) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Revision, error)
	// FindPaid looks up an existing paid revision for the same purchase;
	// a matching transaction id means "edit in place".
	FindPaid(ctx context.Context, orderID, offeringID uuid.UUID, transactionID string) (*models.Revision, error)
	FindByOrderAndItem(ctx context.Context, orderID, orderItemID uuid.UUID, onlyUnread *bool) (*models.Revision, error)
	UpdateMessage(ctx context.Context, id uuid.UUID, message string) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.RevisionStatus) error
	SetUserIsRead(ctx context.Context, id uuid.UUID, read bool) error
	SetAdminIsRead(ctx context.Context, id uuid.UUID, read bool) error
	AddFiles(ctx context.Context, files []models.RevisionFile) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Revision, error)
}

type revisionRepo struct{ db *gorm.DB }

func NewRevisionRepo(db *gorm.DB) RevisionRepo { return &revisionRepo{db: db} }

func (r *revisionRepo) Create(ctx context.Context, rev *models.Revision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *revisionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Revision, error) {
	var rev models.Revision
	err := r.db.WithContext(ctx).Preload("Files").First(&rev, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rev, err
}

func (r *revisionRepo) FindPaid(ctx context.Context, orderID, offeringID uuid.UUID, transactionID string) (*models.Revision, error) {
	var rev models.Revision
	err := r.db.WithContext(ctx).
		First(&rev, "order_id = ? AND offering_id = ? AND transaction_id = ?", orderID, offeringID, transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rev, err
}

func (r *revisionRepo) FindByOrderAndItem(ctx context.Context, orderID, orderItemID uuid.UUID, onlyUnread *bool) (*models.Revision, error) {
	q := r.db.WithContext(ctx).Where("order_id = ? AND order_item_id = ?", orderID, orderItemID)
	if onlyUnread != nil && *onlyUnread {
		q = q.Where("user_is_read = false OR admin_is_read = false")
	}
	var rev models.Revision
	err := q.Order("created_at DESC").First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rev, err
}

func (r *revisionRepo) UpdateMessage(ctx context.Context, id uuid.UUID, message string) error {
	return r.db.WithContext(ctx).Model(&models.Revision{}).Where("id = ?", id).
		Updates(map[string]any{"message": message, "admin_is_read": false}).Error
}

func (r *revisionRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.RevisionStatus) error {
	return r.db.WithContext(ctx).Model(&models.Revision{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *revisionRepo) SetUserIsRead(ctx context.Context, id uuid.UUID, read bool) error {
	return r.db.WithContext(ctx).Model(&models.Revision{}).Where("id = ?", id).
		Update("user_is_read", read).Error
}

func (r *revisionRepo) SetAdminIsRead(ctx context.Context, id uuid.UUID, read bool) error {
	return r.db.WithContext(ctx).Model(&models.Revision{}).Where("id = ?", id).
		Update("admin_is_read", read).Error
}

func (r *revisionRepo) AddFiles(ctx context.Context, files []models.RevisionFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&files).Error
}

func (r *revisionRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Revision, error) {
	var rows []models.Revision
	err := r.db.WithContext(ctx).Preload("Files").
		Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}
