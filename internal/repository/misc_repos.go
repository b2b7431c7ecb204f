package repository

import (
	"context"
	"errors"
	"time"

	"audio-mixing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GiftCardRepo interface {
	Create(ctx context.Context, g *models.GiftCard) error
	GetByCode(ctx context.Context, code string) (*models.GiftCard, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.GiftCard, error)
}

type giftCardRepo struct{ db *gorm.DB }

func NewGiftCardRepo(db *gorm.DB) GiftCardRepo { return &giftCardRepo{db: db} }

func (r *giftCardRepo) Create(ctx context.Context, g *models.GiftCard) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *giftCardRepo) GetByCode(ctx context.Context, code string) (*models.GiftCard, error) {
	var g models.GiftCard
	err := r.db.WithContext(ctx).First(&g, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &g, err
}

func (r *giftCardRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.GiftCard, error) {
	var rows []models.GiftCard
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&rows).Error
	return rows, err
}

type WebhookEventRepo interface {
	// Record inserts the event and reports whether it was seen before.
	// Uses ON CONFLICT DO NOTHING on (provider, provider_event_id).
	Record(ctx context.Context, e *models.WebhookEvent) (alreadyProcessed bool, err error)
}

type webhookEventRepo struct{ db *gorm.DB }

func NewWebhookEventRepo(db *gorm.DB) WebhookEventRepo { return &webhookEventRepo{db: db} }

func (r *webhookEventRepo) Record(ctx context.Context, e *models.WebhookEvent) (bool, error) {
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now()
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_event_id"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 0, nil
}

type CouponRepo interface {
	GetActiveByCode(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
}

type couponRepo struct{ db *gorm.DB }

func NewCouponRepo(db *gorm.DB) CouponRepo { return &couponRepo{db: db} }

func (r *couponRepo) GetActiveByCode(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).Preload("Products").
		Where("code = ? AND is_active = true", code).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *couponRepo) Create(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

type BlogListFilter struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}

type BlogRepo interface {
	List(ctx context.Context, f BlogListFilter) ([]*models.BlogPost, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, p *models.BlogPost) error
	Update(ctx context.Context, p *models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type blogRepo struct{ db *gorm.DB }

func NewBlogRepo(db *gorm.DB) BlogRepo { return &blogRepo{db: db} }

func (r *blogRepo) List(ctx context.Context, f BlogListFilter) ([]*models.BlogPost, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if f.PublishedOnly {
		q = q.Where("is_published = true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.BlogPost
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *blogRepo) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	err := r.db.WithContext(ctx).First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *blogRepo) Create(ctx context.Context, p *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *blogRepo) Update(ctx context.Context, p *models.BlogPost) error {
	return r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":        p.Title,
			"content":      p.Content,
			"image_url":    p.ImageURL,
			"is_published": p.IsPublished,
			"published_at": p.PublishedAt,
		}).Error
}

func (r *blogRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlogPost{})
	return res.RowsAffected, res.Error
}
