package repository

import "gorm.io/gorm"

type Repository struct {
	DB            *gorm.DB
	Users         UserRepo
	RefreshTokens RefreshRepo
	PasswordReset PasswordResetRepo
	EmailVerify   EmailVerificationRepo
	Catalog       CatalogRepo
	Carts         CartRepo
	Coupons       CouponRepo
	Orders        OrderRepo
	OrderItems    OrderItemRepo
	Revisions     RevisionRepo
	GiftCards     GiftCardRepo
	WebhookEvents WebhookEventRepo
	Blog          BlogRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Users:         NewUserRepo(db),
		RefreshTokens: NewRefreshRepo(db),
		PasswordReset: NewPasswordResetRepo(db),
		EmailVerify:   NewEmailVerificationRepo(db),
		Catalog:       NewCatalogRepo(db),
		Carts:         NewCartRepo(db),
		Coupons:       NewCouponRepo(db),
		Orders:        NewOrderRepo(db),
		OrderItems:    NewOrderItemRepo(db),
		Revisions:     NewRevisionRepo(db),
		GiftCards:     NewGiftCardRepo(db),
		WebhookEvents: NewWebhookEventRepo(db),
		Blog:          NewBlogRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a Repository bound to one transaction.
func (r *Repository) WithTx(fn func(tx *Repository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
