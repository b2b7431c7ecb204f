package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
	// Purchases in this category mint gift-card codes at checkout.
	IsGiftCard bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
}

func (Category) TableName() string { return "categories" }

type Label struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
}

func (Label) TableName() string { return "labels" }

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:text;not null;uniqueIndex"`
}

func (Tag) TableName() string { return "tags" }

// Offering is a base service (mixing, mastering, ...). Priced variations
// live in variants; an offering never references another offering.
type Offering struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	LabelID     *uuid.UUID `gorm:"type:uuid;index"`
	Name        string     `gorm:"type:text;not null"`
	Slug        string     `gorm:"type:text;not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	ImageURL    string     `gorm:"type:text"`
	IsActive    bool       `gorm:"not null;default:true;index"`
	CreatedAt   time.Time  `gorm:"not null;default:now()"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()"`

	Category Category  `gorm:"foreignKey:CategoryID"`
	Variants []Variant `gorm:"foreignKey:OfferingID;constraint:OnDelete:CASCADE"`
	Tags     []Tag     `gorm:"many2many:offering_tags"`
}

func (Offering) TableName() string { return "offerings" }

type Variant struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OfferingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:text;not null"`
	PriceCents int64     `gorm:"not null"`
	Currency   string    `gorm:"type:char(3);not null;default:'USD'"`
	OrderType  OrderType `gorm:"type:text;not null;default:'one_time'"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
}

func (Variant) TableName() string { return "variants" }

type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_carts_user_variant"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_carts_user_variant"`

	Quantity       uint32    `gorm:"type:int;not null"`
	UnitPriceCents int64     `gorm:"not null"`
	LineTotalCents int64     `gorm:"not null"`
	OrderType      OrderType `gorm:"type:text;not null;default:'one_time'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Cart) TableName() string { return "carts" }

type Coupon struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string     `gorm:"type:text;not null;uniqueIndex"`
	DiscountPercent *uint32    `gorm:"type:int"` // either percent or fixed
	DiscountCents   *int64     ``
	StartsAt        *time.Time `gorm:"index"`
	EndsAt          *time.Time `gorm:"index"`
	IsActive        bool       `gorm:"not null;default:true;index"`
	CreatedAt       time.Time  `gorm:"not null;default:now()"`

	Products []CouponProduct `gorm:"foreignKey:CouponID;constraint:OnDelete:CASCADE"`
}

func (Coupon) TableName() string { return "coupons" }

// CouponProduct restricts a coupon to specific offerings. Empty set means
// the coupon applies to everything.
type CouponProduct struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_coupon_products"`
	OfferingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_coupon_products"`
}

func (CouponProduct) TableName() string { return "coupon_products" }
