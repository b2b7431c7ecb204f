package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderType string

const (
	OrderTypeOneTime      OrderType = "one_time"
	OrderTypeSubscription OrderType = "subscription"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodFree   PaymentMethod = "free"
)

// GuestContact is denormalized purchaser info for checkouts without an
// account. UserID on the order stays NULL until registration claims it.
type GuestContact struct {
	GuestName  string `gorm:"type:text"`
	GuestEmail string `gorm:"type:text;index"`
	GuestPhone string `gorm:"type:text"`
}

type Order struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID *uuid.UUID `gorm:"type:uuid;index"`
	GuestContact

	// Gateway session/order id, or free-<uuid> for zero-amount orders.
	// The unique index is what makes confirmation idempotent across the
	// browser callback and the webhook.
	TransactionID     string `gorm:"type:text;not null;uniqueIndex"`
	ExternalReference string `gorm:"type:text"` // payment intent / capture id

	AmountCents   int64         `gorm:"not null;default:0"`
	Currency      string        `gorm:"type:char(3);not null"`
	PromoCode     string        `gorm:"type:text"`
	PaymentStatus string        `gorm:"type:text"` // gateway free text, e.g. "paid"
	PaymentMethod PaymentMethod `gorm:"type:text;not null"`
	OrderType     OrderType     `gorm:"type:text;not null;default:'one_time'"`
	Status        OrderStatus   `gorm:"type:text;not null;default:'ORDER_STATUS_PENDING';index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// PurchaserEmail is the address notifications go to: the account email when
// the order is claimed, the guest contact otherwise.
func (o *Order) PurchaserEmail(accountEmail string) string {
	if o.UserID != nil && accountEmail != "" {
		return accountEmail
	}
	return o.GuestEmail
}

type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_variant"`
	VariantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_order_items_order_variant"`
	OfferingID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Purchase-time snapshot.
	Name           string `gorm:"type:text;not null"`
	ServiceType    string `gorm:"type:text"`
	Quantity       uint32 `gorm:"type:int;not null"`
	UnitPriceCents int64  `gorm:"not null"`
	LineTotalCents int64  `gorm:"not null"`

	// Starts at quantity*3, decremented per free revision, never below zero.
	MaxRevision int32 `gorm:"not null;default:0"`

	AdminIsRead bool `gorm:"not null;default:false"`
	UserIsRead  bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Deliverables []DeliverableFile `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
}

func (OrderItem) TableName() string { return "order_items" }

// DeliverableFile is one delivered link. A child table instead of a JSON
// column keeps appends atomic.
type DeliverableFile struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL         string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null;default:now()"`
}

func (DeliverableFile) TableName() string { return "deliverable_files" }

type RevisionStatus string

const (
	RevisionStatusRequested RevisionStatus = "REVISION_REQUESTED"
	RevisionStatusDelivered RevisionStatus = "REVISION_DELIVERED"
)

type Revision struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID  `gorm:"type:uuid;not null;index"`
	OfferingID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID      *uuid.UUID `gorm:"type:uuid;index"`

	Message string `gorm:"type:text;not null"`
	// Set for paid revisions; a resubmit with the same id edits in place.
	TransactionID *string        `gorm:"type:text;index"`
	Status        RevisionStatus `gorm:"type:text;not null;default:'REVISION_REQUESTED'"`

	AdminIsRead bool `gorm:"not null;default:false"`
	UserIsRead  bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Files []RevisionFile `gorm:"foreignKey:RevisionID;constraint:OnDelete:CASCADE"`
}

func (Revision) TableName() string { return "revisions" }

type RevisionFile struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RevisionID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
}

func (RevisionFile) TableName() string { return "revision_files" }

type GiftCard struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code       string    `gorm:"type:text;not null;uniqueIndex"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AmountCents int64    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
}

func (GiftCard) TableName() string { return "gift_cards" }

// WebhookEvent stores processed gateway events keyed by (provider, event id)
// so redelivered webhooks are no-ops.
type WebhookEvent struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Provider        string    `gorm:"type:text;not null;uniqueIndex:ux_webhook_events_provider_event"`
	ProviderEventID string    `gorm:"type:text;not null;uniqueIndex:ux_webhook_events_provider_event"`
	EventType       string    `gorm:"type:text;not null;index"`
	ProcessedAt     time.Time `gorm:"not null;default:now()"`
	CreatedAt       time.Time `gorm:"not null;default:now()"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
