package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailMessage is the wire format published to the email topic; the notifier
// resolves Template against its template directory.
type EmailMessage struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

type EmailPublisher interface {
	SendEmail(ctx context.Context, key string, msg EmailMessage) error
}

// StripeGateway wraps the Stripe SDK calls the checkout flow needs.
type StripeGateway interface {
	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntentResult, error)
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSessionResult, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionResult, error)
}

type PaymentIntentInput struct {
	AmountCents     int64
	Currency        string
	PaymentMethodID string // confirm immediately when set
	ReceiptEmail    string
	Metadata        map[string]string
}

type PaymentIntentResult struct {
	ID           string
	ClientSecret string
	Status       string
}

type CheckoutLineItem struct {
	Name           string
	UnitPriceCents int64
	Quantity       int64
}

type CheckoutSessionInput struct {
	Currency   string
	Items      []CheckoutLineItem
	SuccessURL string
	CancelURL  string
	Email      string
	Metadata   map[string]string
}

type CheckoutSessionResult struct {
	ID            string
	URL           string
	PaymentStatus string // "paid" once completed
	PaymentIntent string
	CustomerEmail string
	Metadata      map[string]string
}

// PayPalGateway wraps the PayPal order calls.
type PayPalGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency string, description string) (*PayPalOrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*PayPalCaptureResult, error)
}

type PayPalOrderResult struct {
	ID         string
	ApproveURL string
}

type PayPalCaptureResult struct {
	CaptureID string
	Status    string // COMPLETED on success
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID uuid.UUID
	Role   string
	Exp    time.Time
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshOpaque    string
	RefreshExpiresAt time.Time
	RefreshHash      string
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (token string, exp time.Time, err error)
	NewRefresh(ctx context.Context, sub uuid.UUID, ttl time.Duration) (opaque string, hash string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

// RateLimiter is satisfied by the redis cache client; a nil limiter disables
// rate limiting.
type RateLimiter interface {
	SetRateLimit(ctx context.Context, key string, ttl time.Duration) error
	CheckRateLimit(ctx context.Context, key string) (bool, error)
}
