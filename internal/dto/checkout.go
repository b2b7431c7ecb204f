package dto

type CheckoutItem struct {
	VariantID string `json:"variant_id" binding:"required,uuid"`
	Quantity  uint32 `json:"quantity" binding:"required,min=1"`
}

type PaymentIntentRequest struct {
	AmountCents     int64  `json:"amount_cents" binding:"required,min=1"`
	Currency        string `json:"currency" binding:"required,len=3"`
	PaymentMethodID string `json:"payment_method_id"`
	Email           string `json:"email"`
}

type PaymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

type CheckoutSessionRequest struct {
	Items      []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	Currency   string         `json:"currency"`
	PromoCode  string         `json:"promo_code"`
	GuestName  string         `json:"guest_name"`
	GuestEmail string         `json:"guest_email"`
	GuestPhone string         `json:"guest_phone"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type PayPalOrderRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	Currency    string `json:"currency" binding:"required,len=3"`
	Description string `json:"description"`
}

type PayPalOrderResponse struct {
	OrderID    string `json:"order_id"`
	ApproveURL string `json:"approve_url"`
}

type CheckoutSuccessRequest struct {
	// stripe | paypal; free orders go through stripe with a zero session.
	Provider      string         `json:"provider" binding:"required,oneof=stripe paypal free"`
	SessionID     string         `json:"session_id"`
	PayPalOrderID string         `json:"paypal_order_id"`
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	Currency      string         `json:"currency"`
	PromoCode     string         `json:"promo_code"`
	OrderType     string         `json:"order_type"`
	GuestName     string         `json:"guest_name"`
	GuestEmail    string         `json:"guest_email"`
	GuestPhone    string         `json:"guest_phone"`
	AmountCents   int64          `json:"amount_cents"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	UserID        *string             `json:"user_id"`
	GuestName     string              `json:"guest_name,omitempty"`
	GuestEmail    string              `json:"guest_email,omitempty"`
	TransactionID string              `json:"transaction_id"`
	AmountCents   int64               `json:"amount_cents"`
	Currency      string              `json:"currency"`
	PromoCode     string              `json:"promo_code,omitempty"`
	PaymentMethod string              `json:"payment_method"`
	OrderType     string              `json:"order_type"`
	Status        string              `json:"status"`
	CreatedAt     string              `json:"created_at"`
	Items         []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ID             string   `json:"id"`
	OfferingID     string   `json:"offering_id"`
	VariantID      string   `json:"variant_id"`
	Name           string   `json:"name"`
	ServiceType    string   `json:"service_type"`
	Quantity       uint32   `json:"quantity"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	LineTotalCents int64    `json:"line_total_cents"`
	MaxRevision    int32    `json:"max_revision"`
	AdminIsRead    bool     `json:"admin_is_read"`
	UserIsRead     bool     `json:"user_is_read"`
	Deliverables   []string `json:"deliverables"`
}
