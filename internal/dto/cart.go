package dto

type AddCartRequest struct {
	VariantID string `json:"variant_id" binding:"required,uuid"`
	Quantity  uint32 `json:"quantity" binding:"required,min=1"`
}

type UpdateCartRequest struct {
	Quantity uint32 `json:"quantity" binding:"required,min=1"`
}

type CartLineResponse struct {
	ID             string `json:"id"`
	VariantID      string `json:"variant_id"`
	OfferingID     string `json:"offering_id,omitempty"`
	Name           string `json:"name,omitempty"`
	VariantName    string `json:"variant_name,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Quantity       uint32 `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
	OrderType      string `json:"order_type"`
}

type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	TotalCents int64              `json:"total_cents"`
}
