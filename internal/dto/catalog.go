package dto

type VariantRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,min=0"`
	Currency   string `json:"currency"`
	OrderType  string `json:"order_type"`
}

type OfferingRequest struct {
	CategoryID  string           `json:"category_id" binding:"required,uuid"`
	LabelID     *string          `json:"label_id"`
	Name        string           `json:"name" binding:"required"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	IsActive    *bool            `json:"is_active"`
	Variants    []VariantRequest `json:"variants"`
}

type UpdateOfferingRequest struct {
	CategoryID  string  `json:"category_id"`
	LabelID     *string `json:"label_id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

type VariantResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	OrderType  string `json:"order_type"`
}

type OfferingResponse struct {
	ID          string            `json:"id"`
	CategoryID  string            `json:"category_id"`
	Category    string            `json:"category,omitempty"`
	LabelID     *string           `json:"label_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url"`
	IsActive    bool              `json:"is_active"`
	Variants    []VariantResponse `json:"variants"`
	Tags        []string          `json:"tags"`
}

type CategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	IsGiftCard bool   `json:"is_gift_card"`
}

type CategoryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsGiftCard bool   `json:"is_gift_card"`
}

type NamedResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
