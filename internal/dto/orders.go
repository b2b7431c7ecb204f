package dto

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type DeliverFilesRequest struct {
	Links []string `json:"links" binding:"required,min=1"`
}

type SubmitRevisionRequest struct {
	OfferingID    string   `json:"offering_id" binding:"required,uuid"`
	Message       string   `json:"message" binding:"required"`
	TransactionID *string  `json:"transaction_id"`
	Files         []string `json:"files"`
}

type UploadRevisionRequest struct {
	Links []string `json:"links" binding:"required,min=1"`
}

type ReadFlagRequest struct {
	Type        string `json:"type" binding:"required,oneof=order revision"`
	OrderID     string `json:"order_id" binding:"required,uuid"`
	OrderItemID string `json:"order_item_id" binding:"required,uuid"`
	Admin       bool   `json:"admin"`
}

type RevisionResponse struct {
	ID            string   `json:"id"`
	OrderID       string   `json:"order_id"`
	OrderItemID   string   `json:"order_item_id"`
	OfferingID    string   `json:"offering_id"`
	Message       string   `json:"message"`
	TransactionID *string  `json:"transaction_id"`
	Status        string   `json:"status"`
	AdminIsRead   bool     `json:"admin_is_read"`
	UserIsRead    bool     `json:"user_is_read"`
	Files         []string `json:"files"`
	CreatedAt     string   `json:"created_at"`
}
