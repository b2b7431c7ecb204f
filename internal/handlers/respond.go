package handlers

import (
	"errors"
	"net/http"
	"time"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"
	"audio-mixing-backend/internal/webutil"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinels onto HTTP statuses; anything unmapped
// is a 500 with the details withheld from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError(err.Error()))
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrOrderItemNotFound),
		errors.Is(err, service.ErrRevisionNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrOfferingNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrMaxRevisionReached):
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrCurrencyMismatch),
		errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrNoDeliverables),
		errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrCodeInvalid),
		errors.Is(err, service.ErrCouponInvalid):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), nil))
	case errors.Is(err, service.ErrPaymentNotComplete):
		c.JSON(http.StatusPaymentRequired, dto.NewPaymentError(err.Error()))
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{{Message: err.Error()}}))
}

// requestScheme honors X-Forwarded-Proto so links survive a TLS-terminating
// proxy.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

func orderResponse(c *gin.Context, o *models.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            o.ID.String(),
		GuestName:     o.GuestName,
		GuestEmail:    o.GuestEmail,
		TransactionID: o.TransactionID,
		AmountCents:   o.AmountCents,
		Currency:      o.Currency,
		PromoCode:     o.PromoCode,
		PaymentMethod: string(o.PaymentMethod),
		OrderType:     string(o.OrderType),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.UserID != nil {
		s := o.UserID.String()
		resp.UserID = &s
	}
	for i := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse(c, &o.Items[i]))
	}
	return resp
}

func orderItemResponse(c *gin.Context, it *models.OrderItem) dto.OrderItemResponse {
	resp := dto.OrderItemResponse{
		ID:             it.ID.String(),
		OfferingID:     it.OfferingID.String(),
		VariantID:      it.VariantID.String(),
		Name:           it.Name,
		ServiceType:    it.ServiceType,
		Quantity:       it.Quantity,
		UnitPriceCents: it.UnitPriceCents,
		LineTotalCents: it.LineTotalCents,
		MaxRevision:    it.MaxRevision,
		AdminIsRead:    it.AdminIsRead,
		UserIsRead:     it.UserIsRead,
		Deliverables:   []string{},
	}
	for _, f := range it.Deliverables {
		resp.Deliverables = append(resp.Deliverables, webutil.ConvertToWebURL(f.URL, requestScheme(c), c.Request.Host))
	}
	return resp
}

func revisionResponse(c *gin.Context, r *models.Revision) dto.RevisionResponse {
	resp := dto.RevisionResponse{
		ID:            r.ID.String(),
		OrderID:       r.OrderID.String(),
		OrderItemID:   r.OrderItemID.String(),
		OfferingID:    r.OfferingID.String(),
		Message:       r.Message,
		TransactionID: r.TransactionID,
		Status:        string(r.Status),
		AdminIsRead:   r.AdminIsRead,
		UserIsRead:    r.UserIsRead,
		Files:         []string{},
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	for _, f := range r.Files {
		resp.Files = append(resp.Files, webutil.ConvertToWebURL(f.URL, requestScheme(c), c.Request.Host))
	}
	return resp
}
