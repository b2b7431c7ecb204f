package handlers

import (
	"net/http"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

func (h *CheckoutHandler) CreatePaymentIntent(c *gin.Context) {
	var req dto.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.checkout.InitiatePaymentIntent(c.Request.Context(), service.PaymentIntentInput{
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		PaymentMethodID: req.PaymentMethodID,
		ReceiptEmail:    req.Email,
	})
	if err != nil {
		h.log.Warn("payment intent failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentIntentResponse{
		ID:           res.ID,
		ClientSecret: res.ClientSecret,
		Status:       res.Status,
	})
}

func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	var req dto.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items, err := parseItems(req.Items)
	if err != nil {
		bindError(c, err)
		return
	}

	var userID *uuid.UUID
	if uid, ok := service.UserIDFromContext(c.Request.Context()); ok {
		userID = &uid
	}

	guest := models.GuestContact{
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
	}
	res, err := h.checkout.InitiateCheckoutSession(c.Request.Context(), items, req.Currency, guest, userID)
	if err != nil {
		h.log.Warn("checkout session failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutSessionResponse{SessionID: res.ID, URL: res.URL})
}

func (h *CheckoutHandler) CreatePayPalOrder(c *gin.Context) {
	var req dto.PayPalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.checkout.InitiatePayPalOrder(c.Request.Context(), req.AmountCents, req.Currency)
	if err != nil {
		h.log.Warn("paypal order failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PayPalOrderResponse{OrderID: res.ID, ApproveURL: res.ApproveURL})
}

func (h *CheckoutHandler) CheckoutSuccess(c *gin.Context) {
	var req dto.CheckoutSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items, err := parseItems(req.Items)
	if err != nil {
		bindError(c, err)
		return
	}

	in := service.ConfirmInput{
		Guest: models.GuestContact{
			GuestName:  req.GuestName,
			GuestEmail: req.GuestEmail,
			GuestPhone: req.GuestPhone,
		},
		Items:       items,
		OrderType:   models.OrderType(req.OrderType),
		PromoCode:   req.PromoCode,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
	}
	if uid, ok := service.UserIDFromContext(c.Request.Context()); ok {
		in.UserID = &uid
	}

	switch req.Provider {
	case "paypal":
		in.PaymentMethod = models.PaymentMethodPayPal
		in.PayPalOrderID = req.PayPalOrderID
	default:
		in.PaymentMethod = models.PaymentMethodStripe
		in.SessionID = req.SessionID
	}

	order, err := h.checkout.ConfirmCheckout(c.Request.Context(), in)
	if err != nil {
		h.log.Warn("checkout confirmation failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(c, order))
}

func parseItems(items []dto.CheckoutItem) ([]service.ConfirmItem, error) {
	out := make([]service.ConfirmItem, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(it.VariantID)
		if err != nil {
			return nil, err
		}
		out = append(out, service.ConfirmItem{VariantID: id, Quantity: it.Quantity})
	}
	return out, nil
}
