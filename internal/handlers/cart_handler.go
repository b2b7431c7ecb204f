package handlers

import (
	"net/http"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart *service.CartService
	log  *zap.Logger
}

func NewCartHandler(cart *service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, log: log}
}

func (h *CartHandler) List(c *gin.Context) {
	lines, total, err := h.cart.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.CartResponse{Items: []dto.CartLineResponse{}, TotalCents: total}
	for _, l := range lines {
		line := dto.CartLineResponse{
			ID:             l.Cart.ID.String(),
			VariantID:      l.Cart.VariantID.String(),
			Quantity:       l.Cart.Quantity,
			UnitPriceCents: l.Cart.UnitPriceCents,
			LineTotalCents: l.Cart.LineTotalCents,
			OrderType:      string(l.Cart.OrderType),
		}
		if l.Variant != nil {
			line.VariantName = l.Variant.Name
		}
		if l.Offering != nil {
			line.OfferingID = l.Offering.ID.String()
			line.Name = l.Offering.Name
			line.ImageURL = l.Offering.ImageURL
		}
		resp.Items = append(resp.Items, line)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid variant id", nil))
		return
	}

	row, err := h.cart.Add(c.Request.Context(), service.AddCartInput{
		VariantID: variantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": row.ID.String(), "quantity": row.Quantity, "line_total_cents": row.LineTotalCents})
}

func (h *CartHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid cart id", nil))
		return
	}
	var req dto.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	row, err := h.cart.UpdateQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": row.ID.String(), "quantity": row.Quantity, "line_total_cents": row.LineTotalCents})
}

func (h *CartHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid cart id", nil))
		return
	}
	if err := h.cart.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
