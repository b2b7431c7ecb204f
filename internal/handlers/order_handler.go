package handlers

import (
	"net/http"
	"strconv"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

func (h *OrderHandler) List(c *gin.Context) {
	page, perPage := pageParams(c, 15)

	filter := service.OrderListFilter{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
	if raw := c.Query("status"); raw != "" {
		st := models.OrderStatus(raw)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("unknown status", nil))
			return
		}
		filter.Status = &st
	}

	orders, total, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, orderResponse(c, &orders[i]))
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL.Path, page, perPage, len(data), total, data))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(c, order))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orders.ChangeStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		h.log.Warn("status change rejected",
			zap.String("order_id", id.String()),
			zap.String("to", req.Status),
			zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(c, order))
}

func (h *OrderHandler) DeliverFiles(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid item id", nil))
		return
	}

	var req dto.DeliverFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.orders.DeliverFiles(c.Request.Context(), service.DeliverFilesInput{
		OrderID:     orderID,
		OrderItemID: itemID,
		Links:       req.Links,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderItemResponse(c, item))
}

func pageParams(c *gin.Context, defaultPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 || perPage > 100 {
		perPage = defaultPerPage
	}
	return page, perPage
}
