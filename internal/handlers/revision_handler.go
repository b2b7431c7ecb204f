package handlers

import (
	"net/http"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RevisionHandler struct {
	revisions *service.RevisionService
	log       *zap.Logger
}

func NewRevisionHandler(revisions *service.RevisionService, log *zap.Logger) *RevisionHandler {
	return &RevisionHandler{revisions: revisions, log: log}
}

func (h *RevisionHandler) Submit(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}

	var req dto.SubmitRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	offeringID, err := uuid.Parse(req.OfferingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid offering id", nil))
		return
	}

	rev, err := h.revisions.Submit(c.Request.Context(), service.SubmitRevisionInput{
		OrderID:       orderID,
		OfferingID:    offeringID,
		Message:       req.Message,
		TransactionID: req.TransactionID,
		Files:         req.Files,
	})
	if err != nil {
		h.log.Warn("revision rejected", zap.String("order_id", orderID.String()), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, revisionResponse(c, rev))
}

func (h *RevisionHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}

	revs, err := h.revisions.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.RevisionResponse, 0, len(revs))
	for i := range revs {
		out = append(out, revisionResponse(c, &revs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RevisionHandler) Upload(c *gin.Context) {
	revisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid revision id", nil))
		return
	}

	var req dto.UploadRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rev, err := h.revisions.UploadDelivery(c.Request.Context(), service.UploadDeliveryInput{
		RevisionID: revisionID,
		Links:      req.Links,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, revisionResponse(c, rev))
}

func (h *RevisionHandler) FlagRead(c *gin.Context) {
	var req dto.ReadFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", nil))
		return
	}
	itemID, err := uuid.Parse(req.OrderItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order item id", nil))
		return
	}

	err = h.revisions.FlagRead(c.Request.Context(), service.FlagReadInput{
		Type:        service.FlagTarget(req.Type),
		OrderID:     orderID,
		OrderItemID: itemID,
		Admin:       req.Admin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
