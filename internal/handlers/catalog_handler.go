package handlers

import (
	"net/http"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"
	"audio-mixing-backend/internal/webutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

func (h *CatalogHandler) List(c *gin.Context) {
	page, perPage := pageParams(c, 20)

	in := service.ListOfferingsInput{
		Page:         page,
		PerPage:      perPage,
		IncludeInact: c.Query("include_inactive") == "true",
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid category id", nil))
			return
		}
		in.CategoryID = &id
	}
	if raw := c.Query("label_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid label id", nil))
			return
		}
		in.LabelID = &id
	}
	if raw := c.Query("tag_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid tag id", nil))
			return
		}
		in.TagID = &id
	}

	offerings, total, err := h.catalog.ListOfferings(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]dto.OfferingResponse, 0, len(offerings))
	for _, off := range offerings {
		data = append(data, offeringResponse(c, off))
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL.Path, page, perPage, len(data), total, data))
}

func (h *CatalogHandler) Get(c *gin.Context) {
	raw := c.Param("id")
	var (
		off *models.Offering
		err error
	)
	if id, perr := uuid.Parse(raw); perr == nil {
		off, err = h.catalog.GetOffering(c.Request.Context(), id)
	} else {
		off, err = h.catalog.GetOfferingBySlug(c.Request.Context(), raw)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offeringResponse(c, off))
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.OfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	in, err := offeringInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), nil))
		return
	}

	off, err := h.catalog.CreateOffering(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offeringResponse(c, off))
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid offering id", nil))
		return
	}
	var req dto.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	in := service.OfferingInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid category id", nil))
			return
		}
		in.CategoryID = cid
	}
	if req.LabelID != nil {
		lid, err := uuid.Parse(*req.LabelID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid label id", nil))
			return
		}
		in.LabelID = &lid
	}

	off, err := h.catalog.UpdateOffering(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offeringResponse(c, off))
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid offering id", nil))
		return
	}
	if err := h.catalog.DeleteOffering(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CatalogHandler) AddVariant(c *gin.Context) {
	offeringID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid offering id", nil))
		return
	}
	var req dto.VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	v, err := h.catalog.AddVariant(c.Request.Context(), offeringID, service.VariantInput{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		OrderType:  models.OrderType(req.OrderType),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, variantResponse(v))
}

func (h *CatalogHandler) DeleteVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid variant id", nil))
		return
	}
	if err := h.catalog.DeleteVariant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, dto.CategoryResponse{ID: cat.ID.String(), Name: cat.Name, IsGiftCard: cat.IsGiftCard})
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), req.Name, req.IsGiftCard)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryResponse{ID: cat.ID.String(), Name: cat.Name, IsGiftCard: cat.IsGiftCard})
}

func (h *CatalogHandler) ListLabels(c *gin.Context) {
	labels, err := h.catalog.ListLabels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.NamedResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, dto.NamedResponse{ID: l.ID.String(), Name: l.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.NamedResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, dto.NamedResponse{ID: t.ID.String(), Name: t.Name})
	}
	c.JSON(http.StatusOK, out)
}

func offeringInput(req dto.OfferingRequest) (service.OfferingInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return service.OfferingInput{}, err
	}
	in := service.OfferingInput{
		CategoryID:  categoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
	if req.LabelID != nil {
		lid, err := uuid.Parse(*req.LabelID)
		if err != nil {
			return service.OfferingInput{}, err
		}
		in.LabelID = &lid
	}
	for _, v := range req.Variants {
		in.Variants = append(in.Variants, service.VariantInput{
			Name:       v.Name,
			PriceCents: v.PriceCents,
			Currency:   v.Currency,
			OrderType:  models.OrderType(v.OrderType),
		})
	}
	return in, nil
}

func offeringResponse(c *gin.Context, off *models.Offering) dto.OfferingResponse {
	resp := dto.OfferingResponse{
		ID:          off.ID.String(),
		CategoryID:  off.CategoryID.String(),
		Category:    off.Category.Name,
		Name:        off.Name,
		Slug:        off.Slug,
		Description: off.Description,
		ImageURL:    webutil.ConvertToWebURL(off.ImageURL, requestScheme(c), c.Request.Host),
		IsActive:    off.IsActive,
		Variants:    []dto.VariantResponse{},
		Tags:        []string{},
	}
	if off.LabelID != nil {
		s := off.LabelID.String()
		resp.LabelID = &s
	}
	for i := range off.Variants {
		resp.Variants = append(resp.Variants, variantResponse(&off.Variants[i]))
	}
	for _, t := range off.Tags {
		resp.Tags = append(resp.Tags, t.Name)
	}
	return resp
}

func variantResponse(v *models.Variant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:         v.ID.String(),
		Name:       v.Name,
		PriceCents: v.PriceCents,
		Currency:   v.Currency,
		OrderType:  string(v.OrderType),
	}
}
