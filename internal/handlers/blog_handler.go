package handlers

import (
	"encoding/binary"
	"net/http"
	"time"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"
	"audio-mixing-backend/internal/webutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BlogHandler struct {
	blog *service.BlogService
	log  *zap.Logger
}

func NewBlogHandler(blog *service.BlogService, log *zap.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, log: log}
}

func (h *BlogHandler) List(c *gin.Context) {
	page, perPage := pageParams(c, 10)

	posts, total, err := h.blog.List(c.Request.Context(), page, perPage, c.Query("include_drafts") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]dto.BlogPostResponse, 0, len(posts))
	for _, p := range posts {
		resp := blogResponse(c, p, false)
		resp.Content = "" // list view stays light
		data = append(data, resp)
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL.Path, page, perPage, len(data), total, data))
}

func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.blog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blogResponse(c, post, true))
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req dto.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	post, err := h.blog.Create(c.Request.Context(), service.BlogPostInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Publish:  req.Publish,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blogResponse(c, post, true))
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req dto.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	post, err := h.blog.Update(c.Request.Context(), c.Param("slug"), service.BlogPostInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Publish:  req.Publish,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blogResponse(c, post, true))
}

func (h *BlogHandler) Delete(c *gin.Context) {
	post, err := h.blog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.blog.Delete(c.Request.Context(), post.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func blogResponse(c *gin.Context, p *models.BlogPost, large bool) dto.BlogPostResponse {
	image := p.ImageURL
	if image == "" {
		image = webutil.RandomBlogImage(blogImageSeed(p.ID), large)
	} else {
		image = webutil.ConvertToWebURL(image, requestScheme(c), c.Request.Host)
	}

	resp := dto.BlogPostResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		ImageURL:    image,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.PublishedAt != nil {
		s := p.PublishedAt.Format(time.RFC3339)
		resp.PublishedAt = &s
	}
	return resp
}

// blogImageSeed folds a post uuid into the deterministic image index.
func blogImageSeed(id uuid.UUID) uint64 {
	return binary.BigEndian.Uint64(id[:8])
}
