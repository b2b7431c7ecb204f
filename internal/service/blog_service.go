package service

import (
	"context"
	"time"

	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BlogService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewBlogService(repo *repository.Repository, log *zap.Logger) *BlogService {
	return &BlogService{repo: repo, now: time.Now, log: log}
}

func (s *BlogService) List(ctx context.Context, page, perPage int, includeDrafts bool) ([]*models.BlogPost, int64, error) {
	publishedOnly := true
	if includeDrafts {
		if err := requireStaff(ctx); err == nil {
			publishedOnly = false
		}
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 10
	}
	return s.repo.Blog.List(ctx, repository.BlogListFilter{
		PublishedOnly: publishedOnly,
		Limit:         perPage,
		Offset:        (page - 1) * perPage,
	})
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.Blog.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if !post.IsPublished {
		if err := requireStaff(ctx); err != nil {
			return nil, ErrNotFound
		}
	}
	return post, nil
}

type BlogPostInput struct {
	Title    string
	Slug     string
	Content  string
	ImageURL string
	Publish  *bool
}

func (s *BlogService) Create(ctx context.Context, in BlogPostInput) (*models.BlogPost, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	now := s.now()
	post := &models.BlogPost{
		Title:     in.Title,
		Slug:      in.Slug,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Slug == "" {
		post.Slug = Slugify(in.Title)
	}
	if in.Publish != nil && *in.Publish {
		post.IsPublished = true
		post.PublishedAt = &now
	}
	if err := s.repo.Blog.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) Update(ctx context.Context, slug string, in BlogPostInput) (*models.BlogPost, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	post, err := s.repo.Blog.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Slug != "" {
		post.Slug = in.Slug
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}
	now := s.now()
	if in.Publish != nil {
		post.IsPublished = *in.Publish
		if *in.Publish && post.PublishedAt == nil {
			post.PublishedAt = &now
		}
	}
	post.UpdatedAt = now
	if err := s.repo.Blog.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := requireStaff(ctx); err != nil {
		return err
	}
	n, err := s.repo.Blog.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
