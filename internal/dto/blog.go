package dto

type BlogPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Slug     string `json:"slug"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Publish  *bool  `json:"publish"`
}

type BlogPostResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Content     string  `json:"content,omitempty"`
	ImageURL    string  `json:"image_url"`
	IsPublished bool    `json:"is_published"`
	PublishedAt *string `json:"published_at"`
	CreatedAt   string  `json:"created_at"`
}
