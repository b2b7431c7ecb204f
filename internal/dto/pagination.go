package dto

import "fmt"

// Page is the pagination envelope list endpoints return. The link fields
// mirror what the storefront already consumes.
type Page struct {
	CurrentPage  int    `json:"current_page"`
	Data         any    `json:"data"`
	FirstPageURL string `json:"first_page_url"`
	From         int    `json:"from"`
	LastPage     int    `json:"last_page"`
	LastPageURL  string `json:"last_page_url"`
	Links        []Link `json:"links"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           int     `json:"to"`
	Total        int64   `json:"total"`
}

type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// NewPage builds the envelope around an already-fetched slice. count is the
// number of rows in data, total the unpaginated row count.
func NewPage(path string, page, perPage, count int, total int64, data any) Page {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	pageURL := func(p int) string { return fmt.Sprintf("%s?page=%d", path, p) }

	from, to := 0, 0
	if count > 0 {
		from = (page-1)*perPage + 1
		to = from + count - 1
	}

	p := Page{
		CurrentPage:  page,
		Data:         data,
		FirstPageURL: pageURL(1),
		From:         from,
		LastPage:     lastPage,
		LastPageURL:  pageURL(lastPage),
		Path:         path,
		PerPage:      perPage,
		To:           to,
		Total:        total,
	}

	if page < lastPage {
		next := pageURL(page + 1)
		p.NextPageURL = &next
	}
	if page > 1 {
		prev := pageURL(page - 1)
		p.PrevPageURL = &prev
	}

	prevLink := Link{Label: "&laquo; Previous"}
	if p.PrevPageURL != nil {
		prevLink.URL = p.PrevPageURL
	}
	p.Links = append(p.Links, prevLink)
	for i := 1; i <= lastPage; i++ {
		u := pageURL(i)
		p.Links = append(p.Links, Link{URL: &u, Label: fmt.Sprintf("%d", i), Active: i == page})
	}
	nextLink := Link{Label: "Next &raquo;"}
	if p.NextPageURL != nil {
		nextLink.URL = p.NextPageURL
	}
	p.Links = append(p.Links, nextLink)

	return p
}
