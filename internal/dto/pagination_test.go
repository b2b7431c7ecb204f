package dto

import "testing"

func TestNewPage_MiddlePage(t *testing.T) {
	data := []string{"a", "b", "c"}
	p := NewPage("/api/orders", 2, 10, len(data), 35, data)

	if p.CurrentPage != 2 || p.PerPage != 10 || p.Total != 35 {
		t.Fatalf("envelope basics wrong: %+v", p)
	}
	if p.LastPage != 4 {
		t.Fatalf("last page expected 4, got %d", p.LastPage)
	}
	if p.From != 11 || p.To != 13 {
		t.Fatalf("from/to expected 11/13, got %d/%d", p.From, p.To)
	}
	if p.FirstPageURL != "/api/orders?page=1" || p.LastPageURL != "/api/orders?page=4" {
		t.Fatalf("boundary urls wrong: %q %q", p.FirstPageURL, p.LastPageURL)
	}
	if p.NextPageURL == nil || *p.NextPageURL != "/api/orders?page=3" {
		t.Fatalf("next url wrong: %v", p.NextPageURL)
	}
	if p.PrevPageURL == nil || *p.PrevPageURL != "/api/orders?page=1" {
		t.Fatalf("prev url wrong: %v", p.PrevPageURL)
	}

	// Previous + one per page + Next.
	if len(p.Links) != p.LastPage+2 {
		t.Fatalf("links expected %d entries, got %d", p.LastPage+2, len(p.Links))
	}
	if p.Links[0].Label != "&laquo; Previous" || p.Links[len(p.Links)-1].Label != "Next &raquo;" {
		t.Fatalf("link labels wrong: %+v", p.Links)
	}
	var active int
	for _, l := range p.Links {
		if l.Active {
			active++
			if l.Label != "2" {
				t.Fatalf("active link should be the current page, got %q", l.Label)
			}
		}
	}
	if active != 1 {
		t.Fatalf("exactly one link should be active, got %d", active)
	}
}

func TestNewPage_Edges(t *testing.T) {
	first := NewPage("/api/posts", 1, 10, 10, 25, nil)
	if first.PrevPageURL != nil {
		t.Fatalf("first page must have no prev url")
	}
	if first.Links[0].URL != nil {
		t.Fatalf("first page Previous link must be disabled")
	}
	if first.From != 1 || first.To != 10 {
		t.Fatalf("first page from/to wrong: %d/%d", first.From, first.To)
	}

	last := NewPage("/api/posts", 3, 10, 5, 25, nil)
	if last.NextPageURL != nil {
		t.Fatalf("last page must have no next url")
	}
	if last.From != 21 || last.To != 25 {
		t.Fatalf("last page from/to wrong: %d/%d", last.From, last.To)
	}

	empty := NewPage("/api/posts", 1, 10, 0, 0, nil)
	if empty.LastPage != 1 || empty.From != 0 || empty.To != 0 {
		t.Fatalf("empty page envelope wrong: %+v", empty)
	}
}
