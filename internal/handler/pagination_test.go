package handler

import (
	"net/url"
	"testing"

	"github.com/senjalabs/senja-web/internal/model"
)

func TestBuildPageNav(t *testing.T) {
	tests := []struct {
		name    string
		p       model.Pagination
		params  url.Values
		wantPrev string
		wantNext string
	}{
		{
			name:     "middle page",
			p:        model.Pagination{CurrentPage: 2, TotalPages: 3, HasPrevPage: true, HasNextPage: true},
			params:   url.Values{},
			wantPrev: "/?page=1",
			wantNext: "/?page=3",
		},
		{
			name:     "first page has no prev",
			p:        model.Pagination{CurrentPage: 1, TotalPages: 3, HasNextPage: true},
			params:   url.Values{},
			wantPrev: "",
			wantNext: "/?page=2",
		},
		{
			// The server said there is no next page; the nav must not
			// invent one from TotalPages.
			name:     "server says no next even with more total pages",
			p:        model.Pagination{CurrentPage: 2, TotalPages: 5, HasPrevPage: true, HasNextPage: false},
			params:   url.Values{},
			wantPrev: "/?page=1",
			wantNext: "",
		},
		{
			name:     "filters survive in page links",
			p:        model.Pagination{CurrentPage: 1, TotalPages: 2, HasNextPage: true},
			params:   url.Values{"startDate": {"2026-09-01"}},
			wantPrev: "",
			wantNext: "/?startDate=2026-09-01&page=2",
		},
		{
			name:     "page param is rewritten not duplicated",
			p:        model.Pagination{CurrentPage: 3, TotalPages: 3, HasPrevPage: true},
			params:   url.Values{"page": {"3"}},
			wantPrev: "/?page=2",
			wantNext: "",
		},
		{
			name:     "empty filter values are dropped",
			p:        model.Pagination{CurrentPage: 1, TotalPages: 2, HasNextPage: true},
			params:   url.Values{"startDate": {""}},
			wantPrev: "",
			wantNext: "/?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := BuildPageNav(tt.p, "/", tt.params)
			if nav.PrevURL != tt.wantPrev {
				t.Errorf("PrevURL = %q, want %q", nav.PrevURL, tt.wantPrev)
			}
			if nav.NextURL != tt.wantNext {
				t.Errorf("NextURL = %q, want %q", nav.NextURL, tt.wantNext)
			}
			if nav.CurrentPage != tt.p.CurrentPage {
				t.Errorf("CurrentPage = %d, want %d", nav.CurrentPage, tt.p.CurrentPage)
			}
		})
	}
}
