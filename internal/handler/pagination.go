// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/url"

	"github.com/senjalabs/senja-web/internal/model"
)

// PageNav is the pagination strip under the event list. Whether a
// prev/next page exists comes straight from the API's pagination
// block; the client never second-guesses it from counts.
type PageNav struct {
	CurrentPage int
	TotalPages  int
	TotalEvents int
	PrevURL     string
	NextURL     string
}

// BuildPageNav builds the strip for the given API pagination and the
// current query parameters. Filters are preserved in the page links;
// the page parameter itself is rewritten.
func BuildPageNav(p model.Pagination, baseURL string, params url.Values) PageNav {
	nav := PageNav{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalEvents: p.TotalEvents,
	}

	kept := make(url.Values)
	for k, v := range params {
		if k != "page" && len(v) > 0 && v[0] != "" {
			kept[k] = v
		}
	}

	pageURL := func(page int) string {
		if len(kept) > 0 {
			return fmt.Sprintf("%s?%s&page=%d", baseURL, kept.Encode(), page)
		}
		return fmt.Sprintf("%s?page=%d", baseURL, page)
	}

	if p.HasPrevPage {
		nav.PrevURL = pageURL(p.CurrentPage - 1)
	}
	if p.HasNextPage {
		nav.NextURL = pageURL(p.CurrentPage + 1)
	}
	return nav
}
