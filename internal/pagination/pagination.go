// Package pagination holds the page math and link generation for list
// endpoints, kept separate from the store so it can be tested on its own.
package pagination

import (
	"net/url"
	"strconv"
)

// Params describes the page a set of links is generated for.
type Params struct {
	BaseURL    string // scheme://host of the service
	Endpoint   string // path of the list endpoint, e.g. /api/v1/url
	Limit      int
	Page       int // 1-indexed
	Filter     string
	TotalPages int
}

// TotalPages returns ceil(totalCount / limit), with 0 for an empty result set.
func TotalPages(totalCount, limit int) int {
	if totalCount <= 0 || limit <= 0 {
		return 0
	}
	return (totalCount + limit - 1) / limit
}

// Links builds the next/previous page URLs. Next is nil at or beyond the
// last page; previous is nil on the first page and on empty result sets,
// and never points past the last valid page.
func Links(p Params) (nextPage, previousPage *string) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, nil
	}
	u := base.ResolveReference(&url.URL{Path: p.Endpoint})

	query := url.Values{}
	query.Set("limit", strconv.Itoa(p.Limit))
	if p.Filter != "" {
		query.Set("filter", p.Filter)
	}

	if p.Page < p.TotalPages {
		query.Set("page", strconv.Itoa(p.Page+1))
		u.RawQuery = query.Encode()
		link := u.String()
		nextPage = &link
	}
	if p.Page > 1 && p.TotalPages > 0 {
		query.Set("page", strconv.Itoa(min(p.Page-1, p.TotalPages)))
		u.RawQuery = query.Encode()
		link := u.String()
		previousPage = &link
	}
	return nextPage, previousPage
}
