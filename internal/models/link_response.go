package models

import "time"

// LinkResponse represents a single link returned to the client
type LinkResponse struct {
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"` // Full short URL (base URL + short code)
	Redirect    string    `json:"redirect"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaginationMeta describes the page of results a list response covers
type PaginationMeta struct {
	TotalCount   int     `json:"total_count"`
	CurrentPage  int     `json:"current_page"`
	TotalPages   int     `json:"total_pages"`
	PerPage      int     `json:"per_page"`
	NextPage     *string `json:"next_page"`
	PreviousPage *string `json:"previous_page"`
}

// ListLinksResponse represents a paginated list of links
type ListLinksResponse struct {
	Data []*LinkResponse `json:"data"`
	Meta PaginationMeta  `json:"meta"`
}
