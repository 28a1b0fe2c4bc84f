package entities

import "time"

// Link represents a shortened link entity in the database
type Link struct {
	ID          string    `json:"id"` // UUID
	ShortCode   string    `json:"short_code"`
	Redirect    string    `json:"redirect"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"` // Pointer allows nil (no description)
	TokenID     string    `json:"token_id"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
