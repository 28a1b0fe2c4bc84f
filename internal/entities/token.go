package entities

import "time"

// Token represents an API access token entity in the database.
// Only the hash of the secret is stored; the raw secret is returned
// to the caller exactly once at generation time.
type Token struct {
	ID        string    `json:"id"`
	Hash      string    `json:"-"` // Don't expose the secret hash in JSON
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
