package models

// NewTokenResponse carries a freshly generated API token.
// The token is shown exactly once; only its hash is persisted.
type NewTokenResponse struct {
	Token string `json:"token"`
}
