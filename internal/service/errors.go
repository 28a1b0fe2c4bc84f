package service

import "errors"

var (
	// ErrLinkNotFound covers both a missing short code and one owned by a
	// different token; collapsing the two avoids leaking other tenants'
	// resources.
	ErrLinkNotFound = errors.New("link not found")

	// ErrTokenNotFound is returned when revoking an unknown token id.
	ErrTokenNotFound = errors.New("token not found")

	// ErrUnsafeRedirect rejects targets that resolve to private or
	// otherwise non-public addresses.
	ErrUnsafeRedirect = errors.New("redirect target resolves to a private or unsafe address")

	// ErrAllocationExhausted means every insert attempt collided. This is a
	// configuration problem (identifier length too short for the namespace),
	// not a transient condition, and surfaces as a server error.
	ErrAllocationExhausted = errors.New("failed to allocate a unique identifier")

	// ErrInvalidToken covers malformed, unknown, wrong-secret and revoked
	// tokens alike; callers cannot tell which.
	ErrInvalidToken = errors.New("invalid or revoked token")
)
