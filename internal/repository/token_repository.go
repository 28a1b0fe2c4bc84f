package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"linkly-be/internal/entities"
)

// TokenRepository defines the interface for token database operations
type TokenRepository interface {
	Create(ctx context.Context, id, hash string) (*entities.Token, error)
	FindByID(ctx context.Context, id string) (*entities.Token, error)
	Revoke(ctx context.Context, id string) error
}

type tokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Create inserts a new token. A unique violation on id is returned as-is
// so the caller's allocation loop can retry with a fresh identifier.
func (r *tokenRepository) Create(ctx context.Context, id, hash string) (*entities.Token, error) {
	query := `
		INSERT INTO tokens (id, hash)
		VALUES ($1, $2)
		RETURNING id, hash, revoked, created_at, updated_at
	`

	var token entities.Token
	err := r.db.QueryRowContext(ctx, query, id, hash).Scan(
		&token.ID,
		&token.Hash,
		&token.Revoked,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if IsUniqueViolation(err) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	return &token, nil
}

// FindByID finds a token by its public identifier
func (r *tokenRepository) FindByID(ctx context.Context, id string) (*entities.Token, error) {
	query := `
		SELECT id, hash, revoked, created_at, updated_at
		FROM tokens
		WHERE id = $1
	`

	var token entities.Token
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&token.ID,
		&token.Hash,
		&token.Revoked,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &token, nil
}

// Revoke marks a token as revoked. Revocation is one-way: the flag is only
// ever set to true. Revoking an already-revoked token succeeds.
func (r *tokenRepository) Revoke(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET revoked = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
