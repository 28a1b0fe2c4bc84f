package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"linkly-be/internal/entities"
)

const linkColumns = "id, short_code, redirect, title, description, token_id, click_count, created_at, updated_at"

// UpdateLinkParams holds the mutable link fields; nil fields are unchanged.
type UpdateLinkParams struct {
	Redirect    *string
	Title       *string
	Description *string
}

// LinkRepository defines the interface for link database operations
type LinkRepository interface {
	Create(ctx context.Context, shortCode, redirect, title string, description *string, tokenID string) (*entities.Link, error)
	FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error)
	FindOwned(ctx context.Context, shortCode, tokenID string) (*entities.Link, error)
	List(ctx context.Context, tokenID, filter string, limit, offset int) ([]*entities.Link, error)
	Count(ctx context.Context, tokenID, filter string) (int, error)
	Update(ctx context.Context, shortCode, tokenID string, params UpdateLinkParams) (*entities.Link, error)
	Delete(ctx context.Context, shortCode, tokenID string) error
	AddClicks(ctx context.Context, deltas map[string]int64) (int64, error)
}

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

func scanLink(row *sql.Row) (*entities.Link, error) {
	var link entities.Link
	err := row.Scan(
		&link.ID,
		&link.ShortCode,
		&link.Redirect,
		&link.Title,
		&link.Description,
		&link.TokenID,
		&link.ClickCount,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Create inserts a new link. A unique violation on short_code is returned
// as-is so the caller's allocation loop can retry with a fresh code.
func (r *linkRepository) Create(ctx context.Context, shortCode, redirect, title string, description *string, tokenID string) (*entities.Link, error) {
	query := fmt.Sprintf(`
		INSERT INTO links (short_code, redirect, title, description, token_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, linkColumns)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortCode, redirect, title, description, tokenID))
	if IsUniqueViolation(err) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return link, nil
}

// FindByShortCode finds a link by its short code without owner scoping.
// Redirection is public by design.
func (r *linkRepository) FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM links WHERE short_code = $1`, linkColumns)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortCode))
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}

// FindOwned finds a link by short code scoped to its owner token. A link
// owned by a different token is indistinguishable from a missing one.
func (r *linkRepository) FindOwned(ctx context.Context, shortCode, tokenID string) (*entities.Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM links WHERE short_code = $1 AND token_id = $2`, linkColumns)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortCode, tokenID))
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}

func listPredicate(tokenID, filter string) (string, []interface{}) {
	where := "token_id = $1"
	args := []interface{}{tokenID}
	if filter != "" {
		where += " AND (title ILIKE $2 OR description ILIKE $2 OR redirect ILIKE $2)"
		args = append(args, "%"+filter+"%")
	}
	return where, args
}

// List retrieves a page of the owner's links, optionally filtered by a
// case-insensitive substring over title, description and redirect.
func (r *linkRepository) List(ctx context.Context, tokenID, filter string, limit, offset int) ([]*entities.Link, error) {
	where, args := listPredicate(tokenID, filter)
	query := fmt.Sprintf(`
		SELECT %s FROM links
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, linkColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*entities.Link
	for rows.Next() {
		var link entities.Link
		err := rows.Scan(
			&link.ID,
			&link.ShortCode,
			&link.Redirect,
			&link.Title,
			&link.Description,
			&link.TokenID,
			&link.ClickCount,
			&link.CreatedAt,
			&link.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, &link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}
	return links, nil
}

// Count returns the total number of links matching the same predicate List uses
func (r *linkRepository) Count(ctx context.Context, tokenID, filter string) (int, error) {
	where, args := listPredicate(tokenID, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM links WHERE %s`, where)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return count, nil
}

// Update applies a partial update scoped to the owner token
func (r *linkRepository) Update(ctx context.Context, shortCode, tokenID string, params UpdateLinkParams) (*entities.Link, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := 1
	if params.Redirect != nil {
		sets = append(sets, fmt.Sprintf("redirect = $%d", arg))
		args = append(args, *params.Redirect)
		arg++
	}
	if params.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", arg))
		args = append(args, *params.Title)
		arg++
	}
	if params.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", arg))
		args = append(args, *params.Description)
		arg++
	}

	query := fmt.Sprintf(`
		UPDATE links SET %s
		WHERE short_code = $%d AND token_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), arg, arg+1, linkColumns)
	args = append(args, shortCode, tokenID)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	return link, nil
}

// Delete removes a link scoped to the owner token
func (r *linkRepository) Delete(ctx context.Context, shortCode, tokenID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM links WHERE short_code = $1 AND token_id = $2`, shortCode, tokenID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
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

// AddClicks merges drained click counters into the links table as a single
// bulk statement. The increment form (click_count = click_count + delta)
// keeps it safe under concurrent flushers and retries; an absolute write
// would not be. An empty deltas map issues no statement at all.
func (r *linkRepository) AddClicks(ctx context.Context, deltas map[string]int64) (int64, error) {
	if len(deltas) == 0 {
		return 0, nil
	}

	values := make([]string, 0, len(deltas))
	args := make([]interface{}, 0, len(deltas)*2)
	arg := 1
	for shortCode, delta := range deltas {
		values = append(values, fmt.Sprintf("($%d::text, $%d::bigint)", arg, arg+1))
		args = append(args, shortCode, delta)
		arg += 2
	}

	query := fmt.Sprintf(`
		UPDATE links AS l
		SET click_count = l.click_count + v.delta, updated_at = NOW()
		FROM (VALUES %s) AS v(short_code, delta)
		WHERE l.short_code = v.short_code
	`, strings.Join(values, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to merge click counts: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
