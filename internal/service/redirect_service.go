package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"linkly-be/internal/cache"
	"linkly-be/internal/repository"
)

// RedirectService is the hot path: it resolves a short code to its target
// through a read-through cache and counts the click.
type RedirectService interface {
	Resolve(ctx context.Context, shortCode string) (string, error)
}

type cachedRedirect struct {
	Redirect string `json:"redirect"`
}

type redirectService struct {
	repo   repository.LinkRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewRedirectService creates a new redirect service
func NewRedirectService(repo repository.LinkRepository, cacheClient cache.Cache, ttl time.Duration, logger *zap.SugaredLogger) RedirectService {
	return &redirectService{
		repo:   repo,
		cache:  cacheClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Resolve returns the redirect target for a short code. The click counter
// is incremented unconditionally, cache hits skip the database entirely,
// and any cache failure degrades to a direct database read rather than
// failing the request.
func (s *redirectService) Resolve(ctx context.Context, shortCode string) (string, error) {
	// Counting must never block or fail the redirect.
	if err := s.cache.Incr(ctx, cache.ClicksKey(shortCode)); err != nil {
		s.logger.Warnw("failed to count click", "short_code", shortCode, "error", err)
	}

	var cached cachedRedirect
	err := s.cache.GetJSON(ctx, cache.RedirectKey(shortCode), &cached)
	if err == nil && cached.Redirect != "" {
		return cached.Redirect, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warnw("redirect cache read failed, falling back to store",
			"short_code", shortCode, "error", err)
	}

	link, err := s.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		return "", mapNotFound(err, ErrLinkNotFound)
	}

	// Population is idempotent: a racing writer stores the same durable
	// target, so last-write-wins is harmless.
	if err := s.cache.SetJSON(ctx, cache.RedirectKey(shortCode), cachedRedirect{Redirect: link.Redirect}, s.ttl); err != nil {
		s.logger.Warnw("failed to populate redirect cache",
			"short_code", shortCode, "error", err)
	}
	return link.Redirect, nil
}
