package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"linkly-be/internal/cache"
	"linkly-be/internal/entities"
	"linkly-be/internal/idgen"
	"linkly-be/internal/models"
	"linkly-be/internal/pagination"
	"linkly-be/internal/repository"
)

const listEndpoint = "/api/v1/url"

// SafetyChecker is the SSRF predicate consulted before a redirect target is
// persisted. Implementations must fail closed.
type SafetyChecker interface {
	IsPrivateOrUnsafe(ctx context.Context, rawURL string) bool
}

// ListParams are the validated query parameters for listing links
type ListParams struct {
	Page   int
	Limit  int
	Filter string
}

// LinkPage is one page of an owner's links plus pagination metadata
type LinkPage struct {
	Data []*entities.Link
	Meta models.PaginationMeta
}

// LinkService owns the create/read/update/delete lifecycle of links
type LinkService interface {
	Create(ctx context.Context, req *models.CreateLinkRequest, tokenID string) (*entities.Link, error)
	List(ctx context.Context, params ListParams, tokenID string) (*LinkPage, error)
	Get(ctx context.Context, shortCode, tokenID string) (*entities.Link, error)
	Update(ctx context.Context, shortCode string, req *models.UpdateLinkRequest, tokenID string) (*entities.Link, error)
	Delete(ctx context.Context, shortCode, tokenID string) error
}

// LinkConfig carries the allocation and link-building settings
type LinkConfig struct {
	CodeLength int
	MaxTries   int
	BaseURL    string
}

type linkService struct {
	repo   repository.LinkRepository
	cache  cache.Cache
	safety SafetyChecker
	gen    idgen.Generator
	cfg    LinkConfig
	logger *zap.SugaredLogger
}

// NewLinkService creates a new link service
func NewLinkService(repo repository.LinkRepository, cacheClient cache.Cache, safety SafetyChecker, gen idgen.Generator, cfg LinkConfig, logger *zap.SugaredLogger) LinkService {
	return &linkService{
		repo:   repo,
		cache:  cacheClient,
		safety: safety,
		gen:    gen,
		cfg:    cfg,
		logger: logger,
	}
}

// Create persists a new link under a freshly allocated short code. The
// safety check runs before allocation so rejected targets never consume
// identifier attempts.
func (s *linkService) Create(ctx context.Context, req *models.CreateLinkRequest, tokenID string) (*entities.Link, error) {
	if s.safety.IsPrivateOrUnsafe(ctx, req.Redirect) {
		return nil, ErrUnsafeRedirect
	}

	link, err := allocate(ctx, s.cfg.MaxTries, func(ctx context.Context) (*entities.Link, error) {
		return s.repo.Create(ctx, s.gen.Generate(s.cfg.CodeLength), req.Redirect, req.Title, req.Description, tokenID)
	})
	if err != nil {
		if errors.Is(err, ErrAllocationExhausted) {
			s.logger.Errorw("short code namespace exhausted",
				"code_length", s.cfg.CodeLength, "max_tries", s.cfg.MaxTries)
		}
		return nil, err
	}
	return link, nil
}

func (s *linkService) List(ctx context.Context, params ListParams, tokenID string) (*LinkPage, error) {
	offset := (params.Page - 1) * params.Limit
	links, err := s.repo.List(ctx, tokenID, params.Filter, params.Limit, offset)
	if err != nil {
		return nil, err
	}
	totalCount, err := s.repo.Count(ctx, tokenID, params.Filter)
	if err != nil {
		return nil, err
	}

	totalPages := pagination.TotalPages(totalCount, params.Limit)
	nextPage, previousPage := pagination.Links(pagination.Params{
		BaseURL:    s.cfg.BaseURL,
		Endpoint:   listEndpoint,
		Limit:      params.Limit,
		Page:       params.Page,
		Filter:     params.Filter,
		TotalPages: totalPages,
	})

	return &LinkPage{
		Data: links,
		Meta: models.PaginationMeta{
			TotalCount:   totalCount,
			CurrentPage:  params.Page,
			TotalPages:   totalPages,
			PerPage:      params.Limit,
			NextPage:     nextPage,
			PreviousPage: previousPage,
		},
	}, nil
}

func (s *linkService) Get(ctx context.Context, shortCode, tokenID string) (*entities.Link, error) {
	link, err := s.repo.FindOwned(ctx, shortCode, tokenID)
	if err != nil {
		return nil, mapNotFound(err, ErrLinkNotFound)
	}
	return link, nil
}

// Update applies a partial update and then synchronously drops the cached
// redirect entry. Invalidation happens after the durable write commits, so
// a concurrent reader can no longer repopulate the cache with the
// pre-update target.
func (s *linkService) Update(ctx context.Context, shortCode string, req *models.UpdateLinkRequest, tokenID string) (*entities.Link, error) {
	if req.Redirect != nil && s.safety.IsPrivateOrUnsafe(ctx, *req.Redirect) {
		return nil, ErrUnsafeRedirect
	}

	link, err := s.repo.Update(ctx, shortCode, tokenID, repository.UpdateLinkParams{
		Redirect:    req.Redirect,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return nil, mapNotFound(err, ErrLinkNotFound)
	}

	if err := s.cache.Delete(ctx, cache.RedirectKey(shortCode)); err != nil {
		return nil, fmt.Errorf("failed to invalidate redirect cache: %w", err)
	}
	return link, nil
}

// Delete removes a link and drops both its cached redirect entry and any
// pending click counter.
func (s *linkService) Delete(ctx context.Context, shortCode, tokenID string) error {
	if err := s.repo.Delete(ctx, shortCode, tokenID); err != nil {
		return mapNotFound(err, ErrLinkNotFound)
	}

	if err := s.cache.Delete(ctx, cache.RedirectKey(shortCode), cache.ClicksKey(shortCode)); err != nil {
		return fmt.Errorf("failed to invalidate cache entries: %w", err)
	}
	return nil
}
