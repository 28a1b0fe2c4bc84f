package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"go.uber.org/zap"

	"linkly-be/internal/entities"
	"linkly-be/internal/idgen"
	"linkly-be/internal/repository"
)

const secretBytes = 64

// TokenService owns allocation, revocation and verification of API tokens
type TokenService interface {
	// Generate creates a token and returns "{id}.{secret}". The raw secret
	// is unrecoverable afterwards; only its hash is persisted.
	Generate(ctx context.Context) (string, error)
	// Revoke permanently disables a token. Revoked tokens are never
	// re-activated; revoking an already-revoked token succeeds.
	Revoke(ctx context.Context, id string) error
	// Verify checks a presented "{id}.{secret}" value and returns the token
	// id on success.
	Verify(ctx context.Context, presented string) (string, error)
}

type tokenService struct {
	repo     repository.TokenRepository
	gen      idgen.Generator
	idLength int
	maxTries int
	logger   *zap.SugaredLogger
}

// NewTokenService creates a new token service
func NewTokenService(repo repository.TokenRepository, gen idgen.Generator, idLength, maxTries int, logger *zap.SugaredLogger) TokenService {
	return &tokenService{
		repo:     repo,
		gen:      gen,
		idLength: idLength,
		maxTries: maxTries,
		logger:   logger,
	}
}

// HashSecret returns the hex-encoded SHA-256 digest of a token secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (s *tokenService) Generate(ctx context.Context) (string, error) {
	secret := idgen.Secret(secretBytes)
	hash := HashSecret(secret)

	token, err := allocate(ctx, s.maxTries, func(ctx context.Context) (*entities.Token, error) {
		return s.repo.Create(ctx, s.gen.Generate(s.idLength), hash)
	})
	if err != nil {
		if errors.Is(err, ErrAllocationExhausted) {
			s.logger.Errorw("token id namespace exhausted",
				"id_length", s.idLength, "max_tries", s.maxTries)
		}
		return "", err
	}

	return token.ID + "." + secret, nil
}

func (s *tokenService) Revoke(ctx context.Context, id string) error {
	if err := s.repo.Revoke(ctx, id); err != nil {
		return mapNotFound(err, ErrTokenNotFound)
	}
	s.logger.Infow("token revoked", "token_id", id)
	return nil
}

func (s *tokenService) Verify(ctx context.Context, presented string) (string, error) {
	id, secret, found := strings.Cut(presented, ".")
	if !found || id == "" || secret == "" {
		return "", ErrInvalidToken
	}

	token, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	hash := HashSecret(secret)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(token.Hash)) != 1 || token.Revoked {
		return "", ErrInvalidToken
	}
	return token.ID, nil
}
