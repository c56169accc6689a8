package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"delivery-client/internal/core/cache"
	"delivery-client/internal/core/logger"
	"delivery-client/internal/features/session/domain"

	"go.uber.org/zap"
)

const (
	tokenKey = "auth_token"
	userKey  = "user_data"
)

// CacheSessionRepository implements ports.SessionRepository on the local store.
type CacheSessionRepository struct {
	cache cache.Cache
}

// NewCacheSessionRepository creates a new CacheSessionRepository.
func NewCacheSessionRepository(c cache.Cache) *CacheSessionRepository {
	return &CacheSessionRepository{cache: c}
}

// Load reads the token and profile.
func (r *CacheSessionRepository) Load(ctx context.Context) (domain.Session, error) {
	token, err := r.cache.Get(ctx, tokenKey)
	if errors.Is(err, cache.ErrNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load token: %w", err)
	}

	s := domain.Session{Token: string(token)}

	raw, err := r.cache.Get(ctx, userKey)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Named("session").Warn("Failed to load user profile", zap.Error(err))
		}
		return s, nil
	}

	if string(raw) == "undefined" || string(raw) == "null" {
		return s, nil
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		logger.Named("session").Error("Failed to parse user data", zap.Error(err))
		_ = r.cache.Delete(ctx, userKey)
		return s, nil
	}
	s.User = &user
	return s, nil
}

// Save stores the token, and the profile only when present.
func (r *CacheSessionRepository) Save(ctx context.Context, s domain.Session) error {
	if err := r.cache.Set(ctx, tokenKey, []byte(s.Token), 0); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	if s.User == nil {
		return nil
	}

	data, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := r.cache.Set(ctx, userKey, data, 0); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Clear removes the token and the profile.
func (r *CacheSessionRepository) Clear(ctx context.Context) error {
	return errors.Join(r.cache.Delete(ctx, tokenKey), r.cache.Delete(ctx, userKey))
}
