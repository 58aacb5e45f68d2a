package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stellar-edu/stellar-admin-api/internal/repository"
)

// CacheStore is the subset of the cache repository the services need.
type CacheStore interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

var _ CacheStore = (*repository.CacheRepository)(nil)

// CacheService wraps the cache store with logging. Cache failures are
// reported but never surfaced to callers; a broken cache degrades to a
// refetch, not an error page.
type CacheService struct {
	store  CacheStore
	logger *zap.Logger
}

// NewCacheService builds a CacheService. A nil store disables caching.
func NewCacheService(store CacheStore, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, logger: logger}
}

// Enabled reports whether a cache backend is configured.
func (s *CacheService) Enabled() bool {
	return s != nil && s.store != nil
}

// Get loads key into dest, returning false on miss or error.
func (s *CacheService) Get(ctx context.Context, key string, dest any) bool {
	if !s.Enabled() {
		return false
	}
	if err := s.store.Get(ctx, key, dest); err != nil {
		return false
	}
	return true
}

// Set stores value at key, logging failures.
func (s *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if err := s.store.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePattern drops all keys matching pattern.
func (s *CacheService) InvalidatePattern(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.store.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
