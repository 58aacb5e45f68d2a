package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

// CacheRepository wraps redis for the dashboard cache layer.
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository creates a CacheRepository backed by client.
func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// Get unmarshals the cached value at key into dest. Returns
// appErrors.ErrCacheMiss when the key does not exist.
func (r *CacheRepository) Get(ctx context.Context, key string, dest any) error {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return appErrors.ErrInternal.Wrap(err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return appErrors.ErrInternal.Wrap(err)
	}
	return nil
}

// Set stores value at key with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return appErrors.ErrInternal.Wrap(err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return appErrors.ErrInternal.Wrap(err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return appErrors.ErrInternal.Wrap(err)
	}
	return nil
}

// DeleteByPattern removes all keys matching pattern using SCAN.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return appErrors.ErrInternal.Wrap(err)
	}
	return r.Delete(ctx, keys...)
}
