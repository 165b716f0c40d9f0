// Package cache wraps redis with JSON values, short-lived locks and
// hit/miss counters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gridiron/internal/models"
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache lookups since start.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the value at key into dest and reports whether it was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.misses.Add(1)
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	s.hits.Add(1)
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Lock takes key for ttl if nobody holds it. The returned token must be
// passed to Unlock.
func (s *CacheService) Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock releases key only if it is still held with token.
func (s *CacheService) Unlock(ctx context.Context, key, token string) error {
	if err := unlockScript.Run(ctx, s.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, s.GenerateKey("user", "id", user.ID), newCachedUser(user))
}

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user cachedUser
	found, err := s.Get(ctx, s.GenerateKey("user", "id", userID), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return user.toModel(), nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("user", "id", userID))
}

// Wallet caching
func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.Set(ctx, s.GenerateKey("wallet", "user", wallet.UserID), wallet)
}

func (s *CacheService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	found, err := s.Get(ctx, s.GenerateKey("wallet", "user", userID), &wallet)
	if err != nil || !found {
		return nil, err
	}
	return &wallet, nil
}

func (s *CacheService) InvalidateWallet(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("wallet", "user", userID))
}

// Stats returns hit and miss counters.
func (s *CacheService) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
