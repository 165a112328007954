package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

// RedisStore is a Redis-backed ResultStore for deployments where several
// panes on one page share a fingerprint space. Keys are namespaced:
// rosterkit:validation:{scope}:{fingerprint}. Expiry is delegated to Redis.
type RedisStore struct {
	client *redis.Client
	scope  string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore creates a Redis-backed store. scope isolates independent
// schedule views sharing one Redis database.
func NewRedisStore(client *redis.Client, scope string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{
		client: client,
		scope:  scope,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *RedisStore) namespaceKey(key string) string {
	return fmt.Sprintf("rosterkit:validation:%s:%s", s.scope, key)
}

// Get returns the stored result for key, or false on miss. Transport
// failures degrade to a miss so the caller falls through to the network.
func (s *RedisStore) Get(ctx context.Context, key string) (domain.ValidationResult, bool) {
	val, err := s.client.Get(ctx, s.namespaceKey(key)).Bytes()
	if err == redis.Nil {
		return domain.ValidationResult{}, false
	}
	if err != nil {
		s.logger.Warn("redis result store read failed",
			"key", key,
			"error", err,
		)
		return domain.ValidationResult{}, false
	}

	var result domain.ValidationResult
	if err := json.Unmarshal(val, &result); err != nil {
		s.logger.Warn("redis result store entry unreadable, evicting",
			"key", key,
			"error", err,
		)
		_ = s.client.Del(ctx, s.namespaceKey(key)).Err()
		return domain.ValidationResult{}, false
	}
	return result, true
}

// Set stores a result under key with the store's TTL.
func (s *RedisStore) Set(ctx context.Context, key string, result domain.ValidationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.namespaceKey(key), payload, s.ttl).Err()
}

// Clear removes every entry in this store's scope.
func (s *RedisStore) Clear(ctx context.Context) error {
	pattern := fmt.Sprintf("rosterkit:validation:%s:*", s.scope)

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
