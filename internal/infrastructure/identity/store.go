package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore is the persisted layer of the fallback chain. Load returns ""
// with a nil error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
	Delete(ctx context.Context) error
}

type RedisTokenStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisTokenStore stores the token under key; a zero ttl keeps it forever.
func NewRedisTokenStore(client redis.UniversalClient, key string, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: key, ttl: ttl}
}

func (s *RedisTokenStore) Load(ctx context.Context) (string, error) {
	value, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load identity token: %w", err)
	}
	return value, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, value string) error {
	if err := s.client.Set(ctx, s.key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save identity token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete identity token: %w", err)
	}
	return nil
}

// NoopTokenStore is used when no Redis address is configured.
type NoopTokenStore struct{}

func (NoopTokenStore) Load(context.Context) (string, error) { return "", nil }
func (NoopTokenStore) Save(context.Context, string) error   { return nil }
func (NoopTokenStore) Delete(context.Context) error         { return nil }
