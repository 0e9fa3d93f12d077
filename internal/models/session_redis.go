package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "landmark:session:"

// RedisSessionStore keeps sessions as Redis strings with a TTL that is
// refreshed on every save.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	codec  stateCodec
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, sealer Sealer) *RedisSessionStore {
	if ttl <= 0 {
		ttl = SessionDuration
	}
	return &RedisSessionStore{client: client, ttl: ttl, codec: stateCodec{sealer: sealer}}
}

// OpenRedis parses a redis:// URL and verifies the server answers.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 30 * time.Second
	opts.WriteTimeout = 30 * time.Second
	opts.MaxRetries = 3

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) (*SessionState, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s.codec.decode(data)
}

func (s *RedisSessionStore) Save(ctx context.Context, key string, state *SessionState) error {
	state.UpdatedAt = time.Now().UTC()
	data, err := s.codec.encode(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
