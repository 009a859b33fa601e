package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/pkg/config"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

// NewRedisClient returns a configured Redis client after a ping.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// RedisStore keeps session keys in Redis, for shared terminals and kiosks.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore constructs a store over an existing client.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if r.client == nil {
		return "", appErrors.ErrKeyNotFound
	}

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", appErrors.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		return appErrors.Clone(appErrors.ErrStorage, "redis store is not connected")
	}
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	r.logger.Debug("session key removed", zap.String("key", key))
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
