package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/pkg/config"
)

// KeyValueStore is the durable device storage used for the session. Get returns
// appErrors.ErrKeyNotFound when the key is absent; Remove of an absent key is
// not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// OpenStore builds the store selected by configuration. The returned closer
// releases backend connections.
func OpenStore(cfg *config.Config, logger *zap.Logger) (KeyValueStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		return NewMemoryStore(), noop, nil
	case config.SessionBackendRedis:
		client, err := NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, noop, fmt.Errorf("connect redis: %w", err)
		}
		store := NewRedisStore(client, logger)
		return store, store.Close, nil
	case config.SessionBackendFile, "":
		store, err := NewFileStore(cfg.Session.FilePath)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
