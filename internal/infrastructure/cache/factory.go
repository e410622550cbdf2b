package cache

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores groups the key-value stores the application needs. They are all
// backed by the same Redis client, or all in-memory.
type Stores struct {
	Idempotency shared.IdempotencyStore
	Carts       cart.Store
	Queries     QueryCache
	Tokens      auth.TokenBlacklist

	client   *redis.Client
	inMemory *InMemoryIdempotencyStore
}

// Distributed reports whether the stores are shared between instances
func (s *Stores) Distributed() bool {
	return s.client != nil
}

// Client returns the Redis client, nil for in-memory stores
func (s *Stores) Client() *redis.Client {
	return s.client
}

// Close releases the Redis client or stops in-memory sweepers
func (s *Stores) Close() error {
	if s.inMemory != nil {
		_ = s.inMemory.Close()
	}
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// StoresOption configures NewStores
type StoresOption func(*storesOptions)

type storesOptions struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) StoresOption {
	return func(o *storesOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) StoresOption {
	return func(o *storesOptions) {
		o.allowInMemoryFallback = allow
	}
}

// NewStores builds Redis stores when Redis is enabled and in-memory stores
// otherwise
func NewStores(ctx context.Context, cfg config.RedisConfig, opts ...StoresOption) (*Stores, error) {
	o := storesOptions{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("Redis disabled, using in-memory stores")
		return NewInMemoryStores(), nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		if !o.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required but unavailable: %w", err)
		}
		o.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Carts, idempotency keys and revoked tokens will not be shared between instances.",
			zap.Error(err),
		)
		return NewInMemoryStores(), nil
	}

	o.logger.Info("Using Redis stores", zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB))
	return &Stores{
		Idempotency: NewRedisIdempotencyStore(client),
		Carts:       NewRedisCartStore(client),
		Queries:     NewRedisQueryCache(client),
		Tokens:      auth.NewRedisTokenBlacklist(client, KeyPrefix),
		client:      client,
	}, nil
}

// NewInMemoryStores returns single-instance stores
func NewInMemoryStores() *Stores {
	idem := NewInMemoryIdempotencyStore()
	return &Stores{
		Idempotency: idem,
		Carts:       NewInMemoryCartStore(),
		Queries:     NewInMemoryQueryCache(),
		Tokens:      auth.NewInMemoryTokenBlacklist(),
		inMemory:    idem,
	}
}
