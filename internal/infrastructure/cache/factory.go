package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Store is implemented by every cache backend
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by New
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Factory creates a cache backend from configuration
type Factory struct {
	redisConfig           RedisConfig
	cleanupInterval       time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithCleanupInterval sets how often the in-memory cache evicts expired entries
func WithCleanupInterval(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.cleanupInterval = d
	}
}

// NewFactory creates a new Factory
func NewFactory(redisCfg RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New creates the named backend. BackendNone (or "") yields a nil Store.
func (f *Factory) New(ctx context.Context, backend string) (Store, error) {
	switch backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemoryCache(f.cleanupInterval), nil
	case BackendRedis:
		store, err := NewRedisCache(ctx, f.redisConfig)
		if err == nil {
			f.logger.Info("using Redis artifact cache",
				zap.String("addr", fmt.Sprintf("%s:%d", f.redisConfig.Host, f.redisConfig.Port)))
			return store, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis artifact cache unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory artifact cache. "+
			"Instances will not share cached records.",
			zap.Error(err),
		)
		return NewMemoryCache(f.cleanupInterval), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}
