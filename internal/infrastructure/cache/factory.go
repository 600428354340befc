package cache

import (
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/infrastructure/config"
)

// NewIdempotencyStore picks the store implementation for the deployment:
// redis when enabled and reachable, otherwise the in-memory fallback. The
// fallback only protects a single process; replays across instances are
// possible without redis.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if cfg.Enabled {
		store, err := NewRedisIdempotencyStore(cfg)
		if err == nil {
			logger.Info("idempotency store: redis", zap.String("addr", cfg.Addr()))
			return store
		}
		logger.Warn("redis unavailable, using in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
	}
	return NewInMemoryIdempotencyStore()
}
