package util

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDeduper logger 可以为 nil
func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire a dedup lock for scope + key.
// returns true the FIRST time within ttl, false for a duplicate
func (d *Deduper) AcquireOnce(ctx context.Context, scope, key string) bool {
	dedupKey := "dedup:" + scope + ":" + key

	ok, err := d.rdb.SetNX(ctx, dedupKey, 1, d.ttl).Result()
	if err != nil {
		// Redis 不可用时不阻止处理
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("scope", scope),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Debug("Skipped duplicated event",
			zap.String("scope", scope),
			zap.String("dedup_key", dedupKey),
		)
	}
	return ok
}
