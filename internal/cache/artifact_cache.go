package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"meetnotes/pkg/metrics"
)

const keyPrefix = "meetnotes:artifact:"

// Digest 输入文本的 blake2b-256 摘要（hex），同时用作事件去重键
func Digest(parts ...string) string {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Key 缓存 key：前缀 + 产物类型 + 摘要
func Key(kind, digest string) string {
	return keyPrefix + kind + ":" + digest
}

// ArtifactCache 基于 Redis 的产物缓存。所有失败只记日志，调用方按未命中处理
type ArtifactCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewArtifactCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ArtifactCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ArtifactCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get 命中时把缓存值解码到 out 并返回 true
func (c *ArtifactCache) Get(ctx context.Context, key string, out any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.IncrementCacheLookup("miss")
		return false
	}
	if err != nil {
		metrics.IncrementCacheLookup("error")
		c.logger.Warn("Artifact cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		metrics.IncrementCacheLookup("error")
		c.logger.Warn("Artifact cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	metrics.IncrementCacheLookup("hit")
	return true
}

func (c *ArtifactCache) Set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Artifact cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Artifact cache write failed", zap.String("key", key), zap.Error(err))
	}
}
