package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"meetnotes/internal/model"
)

// DefaultWorkspaceKey Redis 中工作区的 key
const DefaultWorkspaceKey = "meetnotes:workspace"

// RedisStore 工作区以 JSON 存在一个不过期的 key 里
type RedisStore struct {
	rdb    *redis.Client
	key    string
	logger *zap.Logger
}

func NewRedisStore(rdb *redis.Client, key string, logger *zap.Logger) *RedisStore {
	if key == "" {
		key = DefaultWorkspaceKey
	}
	return &RedisStore{rdb: rdb, key: key, logger: logger}
}

func (r *RedisStore) Load(ctx context.Context) (*model.Workspace, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.NewWorkspace(), nil
	}
	if err != nil {
		r.logger.Error("Failed to load workspace", zap.String("key", r.key), zap.Error(err))
		return nil, err
	}

	ws := model.NewWorkspace()
	if err := json.Unmarshal(data, ws); err != nil {
		return nil, err
	}
	ws.Normalize()
	return ws, nil
}

func (r *RedisStore) Save(ctx context.Context, ws *model.Workspace) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save workspace", zap.String("key", r.key), zap.Error(err))
		return err
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

var _ WorkspaceStore = (*RedisStore)(nil)
