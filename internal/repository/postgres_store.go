package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"meetnotes/internal/model"
	"meetnotes/pkg/metrics"
)

// DefaultWorkspaceID 单工作区部署使用的行主键
const DefaultWorkspaceID = "default"

// Querier *pgxpool.Pool 满足该接口
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore 工作区以 jsonb 存在 workspaces 表的一行里
type PostgresStore struct {
	db          Querier
	workspaceID string
	logger      *zap.Logger
}

func NewPostgresStore(db Querier, workspaceID string, logger *zap.Logger) *PostgresStore {
	if workspaceID == "" {
		workspaceID = DefaultWorkspaceID
	}
	return &PostgresStore{db: db, workspaceID: workspaceID, logger: logger}
}

// EnsureSchema 建表（幂等）
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS workspaces (
            id         TEXT PRIMARY KEY,
            data       JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `
	if _, err := r.db.Exec(ctx, query); err != nil {
		r.logger.Error("Failed to create workspaces table", zap.Error(err))
		return err
	}
	return nil
}

func (r *PostgresStore) Load(ctx context.Context) (*model.Workspace, error) {
	start := time.Now()
	query := `SELECT data FROM workspaces WHERE id = $1`

	var data []byte
	err := r.db.QueryRow(ctx, query, r.workspaceID).Scan(&data)
	metrics.RecordDBQueryDuration("select", "workspaces", time.Since(start))
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Debug("No workspace row yet", zap.String("workspace_id", r.workspaceID))
		return model.NewWorkspace(), nil
	}
	if err != nil {
		r.logger.Error("Failed to load workspace",
			zap.String("workspace_id", r.workspaceID),
			zap.Error(err),
		)
		return nil, err
	}

	ws := model.NewWorkspace()
	if err := json.Unmarshal(data, ws); err != nil {
		return nil, err
	}
	ws.Normalize()
	return ws, nil
}

func (r *PostgresStore) Save(ctx context.Context, ws *model.Workspace) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return err
	}

	start := time.Now()
	query := `
        INSERT INTO workspaces (id, data, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (id) DO UPDATE
        SET data = EXCLUDED.data, updated_at = NOW()
    `
	_, err = r.db.Exec(ctx, query, r.workspaceID, data)
	metrics.RecordDBQueryDuration("upsert", "workspaces", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to save workspace",
			zap.String("workspace_id", r.workspaceID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

var _ WorkspaceStore = (*PostgresStore)(nil)
