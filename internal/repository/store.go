package repository

import (
	"context"
	"fmt"
	"time"

	"meetnotes/internal/model"
	"meetnotes/pkg/metrics"
)

// WorkspaceStore 工作区整体读写。Load 在没有数据时返回空工作区而不是错误
type WorkspaceStore interface {
	Load(ctx context.Context) (*model.Workspace, error)
	Save(ctx context.Context, ws *model.Workspace) error
}

// Pinger 可以做就绪检查的存储
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type instrumentedStore struct {
	driver string
	next   WorkspaceStore
}

// WithMetrics 记录每次 Load/Save 的耗时
func WithMetrics(driver string, next WorkspaceStore) WorkspaceStore {
	return &instrumentedStore{driver: driver, next: next}
}

func (s *instrumentedStore) Load(ctx context.Context) (*model.Workspace, error) {
	start := time.Now()
	ws, err := s.next.Load(ctx)
	metrics.RecordStoreOp(s.driver, "load", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s store load: %w", s.driver, err)
	}
	return ws, nil
}

func (s *instrumentedStore) Save(ctx context.Context, ws *model.Workspace) error {
	start := time.Now()
	err := s.next.Save(ctx, ws)
	metrics.RecordStoreOp(s.driver, "save", time.Since(start))
	if err != nil {
		return fmt.Errorf("%s store save: %w", s.driver, err)
	}
	return nil
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
