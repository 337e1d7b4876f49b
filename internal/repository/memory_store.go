package repository

import (
	"context"
	"sync"

	"meetnotes/internal/model"
)

// MemoryStore 进程内存储，进程退出即丢失，测试和本地开发使用
type MemoryStore struct {
	mu sync.RWMutex
	ws *model.Workspace
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ws: model.NewWorkspace()}
}

func (s *MemoryStore) Load(_ context.Context) (*model.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, ws *model.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws = ws.Clone()
	return nil
}

var _ WorkspaceStore = (*MemoryStore)(nil)
