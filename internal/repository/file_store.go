package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"meetnotes/internal/model"
)

// FileStore 把整个工作区写成一个 YAML 文件，写入走临时文件 + rename
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore 创建存储并确保父目录存在
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("empty workspace file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (s *FileStore) Load(_ context.Context) (*model.Workspace, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewWorkspace(), nil
		}
		return nil, err
	}

	ws := model.NewWorkspace()
	if err := yaml.Unmarshal(data, ws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	ws.Normalize()
	return ws, nil
}

func (s *FileStore) Save(_ context.Context, ws *model.Workspace) error {
	data, err := yaml.Marshal(ws)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "workspace-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	s.logger.Debug("Workspace written",
		zap.String("path", s.path),
		zap.Int("bytes", len(data)),
		zap.Int("sessions", len(ws.Sessions)),
	)
	return nil
}

var _ WorkspaceStore = (*FileStore)(nil)
