package organizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meetnotes/contracts/mq"
	"meetnotes/internal/model"
	"meetnotes/internal/notes"
	"meetnotes/internal/repository"
	"meetnotes/internal/service/generate"
	"meetnotes/pkg/logger"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFolder = errors.New("invalid folder")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("session changed during generation, try again")
	ErrNothingToUndo = model.ErrNothingToUndo
	ErrNothingToRedo = model.ErrNothingToRedo
)

// errStaleInput 写回时发现会话输入已变化，只在包内用于重试
var errStaleInput = errors.New("stale session input")

const untitledSession = "Untitled meeting"

// Generator 由 generate.Service 实现
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (notes.Outputs, error)
	DraftFollowUp(ctx context.Context, req generate.FollowUpRequest) (string, error)
	Parser() *notes.Parser
}

// Events 由 internal/events.Emitter 实现
type Events interface {
	MeetingCompleted(ctx context.Context, p mq.MeetingCompletedPayload)
}

// Service 文件夹、会话、检查点和会后流程。每次修改都是 load -> 改 -> save，
// 由 mu 串行化，存储层只需要整体读写
type Service struct {
	store  repository.WorkspaceStore
	gen    Generator
	events Events
	logger *zap.Logger

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewService events 可以为 nil
func NewService(store repository.WorkspaceStore, gen Generator, events Events, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		gen:    gen,
		events: events,
		logger: log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// ListWorkspace 返回整个工作区
func (s *Service) ListWorkspace(ctx context.Context) (*model.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

func (s *Service) update(ctx context.Context, fn func(ws *model.Workspace) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	ws.UpdatedAt = s.now()
	if err := s.store.Save(ctx, ws); err != nil {
		logger.WithTrace(ctx, s.logger).Error("Failed to save workspace", zap.Error(err))
		return err
	}
	return nil
}

// updateSession 修改单个会话并更新时间戳，返回修改后的副本
func (s *Service) updateSession(ctx context.Context, id string, fn func(ws *model.Workspace, sess *model.Session) error) (*model.Session, error) {
	var out model.Session
	err := s.update(ctx, func(ws *model.Workspace) error {
		sess := ws.FindSession(id)
		if sess == nil {
			return ErrNotFound
		}
		if err := fn(ws, sess); err != nil {
			return err
		}
		sess.UpdatedAt = s.now()
		out = sess.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFolder parentID 为空时建在顶层
func (s *Service) CreateFolder(ctx context.Context, name, parentID string) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	var out model.Folder
	err := s.update(ctx, func(ws *model.Workspace) error {
		if parentID != "" && ws.FindFolder(parentID) == nil {
			return ErrInvalidFolder
		}
		now := s.now()
		out = model.Folder{ID: s.newID(), Name: name, ParentID: parentID, CreatedAt: now, UpdatedAt: now}
		ws.Folders = append(ws.Folders, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) RenameFolder(ctx context.Context, id, name string) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	var out model.Folder
	err := s.update(ctx, func(ws *model.Workspace) error {
		f := ws.FindFolder(id)
		if f == nil {
			return ErrNotFound
		}
		f.Name = name
		f.UpdatedAt = s.now()
		out = *f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveFolder 文件夹不能移动到自己或自己的子孙下面
func (s *Service) MoveFolder(ctx context.Context, id, parentID string) (*model.Folder, error) {
	var out model.Folder
	err := s.update(ctx, func(ws *model.Workspace) error {
		f := ws.FindFolder(id)
		if f == nil {
			return ErrNotFound
		}
		if parentID != "" {
			if ws.FindFolder(parentID) == nil || ws.IsAncestor(id, parentID) {
				return ErrInvalidFolder
			}
		}
		f.ParentID = parentID
		f.UpdatedAt = s.now()
		out = *f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFolder 子文件夹和会话上移到被删文件夹的父级
func (s *Service) DeleteFolder(ctx context.Context, id string) error {
	return s.update(ctx, func(ws *model.Workspace) error {
		f := ws.FindFolder(id)
		if f == nil {
			return ErrNotFound
		}
		parent := f.ParentID

		kept := ws.Folders[:0]
		for _, folder := range ws.Folders {
			if folder.ID == id {
				continue
			}
			if folder.ParentID == id {
				folder.ParentID = parent
			}
			kept = append(kept, folder)
		}
		ws.Folders = kept

		for i := range ws.Sessions {
			if ws.Sessions[i].FolderID == id {
				ws.Sessions[i].FolderID = parent
			}
		}
		return nil
	})
}
