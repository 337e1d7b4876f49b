package organizer

import (
	"context"
	"fmt"
	"strings"

	"meetnotes/internal/model"
)

// SaveCheckpoint 保存当前可编辑字段；之后的 redo 分支被丢弃
func (s *Service) SaveCheckpoint(ctx context.Context, id, label string) (*model.Checkpoint, error) {
	var out model.Checkpoint
	_, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		out = s.pushCheckpoint(sess, label)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCheckpoints 返回会话的历史和游标
func (s *Service) ListCheckpoints(ctx context.Context, id string) (*model.History, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return &sess.History, nil
}

// Undo 恢复上一个检查点
func (s *Service) Undo(ctx context.Context, id string) (*model.Session, error) {
	return s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		cp, err := sess.History.Undo()
		if err != nil {
			return err
		}
		sess.Restore(cp.Snapshot)
		return nil
	})
}

// Redo 恢复下一个检查点
func (s *Service) Redo(ctx context.Context, id string) (*model.Session, error) {
	return s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		cp, err := sess.History.Redo()
		if err != nil {
			return err
		}
		sess.Restore(cp.Snapshot)
		return nil
	})
}

func (s *Service) pushCheckpoint(sess *model.Session, label string) model.Checkpoint {
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Checkpoint %d", sess.History.Cursor+2)
	}
	cp := model.Checkpoint{
		ID:        s.newID(),
		Label:     label,
		CreatedAt: s.now(),
		Snapshot:  sess.Snapshot(),
	}
	sess.History.Push(cp)
	return cp
}
