package organizer

import (
	"context"
	"strings"

	"meetnotes/internal/model"
	"meetnotes/internal/notes"
)

func (s *Service) CreateSession(ctx context.Context, title, folderID string) (*model.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = untitledSession
	}
	var out model.Session
	err := s.update(ctx, func(ws *model.Workspace) error {
		if folderID != "" && ws.FindFolder(folderID) == nil {
			return ErrInvalidFolder
		}
		now := s.now()
		out = model.Session{
			ID:            s.newID(),
			Title:         title,
			FolderID:      folderID,
			Status:        model.StatusUpcoming,
			MeetingResult: notes.ResultPending,
			Highlights:    []notes.FollowUpHighlight{},
			History:       model.History{Checkpoints: []model.Checkpoint{}, Cursor: -1},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		ws.Sessions = append(ws.Sessions, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*model.Session, error) {
	ws, err := s.ListWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	sess := ws.FindSession(id)
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Service) RenameSession(ctx context.Context, id, title string) (*model.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	return s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		sess.Title = title
		return nil
	})
}

// MoveSession folderID 为空表示移到顶层
func (s *Service) MoveSession(ctx context.Context, id, folderID string) (*model.Session, error) {
	return s.updateSession(ctx, id, func(ws *model.Workspace, sess *model.Session) error {
		if folderID != "" && ws.FindFolder(folderID) == nil {
			return ErrInvalidFolder
		}
		sess.FolderID = folderID
		return nil
	})
}

func (s *Service) UpdateNotes(ctx context.Context, id, rawNotes string) (*model.Session, error) {
	return s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		sess.RawNotes = rawNotes
		return nil
	})
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.update(ctx, func(ws *model.Workspace) error {
		for i := range ws.Sessions {
			if ws.Sessions[i].ID == id {
				ws.Sessions = append(ws.Sessions[:i], ws.Sessions[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
