package organizer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"meetnotes/contracts/mq"
	"meetnotes/internal/model"
	"meetnotes/internal/notes"
	"meetnotes/internal/service/generate"
	"meetnotes/pkg/logger"
)

// MarkPast 把会话标记为已结束；endedAt 只在第一次标记时写入
func (s *Service) MarkPast(ctx context.Context, id, result string) (*model.Session, error) {
	sess, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		sess.Status = model.StatusPast
		sess.MeetingResult = notes.ParseMeetingResult(result)
		if sess.EndedAt == nil {
			now := s.now()
			sess.EndedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithTrace(ctx, s.logger).Info("Meeting marked as past",
		zap.String("session_id", sess.ID),
		zap.String("meeting_result", string(sess.MeetingResult)),
	)
	if s.events != nil {
		s.events.MeetingCompleted(ctx, mq.MeetingCompletedPayload{
			SessionID:     sess.ID,
			Title:         sess.Title,
			MeetingResult: string(sess.MeetingResult),
			EndedAt:       *sess.EndedAt,
		})
	}
	return sess, nil
}

// Reopen 回到 upcoming；会后笔记、结果和高亮保留
func (s *Service) Reopen(ctx context.Context, id string) (*model.Session, error) {
	return s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		sess.Status = model.StatusUpcoming
		sess.EndedAt = nil
		return nil
	})
}

// PostMeeting 会后字段
type PostMeeting struct {
	PostMeetingNotes string `json:"postMeetingNotes"`
	MeetingOutcome   string `json:"meetingOutcome"`
	MeetingResult    string `json:"meetingResult"`
}

// SetPostMeeting 整体替换会后字段，非法的结果回落到 Pending
func (s *Service) SetPostMeeting(ctx context.Context, id string, pm PostMeeting) (*model.Session, error) {
	return s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		sess.PostMeetingNotes = pm.PostMeetingNotes
		sess.MeetingOutcome = pm.MeetingOutcome
		sess.MeetingResult = notes.ParseMeetingResult(pm.MeetingResult)
		return nil
	})
}

// AddHighlight 空文本被拒绝
func (s *Service) AddHighlight(ctx context.Context, id, text, tag string) (*notes.FollowUpHighlight, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	var out notes.FollowUpHighlight
	_, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		out = notes.FollowUpHighlight{ID: s.newID(), Text: text, Tag: notes.ParseHighlightTag(tag)}
		sess.Highlights = append(sess.Highlights, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PromoteActionItem 把会话当前笔记解析出的第 n 个行动项（从 1 开始）复制为高亮。
// 之后两者互不同步
func (s *Service) PromoteActionItem(ctx context.Context, id string, n int, tag string) (*notes.FollowUpHighlight, error) {
	var out notes.FollowUpHighlight
	_, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		items := s.actionItems(sess)
		if n < 1 || n > len(items) {
			return ErrInvalidInput
		}
		text := items[n-1].Text
		for _, h := range sess.Highlights {
			if strings.EqualFold(h.Text, text) {
				out = h
				return nil
			}
		}
		out = notes.FollowUpHighlight{ID: s.newID(), Text: text, Tag: notes.ParseHighlightTag(tag)}
		sess.Highlights = append(sess.Highlights, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) RetagHighlight(ctx context.Context, id, highlightID, tag string) (*notes.FollowUpHighlight, error) {
	var out notes.FollowUpHighlight
	_, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		i := sess.FindHighlight(highlightID)
		if i < 0 {
			return ErrNotFound
		}
		sess.Highlights[i].Tag = notes.ParseHighlightTag(tag)
		out = sess.Highlights[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) RemoveHighlight(ctx context.Context, id, highlightID string) error {
	_, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
		i := sess.FindHighlight(highlightID)
		if i < 0 {
			return ErrNotFound
		}
		sess.Highlights = append(sess.Highlights[:i], sess.Highlights[i+1:]...)
		return nil
	})
	return err
}

func (s *Service) actionItems(sess *model.Session) []notes.ActionItem {
	merged := generate.MergeInput(sessionRequest(sess))
	if merged == "" {
		return nil
	}
	return s.gen.Parser().ParseActionItems(notes.ToBullets(merged))
}

func sessionRequest(sess *model.Session) generate.Request {
	return generate.Request{
		RawNotes:         sess.RawNotes,
		PostMeetingNotes: sess.PostMeetingNotes,
		MeetingOutcome:   sess.MeetingOutcome,
		SessionID:        sess.ID,
	}
}
