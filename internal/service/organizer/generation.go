package organizer

import (
	"context"
	"errors"
	"reflect"

	"meetnotes/internal/model"
	"meetnotes/internal/notes"
	"meetnotes/internal/service/generate"
)

const (
	generatedLabel = "Generated"
	// 生成期间会话输入被并发修改时的重试次数
	generateAttempts = 3
)

// GenerateForSession 用会话的笔记生成摘要和行动项，保留已有的邮件，并自动保存一个检查点。
// 生成在锁外进行；写回时输入已被修改则重新生成
func (s *Service) GenerateForSession(ctx context.Context, id string) (*model.Session, error) {
	for attempt := 0; attempt < generateAttempts; attempt++ {
		sess, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		req := sessionRequest(sess)
		out, err := s.gen.Generate(ctx, req)
		if err != nil {
			return nil, err
		}

		updated, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
			if sessionRequest(sess) != req {
				return errStaleInput
			}
			sess.Outputs.Summary = out.Summary
			sess.Outputs.ActionItems = out.ActionItems
			s.pushCheckpoint(sess, generatedLabel)
			return nil
		})
		if errors.Is(err, errStaleInput) {
			continue
		}
		return updated, err
	}
	return nil, ErrConflict
}

// FollowUpPrompts 会话跟进邮件的可选参数；高亮、会议结果和结论取自会话本身
type FollowUpPrompts struct {
	FollowUpType string `json:"followUpType"`
	FocusPrompt  string `json:"focusPrompt"`
	EmailPrompt  string `json:"emailPrompt"`
	EmailType    string `json:"emailType"`
	EmailTone    string `json:"emailTone"`
}

// DraftFollowUpForSession 只写 outputs.email，并发规则同 GenerateForSession
func (s *Service) DraftFollowUpForSession(ctx context.Context, id string, p FollowUpPrompts) (*model.Session, error) {
	for attempt := 0; attempt < generateAttempts; attempt++ {
		sess, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		req := followUpRequest(sess, p)
		email, err := s.gen.DraftFollowUp(ctx, req)
		if err != nil {
			return nil, err
		}

		updated, err := s.updateSession(ctx, id, func(_ *model.Workspace, sess *model.Session) error {
			if !reflect.DeepEqual(followUpRequest(sess, p), req) {
				return errStaleInput
			}
			sess.Outputs.Email = email
			return nil
		})
		if errors.Is(err, errStaleInput) {
			continue
		}
		return updated, err
	}
	return nil, ErrConflict
}

func followUpRequest(sess *model.Session, p FollowUpPrompts) generate.FollowUpRequest {
	return generate.FollowUpRequest{
		Highlights:     highlightInputs(sess.Highlights),
		FollowUpType:   p.FollowUpType,
		FocusPrompt:    p.FocusPrompt,
		EmailPrompt:    p.EmailPrompt,
		MeetingResult:  string(sess.MeetingResult),
		MeetingOutcome: sess.MeetingOutcome,
		EmailType:      p.EmailType,
		EmailTone:      p.EmailTone,
		SessionID:      sess.ID,
	}
}

func highlightInputs(hs []notes.FollowUpHighlight) []generate.HighlightInput {
	out := make([]generate.HighlightInput, 0, len(hs))
	for _, h := range hs {
		out = append(out, generate.HighlightInput{ID: h.ID, Text: h.Text, Tag: string(h.Tag)})
	}
	return out
}
