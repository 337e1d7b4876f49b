package model

import (
	"time"

	"meetnotes/internal/notes"
)

type SessionStatus string

const (
	StatusUpcoming SessionStatus = "upcoming"
	StatusPast     SessionStatus = "past"
)

// Session 一次会议的笔记、产物和历史
type Session struct {
	ID               string                    `json:"id" yaml:"id"`
	Title            string                    `json:"title" yaml:"title"`
	FolderID         string                    `json:"folderId,omitempty" yaml:"folder_id,omitempty"`
	Status           SessionStatus             `json:"status" yaml:"status"`
	RawNotes         string                    `json:"rawNotes" yaml:"raw_notes"`
	PostMeetingNotes string                    `json:"postMeetingNotes" yaml:"post_meeting_notes"`
	MeetingOutcome   string                    `json:"meetingOutcome" yaml:"meeting_outcome"`
	MeetingResult    notes.MeetingResult       `json:"meetingResult" yaml:"meeting_result"`
	Highlights       []notes.FollowUpHighlight `json:"highlights" yaml:"highlights"`
	Outputs          notes.Outputs             `json:"outputs" yaml:"outputs"`
	History          History                   `json:"history" yaml:"history"`
	CreatedAt        time.Time                 `json:"createdAt" yaml:"created_at"`
	UpdatedAt        time.Time                 `json:"updatedAt" yaml:"updated_at"`
	EndedAt          *time.Time                `json:"endedAt,omitempty" yaml:"ended_at,omitempty"`
}

// Snapshot 检查点保存的可编辑字段
type Snapshot struct {
	RawNotes         string        `json:"rawNotes" yaml:"raw_notes"`
	PostMeetingNotes string        `json:"postMeetingNotes" yaml:"post_meeting_notes"`
	MeetingOutcome   string        `json:"meetingOutcome" yaml:"meeting_outcome"`
	Outputs          notes.Outputs `json:"outputs" yaml:"outputs"`
}

// Snapshot 当前可编辑字段
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		RawNotes:         s.RawNotes,
		PostMeetingNotes: s.PostMeetingNotes,
		MeetingOutcome:   s.MeetingOutcome,
		Outputs:          s.Outputs,
	}
}

// Restore 用快照覆盖可编辑字段，不影响高亮和状态
func (s *Session) Restore(snap Snapshot) {
	s.RawNotes = snap.RawNotes
	s.PostMeetingNotes = snap.PostMeetingNotes
	s.MeetingOutcome = snap.MeetingOutcome
	s.Outputs = snap.Outputs
}

func (s *Session) FindHighlight(id string) int {
	for i, h := range s.Highlights {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s Session) Clone() Session {
	out := s
	out.Highlights = append([]notes.FollowUpHighlight{}, s.Highlights...)
	out.History = s.History.clone()
	if s.EndedAt != nil {
		t := *s.EndedAt
		out.EndedAt = &t
	}
	return out
}

func (s *Session) normalize() {
	if s.Highlights == nil {
		s.Highlights = []notes.FollowUpHighlight{}
	}
	if s.Status == "" {
		s.Status = StatusUpcoming
	}
	if s.MeetingResult == "" {
		s.MeetingResult = notes.ResultPending
	}
	s.History.normalize()
}
