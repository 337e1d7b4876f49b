package mq

import "time"

// Routing keys
const (
	RoutingNotesGenerated   = "notes.generated"
	RoutingEmailDrafted     = "email.drafted"
	RoutingMeetingCompleted = "meeting.completed"
)

// ActionItem 下游任务服务可以直接建任务
type ActionItem struct {
	Title string `json:"title"`
	Owner string `json:"owner,omitempty"`
	Due   string `json:"due,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type NotesGeneratedPayload struct {
	SessionID   string       `json:"session_id,omitempty"`
	Digest      string       `json:"digest"`
	BulletCount int          `json:"bullet_count"`
	IssueCount  int          `json:"issue_count"`
	ActionItems []ActionItem `json:"action_items"`
	GeneratedAt time.Time    `json:"generated_at"`
}

type EmailDraftedPayload struct {
	SessionID      string    `json:"session_id,omitempty"`
	EmailType      string    `json:"email_type"`
	EmailTone      string    `json:"email_tone"`
	HighlightCount int       `json:"highlight_count"`
	DraftedAt      time.Time `json:"drafted_at"`
}

type MeetingCompletedPayload struct {
	SessionID     string    `json:"session_id"`
	Title         string    `json:"title"`
	MeetingResult string    `json:"meeting_result"`
	EndedAt       time.Time `json:"ended_at"`
}
