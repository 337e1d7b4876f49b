package generate

import (
	"strings"
	"unicode/utf8"

	"meetnotes/internal/notes"
)

const (
	postMeetingHeading = "## Post-Meeting Notes"
	outcomeHeading     = "## Meeting Outcome"
)

// Request 生成请求；三个字段至少一个非空
type Request struct {
	RawNotes         string `json:"rawNotes"`
	PostMeetingNotes string `json:"postMeetingNotes"`
	MeetingOutcome   string `json:"meetingOutcome"`

	// SessionID 只用于事件，不参与生成
	SessionID string `json:"-"`
}

// IsEmpty 三个字段都为空白
func (r Request) IsEmpty() bool {
	return strings.TrimSpace(r.RawNotes) == "" &&
		strings.TrimSpace(r.PostMeetingNotes) == "" &&
		strings.TrimSpace(r.MeetingOutcome) == ""
}

// MergeInput 合并成一段文本：原始笔记、会后笔记、会议结果，各段之间空一行
func MergeInput(r Request) string {
	var sections []string
	if s := strings.TrimSpace(r.RawNotes); s != "" {
		sections = append(sections, s)
	}
	if s := strings.TrimSpace(r.PostMeetingNotes); s != "" {
		sections = append(sections, postMeetingHeading+"\n"+s)
	}
	if s := strings.TrimSpace(r.MeetingOutcome); s != "" {
		sections = append(sections, outcomeHeading+"\n"+s)
	}
	return strings.Join(sections, "\n\n")
}

// HighlightInput 请求里的高亮，tag 可省略
type HighlightInput struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
	Tag  string `json:"tag,omitempty"`
}

// FollowUpRequest 基于高亮生成跟进邮件的请求
type FollowUpRequest struct {
	Highlights     []HighlightInput `json:"highlights"`
	FollowUpType   string           `json:"followUpType"`
	FocusPrompt    string           `json:"focusPrompt"`
	EmailPrompt    string           `json:"emailPrompt"`
	MeetingResult  string           `json:"meetingResult"`
	MeetingOutcome string           `json:"meetingOutcome"`
	EmailType      string           `json:"emailType"`
	EmailTone      string           `json:"emailTone"`

	SessionID string `json:"-"`
}

// DraftArgs 校验并补默认值：非法的 result/type/tone 回落到 Pending/followUp/professional，
// 去掉空文本的高亮
func (r FollowUpRequest) DraftArgs() notes.FollowUpDraftArgs {
	highlights := make([]notes.FollowUpHighlight, 0, len(r.Highlights))
	for _, h := range r.Highlights {
		text := strings.TrimSpace(h.Text)
		if text == "" {
			continue
		}
		highlights = append(highlights, notes.FollowUpHighlight{
			ID:   h.ID,
			Text: text,
			Tag:  notes.ParseHighlightTag(h.Tag),
		})
	}
	return notes.FollowUpDraftArgs{
		Highlights:     highlights,
		FollowUpType:   strings.TrimSpace(r.FollowUpType),
		FocusPrompt:    strings.TrimSpace(r.FocusPrompt),
		EmailPrompt:    strings.TrimSpace(r.EmailPrompt),
		MeetingResult:  notes.ParseMeetingResult(r.MeetingResult),
		MeetingOutcome: strings.TrimSpace(r.MeetingOutcome),
		EmailType:      notes.ParseEmailType(r.EmailType),
		EmailTone:      notes.ParseEmailTone(r.EmailTone),
	}
}

// size 请求中自由文本的总字符数
func (r FollowUpRequest) size() int {
	n := utf8.RuneCountInString(r.FollowUpType) + utf8.RuneCountInString(r.FocusPrompt) +
		utf8.RuneCountInString(r.EmailPrompt) + utf8.RuneCountInString(r.MeetingOutcome)
	for _, h := range r.Highlights {
		n += utf8.RuneCountInString(h.Text)
	}
	return n
}
