package notes

import "strings"

// ActionItem 从单个 bullet 派生出的行动项
type ActionItem struct {
	Text  string `json:"text"`
	Owner string `json:"owner,omitempty"`
	Due   string `json:"due,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type IssueType string

const (
	IssueMissingOwner   IssueType = "missingOwner"
	IssueMissingDueDate IssueType = "missingDueDate"
	IssueVague          IssueType = "vague"
)

// ActionIssue 行动项质量检查结果；Item 是对应行动项的序号（从 1 开始）
type ActionIssue struct {
	Type    IssueType `json:"type"`
	Message string    `json:"message"`
	Item    int       `json:"item"`
}

// IssueCounts 问题的聚合视图
type IssueCounts struct {
	MissingOwners int `json:"missingOwners"`
	MissingDue    int `json:"missingDue"`
	Weak          int `json:"weak"`
	MissingVerb   int `json:"missingVerb"`
}

// Outputs 三个产物，彼此独立生成
type Outputs struct {
	Summary     string `json:"summary" yaml:"summary"`
	ActionItems string `json:"actionItems" yaml:"action_items"`
	Email       string `json:"email" yaml:"email"`
}

type HighlightTag string

const (
	TagNone    HighlightTag = "None"
	TagEmail   HighlightTag = "Email"
	TagCall    HighlightTag = "Call"
	TagMeeting HighlightTag = "Meeting"
	TagUrgent  HighlightTag = "Urgent"
	TagOther   HighlightTag = "Other"
)

var highlightTags = []HighlightTag{TagNone, TagEmail, TagCall, TagMeeting, TagUrgent, TagOther}

// ParseHighlightTag 未知或空的标签返回 TagNone
func ParseHighlightTag(s string) HighlightTag {
	for _, t := range highlightTags {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t
		}
	}
	return TagNone
}

// FollowUpHighlight 用户挑选的跟进要点，只用于生成邮件草稿
type FollowUpHighlight struct {
	ID   string       `json:"id" yaml:"id"`
	Text string       `json:"text" yaml:"text"`
	Tag  HighlightTag `json:"tag" yaml:"tag"`
}

type MeetingResult string

const (
	ResultCompleted   MeetingResult = "Completed"
	ResultNoShow      MeetingResult = "No Show"
	ResultRescheduled MeetingResult = "Rescheduled"
	ResultCancelled   MeetingResult = "Cancelled"
	ResultBlocked     MeetingResult = "Blocked"
	ResultPending     MeetingResult = "Pending"
)

var meetingResults = []MeetingResult{
	ResultCompleted, ResultNoShow, ResultRescheduled, ResultCancelled, ResultBlocked, ResultPending,
}

// ParseMeetingResult 非法或缺失的值返回 ResultPending
func ParseMeetingResult(s string) MeetingResult {
	for _, r := range meetingResults {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r
		}
	}
	return ResultPending
}

type EmailType string

const (
	EmailFollowUp            EmailType = "followUp"
	EmailQuestion            EmailType = "question"
	EmailActionComplete      EmailType = "actionComplete"
	EmailActionClarification EmailType = "actionClarification"
	EmailConcern             EmailType = "concern"
)

// EmailTypes 所有邮件类型，顺序固定
var EmailTypes = []EmailType{
	EmailFollowUp, EmailQuestion, EmailActionComplete, EmailActionClarification, EmailConcern,
}

// ParseEmailType 非法或缺失的值返回 EmailFollowUp
func ParseEmailType(s string) EmailType {
	for _, t := range EmailTypes {
		if strings.TrimSpace(s) == string(t) {
			return t
		}
	}
	return EmailFollowUp
}

type EmailTone string

const (
	ToneProfessional         EmailTone = "professional"
	ToneWarm                 EmailTone = "warm"
	ToneFriendlyProfessional EmailTone = "friendlyProfessional"
	ToneCasual               EmailTone = "casual"
)

// EmailTones 所有语气，顺序固定
var EmailTones = []EmailTone{ToneProfessional, ToneWarm, ToneFriendlyProfessional, ToneCasual}

// ParseEmailTone 非法或缺失的值返回 ToneProfessional
func ParseEmailTone(s string) EmailTone {
	for _, t := range EmailTones {
		if strings.TrimSpace(s) == string(t) {
			return t
		}
	}
	return ToneProfessional
}
