package notes

import (
	"fmt"
	"strings"
)

const (
	NoNotesMessage       = "No notes provided."
	NoActionItemsMessage = "No obvious action items found."

	summaryMaxBullets   = 6
	checksMaxIssues     = 8
	emailDefaultBullets = 6
	highlightMaxBullets = 20
	highlightMaxItems   = 50
	noHighlightsBullet  = "(No follow-up items selected yet)"
	emailEmptyBullet    = "No notes provided"
	emailSignature      = "[Your name]"
)

// MakeSummary 摘要：标题 + 前 6 条 bullet，其余只给出数量
func MakeSummary(bullets []string) string {
	if len(bullets) == 0 {
		return NoNotesMessage
	}

	var b strings.Builder
	b.WriteString("Meeting summary:\n")
	shown := bullets
	if len(shown) > summaryMaxBullets {
		shown = shown[:summaryMaxBullets]
	}
	for _, s := range shown {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	if rest := len(bullets) - len(shown); rest > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("...plus %d additional %s.", rest, plural(rest, "note", "notes")))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatActionItems 编号列表 + Checks 段落
// legacy 参数兼容旧调用方传入的布尔开关，不影响输出
func FormatActionItems(items []ActionItem, issues []ActionIssue, legacy ...bool) string {
	if len(items) == 0 {
		return NoActionItemsMessage
	}

	var b strings.Builder
	b.WriteString("Action items:\n")
	for i, it := range items {
		owner := it.Owner
		if owner == "" {
			owner = "Unassigned"
		}
		due := it.Due
		if due == "" {
			due = "No due date"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Text)
		fmt.Fprintf(&b, "   Owner: %s | Due: %s\n", owner, due)
		if it.Notes != "" {
			fmt.Fprintf(&b, "   Notes: %s\n", it.Notes)
		}
	}

	b.WriteString("\nChecks:\n")
	if len(issues) == 0 {
		b.WriteString("- No issues found.")
		return b.String()
	}
	shown := issues
	if len(shown) > checksMaxIssues {
		shown = shown[:checksMaxIssues]
	}
	for _, is := range shown {
		b.WriteString("- ")
		b.WriteString(is.Message)
		b.WriteString("\n")
	}
	if rest := len(issues) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "(+%d more)", rest)
	}
	return strings.TrimRight(b.String(), "\n")
}

type emailTemplate struct {
	Subject string
	Opening string
}

type toneTemplate struct {
	Greeting string
	Closing  string
}

var emailTemplates = map[EmailType]emailTemplate{
	EmailFollowUp: {
		Subject: "Follow-up from our meeting",
		Opening: "Thanks for taking the time to meet. Here is a quick recap and the next steps we discussed.",
	},
	EmailQuestion: {
		Subject: "Quick question from our meeting",
		Opening: "I had a few questions after our meeting and wanted to check them with you.",
	},
	EmailActionComplete: {
		Subject: "Update: action items completed",
		Opening: "I wanted to let you know that the following items from our meeting are now done.",
	},
	EmailActionClarification: {
		Subject: "Clarification needed on action items",
		Opening: "Could you help clarify a few of the action items from our meeting?",
	},
	EmailConcern: {
		Subject: "A concern from our meeting",
		Opening: "I wanted to raise a concern that came up in our meeting.",
	},
}

var toneTemplates = map[EmailTone]toneTemplate{
	ToneProfessional:         {Greeting: "Hello,", Closing: "Best regards,"},
	ToneWarm:                 {Greeting: "Hi there,", Closing: "Thanks so much,"},
	ToneFriendlyProfessional: {Greeting: "Hi,", Closing: "Kind regards,"},
	ToneCasual:               {Greeting: "Hey,", Closing: "Cheers,"},
}

// EmailOptions 邮件草稿参数，零值表示 followUp / professional / 最多 6 条
type EmailOptions struct {
	Type            EmailType
	Tone            EmailTone
	SubjectOverride string
	ContextLines    []string
	MaxBullets      int
}

// EmailParts 模板查表结果
type EmailParts struct {
	Subject  string
	Opening  string
	Greeting string
	Closing  string
}

// LookupEmailParts 未知的类型/语气回落到 followUp/professional
func LookupEmailParts(t EmailType, tone EmailTone) EmailParts {
	et, ok := emailTemplates[t]
	if !ok {
		et = emailTemplates[EmailFollowUp]
	}
	tt, ok := toneTemplates[tone]
	if !ok {
		tt = toneTemplates[ToneProfessional]
	}
	return EmailParts{Subject: et.Subject, Opening: et.Opening, Greeting: tt.Greeting, Closing: tt.Closing}
}

// MakeEmailDraft 按类型和语气渲染邮件草稿
func MakeEmailDraft(bullets []string, opts EmailOptions) string {
	parts := LookupEmailParts(opts.Type, opts.Tone)
	subject := parts.Subject
	if s := strings.TrimSpace(opts.SubjectOverride); s != "" {
		subject = s
	}
	limit := opts.MaxBullets
	if limit <= 0 {
		limit = emailDefaultBullets
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n\n", subject)
	fmt.Fprintf(&b, "%s\n\n", parts.Greeting)
	fmt.Fprintf(&b, "%s\n\n", parts.Opening)

	if len(opts.ContextLines) > 0 {
		b.WriteString("Context:\n")
		for _, l := range opts.ContextLines {
			b.WriteString(l)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Key points:\n")
	if len(bullets) == 0 {
		fmt.Fprintf(&b, "- %s\n", emailEmptyBullet)
	}
	for i, s := range bullets {
		if i >= limit {
			break
		}
		fmt.Fprintf(&b, "- %s\n", s)
	}

	fmt.Fprintf(&b, "\n%s\n%s", parts.Closing, emailSignature)
	return b.String()
}

// FollowUpDraftArgs 基于 highlights 的跟进邮件参数
type FollowUpDraftArgs struct {
	Highlights     []FollowUpHighlight
	FollowUpType   string
	FocusPrompt    string
	EmailPrompt    string
	MeetingResult  MeetingResult
	MeetingOutcome string
	EmailType      EmailType
	EmailTone      EmailTone
}

// MakeFollowUpEmailDraftFromHighlights highlights 直接作为 bullet，不再重新切分笔记
func MakeFollowUpEmailDraftFromHighlights(args FollowUpDraftArgs) string {
	var ctxLines []string
	addLine := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			ctxLines = append(ctxLines, label+": "+v)
		}
	}
	addLine("Follow-up type", args.FollowUpType)
	if args.MeetingResult != ResultPending {
		addLine("Meeting result", string(args.MeetingResult))
	}
	addLine("Focus", args.FocusPrompt)
	addLine("Meeting outcome", args.MeetingOutcome)
	addLine("Email instructions", args.EmailPrompt)

	highlights := args.Highlights
	if len(highlights) > highlightMaxItems {
		highlights = highlights[:highlightMaxItems]
	}
	bullets := make([]string, 0, len(highlights))
	for _, h := range highlights {
		bullets = append(bullets, HighlightLine(h))
	}
	if len(bullets) == 0 {
		bullets = append(bullets, noHighlightsBullet)
	}

	opts := EmailOptions{
		Type:         args.EmailType,
		Tone:         args.EmailTone,
		ContextLines: ctxLines,
		MaxBullets:   highlightMaxBullets,
	}
	if ft := strings.TrimSpace(args.FollowUpType); ft != "" {
		opts.SubjectOverride = fmt.Sprintf("%s (%s)", LookupEmailParts(args.EmailType, args.EmailTone).Subject, ft)
	}
	return MakeEmailDraft(bullets, opts)
}

// HighlightLine renders "[tag] text", or the bare text when the tag is empty or None.
func HighlightLine(h FollowUpHighlight) string {
	text := strings.TrimSpace(h.Text)
	if h.Tag == "" || h.Tag == TagNone {
		return text
	}
	return fmt.Sprintf("[%s] %s", h.Tag, text)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
