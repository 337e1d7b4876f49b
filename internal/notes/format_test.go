package notes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.HasPrefix(l, "- ") {
			out = append(out, l)
		}
	}
	return out
}

func TestEmptyInputMessages(t *testing.T) {
	assert.Equal(t, "No notes provided.", MakeSummary(ToBullets("")))
	assert.Equal(t, "No obvious action items found.", FormatActionItems(nil, nil))
	assert.Equal(t, "No obvious action items found.", FormatActionItems([]ActionItem{}, []ActionIssue{}, true))
}

func TestMakeSummary(t *testing.T) {
	bullets := []string{"one", "two", "three", "four", "five", "six", "seven"}

	got := MakeSummary(bullets)
	assert.Equal(t, []string{"- one", "- two", "- three", "- four", "- five", "- six"}, dashLines(got))
	assert.True(t, strings.HasSuffix(got, "...plus 1 additional note."), got)

	got = MakeSummary(append(bullets, "eight", "nine"))
	assert.True(t, strings.HasSuffix(got, "...plus 3 additional notes."), got)

	got = MakeSummary(bullets[:2])
	assert.NotContains(t, got, "additional")
	assert.Len(t, dashLines(got), 2)
}

func TestFormatActionItems(t *testing.T) {
	items := ParseActionItems(ToBullets("Send report by Friday\nSchedule follow-up call"))
	issues := DetectActionIssues(items)

	got := FormatActionItems(items, issues)
	assert.Contains(t, got, "1. Send report by Friday\n   Owner: Unassigned | Due: Friday")
	assert.Contains(t, got, "2. Schedule follow-up call\n   Owner: Unassigned | Due: No due date")
	assert.Contains(t, got, "\nChecks:\n")
	assert.Len(t, dashLines(got), len(issues))

	// legacy callers pass a stray flag; output is unchanged
	assert.Equal(t, got, FormatActionItems(items, issues, true))
	assert.Equal(t, got, FormatActionItems(items, issues, false))
}

func TestFormatActionItems_NotesAndOwner(t *testing.T) {
	items := []ActionItem{{Text: "send the deck", Owner: "Alice", Due: "tomorrow", Notes: "v3 draft"}}
	got := FormatActionItems(items, nil)
	assert.Contains(t, got, "   Owner: Alice | Due: tomorrow\n   Notes: v3 draft")
	assert.Contains(t, got, "- No issues found.")
}

func TestFormatActionItems_TruncatesChecks(t *testing.T) {
	items := []ActionItem{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}
	issues := DetectActionIssues(items)
	require.Len(t, issues, 12)

	got := FormatActionItems(items, issues)
	assert.Len(t, dashLines(got), 8)
	assert.True(t, strings.HasSuffix(got, "(+4 more)"), got)
}

func TestMakeEmailDraft_AllTemplates(t *testing.T) {
	require.Len(t, EmailTypes, 5)
	require.Len(t, EmailTones, 4)

	for _, et := range EmailTypes {
		for _, tone := range EmailTones {
			t.Run(fmt.Sprintf("%s/%s", et, tone), func(t *testing.T) {
				parts := LookupEmailParts(et, tone)
				require.NotEmpty(t, parts.Subject)
				require.NotEmpty(t, parts.Opening)
				require.NotEmpty(t, parts.Greeting)
				require.NotEmpty(t, parts.Closing)

				draft := MakeEmailDraft([]string{"x"}, EmailOptions{Type: et, Tone: tone})
				assert.True(t, strings.HasPrefix(draft, "Subject: "+parts.Subject+"\n"))
				assert.Contains(t, draft, "\n"+parts.Greeting+"\n")
				assert.Contains(t, draft, "\n"+parts.Closing+"\n")
			})
		}
	}
}

func TestMakeEmailDraft_Options(t *testing.T) {
	draft := MakeEmailDraft(nil, EmailOptions{})
	assert.Equal(t, []string{"- No notes provided"}, dashLines(draft))
	assert.Contains(t, draft, "Hello,")
	assert.Contains(t, draft, "Best regards,")

	bullets := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	assert.Len(t, dashLines(MakeEmailDraft(bullets, EmailOptions{})), 6)
	assert.Len(t, dashLines(MakeEmailDraft(bullets, EmailOptions{MaxBullets: 3})), 3)

	draft = MakeEmailDraft(bullets, EmailOptions{
		Type:            EmailQuestion,
		SubjectOverride: "Custom subject",
		ContextLines:    []string{"Focus: pricing"},
	})
	assert.True(t, strings.HasPrefix(draft, "Subject: Custom subject\n"))
	assert.Contains(t, draft, "Context:\nFocus: pricing\n")

	unknown := MakeEmailDraft(bullets, EmailOptions{Type: "nope", Tone: "loud"})
	assert.Contains(t, unknown, "Subject: Follow-up from our meeting")
	assert.Contains(t, unknown, "Hello,")
}

func TestMakeFollowUpEmailDraftFromHighlights_Scenario(t *testing.T) {
	draft := MakeFollowUpEmailDraftFromHighlights(FollowUpDraftArgs{
		Highlights:    []FollowUpHighlight{{ID: "h1", Text: "Confirm budget", Tag: TagUrgent}},
		MeetingResult: ResultPending,
		EmailType:     EmailConcern,
		EmailTone:     ToneWarm,
	})

	assert.Equal(t, []string{"- [Urgent] Confirm budget"}, dashLines(draft))
	assert.Contains(t, draft, "\nHi there,\n")
	assert.Contains(t, draft, "\nThanks so much,\n")
	assert.NotContains(t, draft, "Context:")
	assert.True(t, strings.HasPrefix(draft, "Subject: A concern from our meeting\n"))
}

func TestMakeFollowUpEmailDraftFromHighlights_Context(t *testing.T) {
	draft := MakeFollowUpEmailDraftFromHighlights(FollowUpDraftArgs{
		Highlights: []FollowUpHighlight{
			{ID: "a", Text: "Send pricing sheet", Tag: TagNone},
			{ID: "b", Text: "Book demo", Tag: TagMeeting},
			{ID: "c", Text: "Loop in legal"},
		},
		FollowUpType:   "Call",
		FocusPrompt:    "pricing",
		EmailPrompt:    "keep it short",
		MeetingResult:  ResultCompleted,
		MeetingOutcome: "  ",
	})

	assert.True(t, strings.HasPrefix(draft, "Subject: Follow-up from our meeting (Call)\n"))
	assert.Contains(t, draft, "Context:\nFollow-up type: Call\nMeeting result: Completed\nFocus: pricing\nEmail instructions: keep it short\n")
	assert.NotContains(t, draft, "Meeting outcome:")
	assert.Equal(t, []string{"- Send pricing sheet", "- [Meeting] Book demo", "- Loop in legal"}, dashLines(draft))
}

func TestMakeFollowUpEmailDraftFromHighlights_Limits(t *testing.T) {
	draft := MakeFollowUpEmailDraftFromHighlights(FollowUpDraftArgs{MeetingResult: ResultPending})
	assert.Equal(t, []string{"- (No follow-up items selected yet)"}, dashLines(draft))

	var hs []FollowUpHighlight
	for i := 0; i < 60; i++ {
		hs = append(hs, FollowUpHighlight{ID: fmt.Sprint(i), Text: fmt.Sprintf("item %d", i)})
	}
	draft = MakeFollowUpEmailDraftFromHighlights(FollowUpDraftArgs{Highlights: hs})
	assert.Len(t, dashLines(draft), 20)
}
