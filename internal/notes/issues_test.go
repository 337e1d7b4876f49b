package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueTypesFor(issues []ActionIssue, item int) []IssueType {
	var out []IssueType
	for _, is := range issues {
		if is.Item == item {
			out = append(out, is.Type)
		}
	}
	return out
}

func TestDetectActionIssues_Scenario(t *testing.T) {
	items := ParseActionItems(ToBullets("Send report by Friday\nSchedule follow-up call"))
	issues := DetectActionIssues(items)

	assert.Equal(t, []IssueType{IssueMissingOwner}, issueTypesFor(issues, 1))
	assert.Equal(t, []IssueType{IssueMissingOwner, IssueMissingDueDate}, issueTypesFor(issues, 2))
	for _, is := range issues {
		assert.NotEqual(t, IssueVague, is.Type)
		assert.NotEmpty(t, is.Message)
	}
}

func TestDetectActionIssues_OwnerCoverage(t *testing.T) {
	tests := []struct {
		name    string
		item    ActionItem
		missing bool
	}{
		{"extracted owner", ActionItem{Text: "Send the quarterly report", Owner: "Alice"}, false},
		{"handle in text", ActionItem{Text: "ping @ops about the rollout plan"}, false},
		{"owner tag", ActionItem{Text: "Fix the pipeline, Owner: Sam"}, false},
		{"assigned to", ActionItem{Text: "Draft the memo, Assigned To legal"}, false},
		{"i will", ActionItem{Text: "I will prepare the agenda"}, false},
		{"we will", ActionItem{Text: "We will decide on vendors"}, false},
		{"nobody", ActionItem{Text: "Prepare the quarterly agenda"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := DetectActionIssues([]ActionItem{tt.item})
			assert.Equal(t, tt.missing, containsType(issues, IssueMissingOwner))
		})
	}
}

func TestDetectActionIssues_DueCoverage(t *testing.T) {
	tests := []struct {
		item    ActionItem
		missing bool
	}{
		{ActionItem{Text: "Send the quarterly report", Due: "Friday"}, false},
		{ActionItem{Text: "Send the quarterly report tomorrow"}, false},
		{ActionItem{Text: "Send the quarterly report next week"}, false},
		{ActionItem{Text: "Send the quarterly report by wed"}, false},
		{ActionItem{Text: "Send the quarterly report on 2025-01-03"}, false},
		{ActionItem{Text: "Send the quarterly report soon"}, true},
		{ActionItem{Text: "Send the quarterly report by Thurs"}, false},
		{ActionItem{Text: "Review monthly metrics with the finance team"}, true},
		{ActionItem{Text: "Email our friends at Acme about pricing"}, true},
		{ActionItem{Text: "Update the thumbnail assets for the landing page"}, true},
		{ActionItem{Text: "Prepare the satisfaction survey draft"}, true},
		{ActionItem{Text: "Plan the sunset of the legacy API"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.item.Text, func(t *testing.T) {
			issues := DetectActionIssues([]ActionItem{tt.item})
			assert.Equal(t, tt.missing, containsType(issues, IssueMissingDueDate))
		})
	}
}

func TestMissingDueDate_AgreesWithExtractDue(t *testing.T) {
	p := NewParser(DefaultVocabulary())
	for _, text := range []string{
		"Review monthly metrics with the finance team",
		"Email our friends at Acme about pricing",
		"Update the thumbnail assets for the landing page",
		"Prepare the satisfaction survey draft",
		"Send the deck on Wednesday",
		"Confirm with legal on Tue",
	} {
		items := p.ParseActionItems([]string{text})
		require.Len(t, items, 1, text)
		assert.Equal(t, items[0].Due == "", p.MissingDueDate(items[0]), text)
	}
}

func TestDetectActionIssues_Vague(t *testing.T) {
	p := NewParser(DefaultVocabulary())
	assert.True(t, p.IsVague(ActionItem{Text: "Fix it"}))
	assert.True(t, p.IsVague(ActionItem{Text: "Touch base with finance about the Q3 budget"}))
	assert.True(t, p.IsVague(ActionItem{Text: "We should look into the outage report"}))
	assert.False(t, p.IsVague(ActionItem{Text: "Send report by Friday"}))

	strict := NewParser(Vocabulary{VagueMinLength: 40})
	assert.True(t, strict.IsVague(ActionItem{Text: "Send report by Friday"}))
}

func TestDetectActionIssues_AllThree(t *testing.T) {
	issues := DetectActionIssues([]ActionItem{{Text: "fix"}})
	require.Len(t, issues, 3)
	assert.Equal(t, []IssueType{IssueMissingOwner, IssueMissingDueDate, IssueVague}, issueTypesFor(issues, 1))
}

func TestCountIssues(t *testing.T) {
	items := ParseActionItems(ToBullets("Send report by Friday\nSchedule follow-up call"))
	assert.Equal(t, IssueCounts{MissingOwners: 2, MissingDue: 1}, CountIssues(items))

	fallback := ParseActionItems([]string{"Budget is fine"})
	c := CountIssues(fallback)
	assert.Equal(t, 1, c.MissingVerb)
	assert.Equal(t, 1, c.Weak)
}

func containsType(issues []ActionIssue, t IssueType) bool {
	for _, is := range issues {
		if is.Type == t {
			return true
		}
	}
	return false
}
