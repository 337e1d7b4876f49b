package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ChainsStages(t *testing.T) {
	raw := "- Send report by Friday\n- Schedule follow-up call\n- Budget looks fine"
	a := Analyze(raw)

	assert.Equal(t, ToBullets(raw), a.Bullets)
	assert.Equal(t, ParseActionItems(a.Bullets), a.ActionItems)
	assert.Equal(t, DetectActionIssues(a.ActionItems), a.Issues)
	assert.Equal(t, CountIssues(a.ActionItems), a.Counts)
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze("   ")
	require.NotNil(t, a.Bullets)
	assert.Empty(t, a.Bullets)
	assert.Empty(t, a.ActionItems)

	out := a.Outputs()
	assert.Equal(t, NoNotesMessage, out.Summary)
	assert.Equal(t, NoActionItemsMessage, out.ActionItems)
	assert.Empty(t, out.Email)
}

func TestAnalysisOutputs_Deterministic(t *testing.T) {
	raw := "Alex will send the deck by Friday\nReview budget"
	first := Analyze(raw).Outputs()
	second := Analyze(raw).Outputs()
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first.Summary, "Meeting summary:\n"))
	assert.True(t, strings.HasPrefix(first.ActionItems, "Action items:\n"))
}
