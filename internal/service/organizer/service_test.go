package organizer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"meetnotes/contracts/mq"
	"meetnotes/internal/model"
	"meetnotes/internal/notes"
	"meetnotes/internal/repository"
	"meetnotes/internal/service/generate"
)

type recordingEvents struct {
	completed []mq.MeetingCompletedPayload
}

func (e *recordingEvents) MeetingCompleted(_ context.Context, p mq.MeetingCompletedPayload) {
	e.completed = append(e.completed, p)
}

func newTestService(t *testing.T) (*Service, *recordingEvents) {
	t.Helper()
	events := &recordingEvents{}
	svc := NewService(repository.NewMemoryStore(), generate.NewService(zap.NewNop()), events, zap.NewNop())

	clock := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc, events
}

func TestFolderTree(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	root, err := svc.CreateFolder(ctx, "Clients", "")
	require.NoError(t, err)
	child, err := svc.CreateFolder(ctx, "Acme", root.ID)
	require.NoError(t, err)
	leaf, err := svc.CreateFolder(ctx, "Q3", child.ID)
	require.NoError(t, err)

	_, err = svc.CreateFolder(ctx, "  ", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateFolder(ctx, "Orphan", "missing")
	assert.ErrorIs(t, err, ErrInvalidFolder)

	_, err = svc.MoveFolder(ctx, root.ID, leaf.ID)
	assert.ErrorIs(t, err, ErrInvalidFolder, "a folder cannot move under its own descendant")
	_, err = svc.MoveFolder(ctx, root.ID, root.ID)
	assert.ErrorIs(t, err, ErrInvalidFolder)

	renamed, err := svc.RenameFolder(ctx, child.ID, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", renamed.Name)
}

func TestDeleteFolderReparentsChildren(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	root, _ := svc.CreateFolder(ctx, "Clients", "")
	child, _ := svc.CreateFolder(ctx, "Acme", root.ID)
	leaf, _ := svc.CreateFolder(ctx, "Q3", child.ID)
	sess, err := svc.CreateSession(ctx, "Kickoff", child.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFolder(ctx, child.ID))
	assert.ErrorIs(t, svc.DeleteFolder(ctx, child.ID), ErrNotFound)

	ws, err := svc.ListWorkspace(ctx)
	require.NoError(t, err)
	require.Len(t, ws.Folders, 2)
	assert.Equal(t, root.ID, ws.FindFolder(leaf.ID).ParentID)
	assert.Equal(t, root.ID, ws.FindSession(sess.ID).FolderID)
}

func TestSessionCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	sess, err := svc.CreateSession(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, untitledSession, sess.Title)
	assert.Equal(t, model.StatusUpcoming, sess.Status)
	assert.Equal(t, notes.ResultPending, sess.MeetingResult)

	_, err = svc.UpdateNotes(ctx, sess.ID, "Send report by Friday")
	require.NoError(t, err)
	_, err = svc.RenameSession(ctx, sess.ID, "Weekly sync")
	require.NoError(t, err)

	folder, _ := svc.CreateFolder(ctx, "Team", "")
	_, err = svc.MoveSession(ctx, sess.ID, "nope")
	assert.ErrorIs(t, err, ErrInvalidFolder)
	moved, err := svc.MoveSession(ctx, sess.ID, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, moved.FolderID)

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", got.Title)
	assert.Equal(t, "Send report by Friday", got.RawNotes)

	require.NoError(t, svc.DeleteSession(ctx, sess.ID))
	_, err = svc.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckpointsUndoRedo(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	sess, _ := svc.CreateSession(ctx, "Sync", "")

	_, err := svc.Undo(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNothingToUndo)

	_, _ = svc.UpdateNotes(ctx, sess.ID, "v1")
	cp, err := svc.SaveCheckpoint(ctx, sess.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Checkpoint 1", cp.Label)
	_, _ = svc.UpdateNotes(ctx, sess.ID, "v2")
	_, err = svc.SaveCheckpoint(ctx, sess.ID, "second")
	require.NoError(t, err)

	undone, err := svc.Undo(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", undone.RawNotes)

	redone, err := svc.Redo(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", redone.RawNotes)
	_, err = svc.Redo(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNothingToRedo)

	h, err := svc.ListCheckpoints(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, h.Checkpoints, 2)
	assert.Equal(t, 1, h.Cursor)
}

func TestPastLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, events := newTestService(t)
	sess, _ := svc.CreateSession(ctx, "Kickoff", "")

	past, err := svc.MarkPast(ctx, sess.ID, "No Show")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPast, past.Status)
	assert.Equal(t, notes.ResultNoShow, past.MeetingResult)
	require.NotNil(t, past.EndedAt)
	require.Len(t, events.completed, 1)
	assert.Equal(t, "No Show", events.completed[0].MeetingResult)

	again, err := svc.MarkPast(ctx, sess.ID, "bogus")
	require.NoError(t, err)
	assert.Equal(t, notes.ResultPending, again.MeetingResult)
	assert.True(t, past.EndedAt.Equal(*again.EndedAt), "endedAt is kept on repeat")

	updated, err := svc.SetPostMeeting(ctx, sess.ID, PostMeeting{
		PostMeetingNotes: "Client wants a revised quote",
		MeetingOutcome:   "Agreed on scope",
		MeetingResult:    "Completed",
	})
	require.NoError(t, err)
	assert.Equal(t, notes.ResultCompleted, updated.MeetingResult)

	reopened, err := svc.Reopen(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUpcoming, reopened.Status)
	assert.Nil(t, reopened.EndedAt)
	assert.Equal(t, "Agreed on scope", reopened.MeetingOutcome)
}

func TestHighlights(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	sess, _ := svc.CreateSession(ctx, "Kickoff", "")
	_, _ = svc.UpdateNotes(ctx, sess.ID, "Budget discussion\nMaria will send the revised quote tomorrow")

	_, err := svc.AddHighlight(ctx, sess.ID, "   ", "Urgent")
	assert.ErrorIs(t, err, ErrInvalidInput)

	h, err := svc.AddHighlight(ctx, sess.ID, "Confirm budget", "urgent")
	require.NoError(t, err)
	assert.Equal(t, notes.TagUrgent, h.Tag)

	promoted, err := svc.PromoteActionItem(ctx, sess.ID, 1, "Email")
	require.NoError(t, err)
	assert.Equal(t, "send the revised quote tomorrow", promoted.Text)
	dup, err := svc.PromoteActionItem(ctx, sess.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, promoted.ID, dup.ID)

	_, err = svc.PromoteActionItem(ctx, sess.ID, 9, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	retagged, err := svc.RetagHighlight(ctx, sess.ID, h.ID, "Call")
	require.NoError(t, err)
	assert.Equal(t, notes.TagCall, retagged.Tag)

	require.NoError(t, svc.RemoveHighlight(ctx, sess.ID, h.ID))
	assert.ErrorIs(t, svc.RemoveHighlight(ctx, sess.ID, h.ID), ErrNotFound)

	got, _ := svc.GetSession(ctx, sess.ID)
	require.Len(t, got.Highlights, 1)
	assert.Equal(t, promoted.ID, got.Highlights[0].ID)
}

func TestGenerateForSessionKeepsEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	sess, _ := svc.CreateSession(ctx, "Kickoff", "")

	_, err := svc.GenerateForSession(ctx, sess.ID)
	assert.ErrorIs(t, err, generate.ErrEmptyInput)

	_, _ = svc.UpdateNotes(ctx, sess.ID, "Send report by Friday\nSchedule follow-up call")
	_, _ = svc.AddHighlight(ctx, sess.ID, "Confirm budget", "Urgent")

	drafted, err := svc.DraftFollowUpForSession(ctx, sess.ID, FollowUpPrompts{EmailType: "concern", EmailTone: "warm"})
	require.NoError(t, err)
	assert.Contains(t, drafted.Outputs.Email, "- [Urgent] Confirm budget")
	assert.Empty(t, drafted.Outputs.Summary)

	generated, err := svc.GenerateForSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(generated.Outputs.Summary, "Meeting summary:"))
	assert.Contains(t, generated.Outputs.ActionItems, "1. Send report by Friday")
	assert.Equal(t, drafted.Outputs.Email, generated.Outputs.Email)
	require.Len(t, generated.History.Checkpoints, 1)
	assert.Equal(t, generatedLabel, generated.History.Checkpoints[0].Label)
}

// hookedGenerator 在生成前执行 before，用来模拟生成期间的并发写入
type hookedGenerator struct {
	Generator
	before func()
}

func (g *hookedGenerator) Generate(ctx context.Context, req generate.Request) (notes.Outputs, error) {
	if g.before != nil {
		g.before()
	}
	return g.Generator.Generate(ctx, req)
}

func (g *hookedGenerator) DraftFollowUp(ctx context.Context, req generate.FollowUpRequest) (string, error) {
	if g.before != nil {
		g.before()
	}
	return g.Generator.DraftFollowUp(ctx, req)
}

func TestGenerateForSessionDoesNotHoldLock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	sess, _ := svc.CreateSession(ctx, "Kickoff", "")
	_, _ = svc.UpdateNotes(ctx, sess.ID, "Send report by Friday")
	_, _ = svc.AddHighlight(ctx, sess.ID, "Confirm budget", "Urgent")

	gen := &hookedGenerator{Generator: svc.gen}
	gen.before = func() {
		done := make(chan error, 1)
		go func() {
			_, err := svc.RenameSession(ctx, sess.ID, "Kickoff (renamed)")
			done <- err
		}()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("workspace write blocked while generating")
		}
	}
	svc.gen = gen

	generated, err := svc.GenerateForSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff (renamed)", generated.Title)
	assert.Contains(t, generated.Outputs.ActionItems, "1. Send report by Friday")

	drafted, err := svc.DraftFollowUpForSession(ctx, sess.ID, FollowUpPrompts{})
	require.NoError(t, err)
	assert.Contains(t, drafted.Outputs.Email, "- [Urgent] Confirm budget")
}

func TestGenerateForSessionRetriesOnChangedNotes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	sess, _ := svc.CreateSession(ctx, "Kickoff", "")
	_, _ = svc.UpdateNotes(ctx, sess.ID, "Send report by Friday")

	calls := 0
	svc.gen = &hookedGenerator{Generator: svc.gen, before: func() {
		calls++
		if calls == 1 {
			_, err := svc.UpdateNotes(ctx, sess.ID, "Schedule vendor call next week")
			require.NoError(t, err)
		}
	}}

	generated, err := svc.GenerateForSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, generated.Outputs.ActionItems, "1. Schedule vendor call next week")
	assert.NotContains(t, generated.Outputs.ActionItems, "Send report")
	require.Len(t, generated.History.Checkpoints, 1)
}

func TestGenerateForSessionGivesUpWhenNotesKeepChanging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	sess, _ := svc.CreateSession(ctx, "Kickoff", "")
	_, _ = svc.UpdateNotes(ctx, sess.ID, "Send report by Friday")

	calls := 0
	svc.gen = &hookedGenerator{Generator: svc.gen, before: func() {
		calls++
		_, err := svc.UpdateNotes(ctx, sess.ID, fmt.Sprintf("Send report version %d by Friday", calls))
		require.NoError(t, err)
	}}

	_, err := svc.GenerateForSession(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, generateAttempts, calls)

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Outputs.Summary)
	assert.Empty(t, got.History.Checkpoints)
}
