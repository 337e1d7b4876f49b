package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"meetnotes/internal/notes"
)

// fakeQuerier 按 id 保存 jsonb 行，只理解 PostgresStore 发出的几条语句
type fakeQuerier struct {
	rows    map[string][]byte
	queries []string
	err     error
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{rows: map[string][]byte{}}
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	if q.err != nil {
		return pgconn.CommandTag{}, q.err
	}
	if strings.Contains(sql, "INSERT INTO workspaces") {
		data := args[1].([]byte)
		q.rows[args[0].(string)] = append([]byte(nil), data...)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	data, ok := q.rows[args[0].(string)]
	return fakeRow{data: data, ok: ok, err: q.err}
}

func (q *fakeQuerier) Ping(context.Context) error { return q.err }

type fakeRow struct {
	data []byte
	ok   bool
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if !r.ok {
		return pgx.ErrNoRows
	}
	*dest[0].(*[]byte) = append([]byte(nil), r.data...)
	return nil
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	q := newFakeQuerier()
	store := NewPostgresStore(q, "", zap.NewNop())
	require.NoError(t, store.EnsureSchema(ctx))

	empty, err := store.Load(ctx)
	require.NoError(t, err, "a missing row is an empty workspace")
	assert.Empty(t, empty.Sessions)
	assert.NotNil(t, empty.Folders)

	require.NoError(t, store.Save(ctx, sampleWorkspace()))
	assert.Contains(t, q.rows, DefaultWorkspaceID)

	ws, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ws.Sessions, 1)
	s := ws.Sessions[0]
	assert.Equal(t, "Kickoff", s.Title)
	assert.Equal(t, notes.TagUrgent, s.Highlights[0].Tag)
	assert.Equal(t, 0, s.History.Cursor)
	require.NotNil(t, s.EndedAt)

	// 再次保存走 upsert，同一行被覆盖
	ws.Sessions[0].Title = "Kickoff v2"
	require.NoError(t, store.Save(ctx, ws))
	assert.Len(t, q.rows, 1)
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff v2", again.Sessions[0].Title)
}

func TestPostgresStoreSeparatesWorkspaces(t *testing.T) {
	ctx := context.Background()
	q := newFakeQuerier()
	require.NoError(t, NewPostgresStore(q, "team-a", zap.NewNop()).Save(ctx, sampleWorkspace()))

	other, err := NewPostgresStore(q, "team-b", zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, other.Sessions)
}

func TestPostgresStorePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	q := newFakeQuerier()
	q.err = errors.New("connection refused")
	store := NewPostgresStore(q, "", zap.NewNop())

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, q.err)
	assert.ErrorIs(t, store.Save(ctx, sampleWorkspace()), q.err)
	assert.ErrorIs(t, store.Ping(ctx), q.err)
}

func TestPostgresStoreRejectsCorruptRow(t *testing.T) {
	q := newFakeQuerier()
	q.rows[DefaultWorkspaceID] = []byte("{not json")
	_, err := NewPostgresStore(q, "", zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

// 需要真实数据库：MEETNOTES_TEST_POSTGRES_DSN=postgres://... go test ./internal/repository/
func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("MEETNOTES_TEST_POSTGRES_DSN")
	if dsn == "" || testing.Short() {
		t.Skip("MEETNOTES_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	id := "test-" + strings.ReplaceAll(t.Name(), "/", "-")
	store := NewPostgresStore(pool, id, zap.NewNop())
	require.NoError(t, store.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	require.NoError(t, err)
	defer pool.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Sessions)

	require.NoError(t, store.Save(ctx, sampleWorkspace()))
	ws, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ws.Sessions, 1)
	assert.Equal(t, "Send report by Friday", ws.Sessions[0].RawNotes)
}
