package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_StartAndFinishRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.StartRun(ctx, RunParams{Location: "39.9526,-75.1652", Radius: 5000, Keywords: []string{"lawn", "roof"}})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	require.NoError(t, st.FinishRun(ctx, run.ID, RunSummary{Candidates: 40, Emitted: 31, Duplicates: 6, FetchFailures: 3}, nil))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, []string{"lawn", "roof"}, got.Params.Keywords)
	assert.Equal(t, 5000, got.Params.Radius)
	assert.Equal(t, RunSummary{Candidates: 40, Emitted: 31, Duplicates: 6, FetchFailures: 3}, got.Summary)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.FinishedAt)
	assert.WithinDuration(t, time.Now(), *got.FinishedAt, time.Minute)
}

func TestSQLite_FinishRunFailed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.StartRun(ctx, RunParams{Location: "1,2", Radius: 10, Keywords: []string{"x"}})
	require.NoError(t, err)
	require.NoError(t, st.FinishRun(ctx, run.ID, RunSummary{}, errors.New("save results: disk full")))

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, RunStatusFailed, runs[0].Status)
	assert.Equal(t, "save results: disk full", runs[0].Error)
}

func TestSQLite_FinishRunNotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.FinishRun(context.Background(), "missing", RunSummary{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLite_ListRunsNewestFirst(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := st.StartRun(ctx, RunParams{Location: "1,2", Radius: 10, Keywords: []string{"x"}})
		require.NoError(t, err)
		ids = append(ids, run.ID)
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
	assert.Nil(t, runs[0].FinishedAt)
}
