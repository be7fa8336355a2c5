package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/config"
)

func TestOpen_None(t *testing.T) {
	for _, driver := range []string{"", "none"} {
		s, err := Open(context.Background(), config.StoreConfig{Driver: driver})
		require.NoError(t, err)
		assert.IsType(t, Nop{}, s)
	}
}

func TestOpen_SQLite(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "runs.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck

	run, err := s.StartRun(context.Background(), RunParams{Location: "1,2", Radius: 1, Keywords: []string{"k"}})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestOpen_PostgresBadDSN(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "postgres", DatabaseURL: "://not a dsn"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: parse config")
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	ctx := context.Background()

	run, err := s.StartRun(ctx, RunParams{Location: "1,2"})
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.NoError(t, s.FinishRun(ctx, run.ID, RunSummary{}, nil))

	runs, err := s.ListRuns(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, s.Migrate(ctx))
	assert.NoError(t, s.Close())
}
