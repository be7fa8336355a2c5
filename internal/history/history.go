// Package history records one row per pipeline run.
package history

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/config"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunParams are the search inputs of a run.
type RunParams struct {
	Location string   `json:"location"`
	Radius   int      `json:"radius"`
	Keywords []string `json:"keywords"`
}

// RunSummary holds the counters recorded when a run finishes.
type RunSummary struct {
	Candidates    int `json:"candidates"`
	Emitted       int `json:"emitted"`
	Duplicates    int `json:"duplicates"`
	FetchFailures int `json:"fetch_failures"`
}

// Run is one recorded pipeline run.
type Run struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	Params     RunParams  `json:"params"`
	Summary    RunSummary `json:"summary"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Store persists run history.
type Store interface {
	StartRun(ctx context.Context, params RunParams) (*Run, error)
	FinishRun(ctx context.Context, runID string, summary RunSummary, runErr error) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// defaultListLimit caps ListRuns when no limit is given.
const defaultListLimit = 20

// Open returns the Store selected by cfg.Driver and migrates it.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "", "none":
		return Nop{}, nil
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("history: unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

// finishStatus maps a run error to its final status and message.
func finishStatus(runErr error) (RunStatus, string) {
	if runErr != nil {
		return RunStatusFailed, runErr.Error()
	}
	return RunStatusCompleted, ""
}

// Nop is a Store that records nothing.
type Nop struct{}

func (Nop) StartRun(_ context.Context, params RunParams) (*Run, error) {
	return &Run{Status: RunStatusRunning, Params: params, StartedAt: time.Now().UTC()}, nil
}

func (Nop) FinishRun(context.Context, string, RunSummary, error) error { return nil }

func (Nop) ListRuns(context.Context, int) ([]Run, error) { return nil, nil }

func (Nop) Migrate(context.Context) error { return nil }

func (Nop) Close() error { return nil }
