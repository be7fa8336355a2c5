package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/config"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/dedupe"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/enrich"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/extract"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/history"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/places"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/resilience"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/store"
	"github.com/StaticxViper/lenovo-scripts-cjm/pkg/google"
)

// candidateSource produces the raw candidate list for a run.
type candidateSource interface {
	Search(ctx context.Context, location string, radius int, keywords []string) []model.CandidateBusiness
}

// runOptions are the search inputs of one pipeline run.
type runOptions struct {
	Location string
	Radius   int
	Keywords []string
	Limit    int
}

// leadPipeline wires search, enrichment and persistence for one run.
type leadPipeline struct {
	source   candidateSource
	details  enrich.DetailFetcher
	analyzer enrich.WebsiteAnalyzer
	store    *store.CSVStore
	history  history.Store
	workers  int
	xlsxPath string
}

// Run executes the pipeline end to end. Per-item failures are absorbed by
// the stages; the error return covers cancellation and persistence.
func (p *leadPipeline) Run(ctx context.Context, opts runOptions) (res *enrich.Result, err error) {
	log := zap.L().With(zap.String("component", "pipeline"))
	start := time.Now()

	hist := p.history
	if hist == nil {
		hist = history.Nop{}
	}
	run, herr := hist.StartRun(ctx, history.RunParams{
		Location: opts.Location,
		Radius:   opts.Radius,
		Keywords: opts.Keywords,
	})
	if herr != nil {
		log.Warn("pipeline: record run start failed", zap.Error(herr))
		run = nil
	}
	defer func() {
		if run == nil {
			return
		}
		var summary history.RunSummary
		if res != nil {
			summary = history.RunSummary{
				Candidates:    res.Stats.Candidates,
				Emitted:       res.Stats.Emitted,
				Duplicates:    res.Stats.BatchDuplicates + res.Stats.ClaimDuplicates,
				FetchFailures: res.Stats.FetchFailures,
			}
		}
		// The run context may already be canceled; the history row still
		// needs its final status.
		if ferr := hist.FinishRun(context.WithoutCancel(ctx), run.ID, summary, err); ferr != nil {
			log.Warn("pipeline: record run finish failed", zap.String("run_id", run.ID), zap.Error(ferr))
		}
	}()

	existing, err := p.store.Load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load store")
	}
	filter := dedupe.Load(existing)
	log.Info("pipeline: store loaded",
		zap.String("path", p.store.Path()),
		zap.Int("rows", len(existing)),
		zap.Int("known_place_ids", filter.Len()),
	)

	candidates := p.source.Search(ctx, opts.Location, opts.Radius, opts.Keywords)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: search")
	}
	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	known := 0
	for _, c := range candidates {
		if filter.Contains(c.PlaceID) {
			known++
		}
	}
	log.Info("pipeline: candidates collected",
		zap.Int("candidates", len(candidates)),
		zap.Int("already_exported", known),
	)

	orch := enrich.New(p.details, p.analyzer, filter, p.workers)
	res, err = orch.Run(ctx, candidates)
	if err != nil {
		return nil, err
	}

	merged := store.Merge(existing, res.Rows)
	if err = p.store.Save(ctx, merged); err != nil {
		return res, eris.Wrap(err, "pipeline: save results")
	}

	if p.xlsxPath != "" {
		if xerr := store.WriteXLSX(p.xlsxPath, merged); xerr != nil {
			log.Warn("pipeline: xlsx export failed", zap.String("path", p.xlsxPath), zap.Error(xerr))
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("candidates", res.Stats.Candidates),
		zap.Int("unique", res.Stats.Unique),
		zap.Int("emitted", res.Stats.Emitted),
		zap.Int("fetch_failures", res.Stats.FetchFailures),
		zap.Int("stored_rows", len(merged)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// newGateway builds the Places gateway from configuration.
func newGateway(c *config.Config) *places.Gateway {
	client := google.NewClient(c.Google.Key,
		google.WithBaseURL(c.Google.BaseURL),
		google.WithTimeout(time.Duration(c.Google.TimeoutSecs)*time.Second),
	)

	retry := resilience.DefaultRetryConfig()
	if c.Google.MaxAttempts > 0 {
		retry.MaxAttempts = c.Google.MaxAttempts
	}

	delay := time.Duration(c.Google.RequestDelayMs) * time.Millisecond
	return places.NewGateway(client,
		places.WithTokenDelay(delay),
		places.WithRequestDelay(delay),
		places.WithRetry(retry),
	)
}

// newAnalyzer builds the website analyzer from configuration.
func newAnalyzer(c *config.Config) *extract.Analyzer {
	return extract.NewAnalyzer(extract.NewCollyFetcher(extract.FetcherConfig{
		UserAgent: c.Enrich.UserAgent,
		Timeout:   time.Duration(c.Enrich.FetchTimeoutSecs) * time.Second,
	}))
}
