// Package enrich turns candidate businesses into scored lead rows.
package enrich

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/dedupe"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/metrics"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/scorer"
)

// DefaultWorkers is the website analysis pool size.
const DefaultWorkers = 12

// DetailFetcher looks up place details. Failures yield the zero value.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, placeID string) model.PlaceDetails
}

// WebsiteAnalyzer fetches and analyzes one website. Failures are reported in
// the returned analysis.
type WebsiteAnalyzer interface {
	Analyze(ctx context.Context, url string) model.WebsiteAnalysis
}

// Stats summarizes one Run.
type Stats struct {
	Candidates      int `json:"candidates"`
	DetailMisses    int `json:"detail_misses"`
	Unique          int `json:"unique"`
	BatchDuplicates int `json:"batch_duplicates"`
	ClaimDuplicates int `json:"claim_duplicates"`
	MissingPlaceID  int `json:"missing_place_id"`
	Analyzed        int `json:"analyzed"`
	FetchFailures   int `json:"fetch_failures"`
	NoWebsite       int `json:"no_website"`
	Emitted         int `json:"emitted"`
}

// Result is the output of one Run. Rows follow the order of the unique
// enriched businesses.
type Result struct {
	Rows  []model.LeadRow
	Stats Stats
}

// Orchestrator runs the detail, dedup, analysis and assembly phases.
type Orchestrator struct {
	details  DetailFetcher
	analyzer WebsiteAnalyzer
	filter   *dedupe.Filter
	workers  int
}

// New creates an Orchestrator. The filter is shared across the concurrent
// phase and must be seeded with previously exported place IDs.
func New(details DetailFetcher, analyzer WebsiteAnalyzer, filter *dedupe.Filter, workers int) *Orchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if filter == nil {
		filter = dedupe.New()
	}
	return &Orchestrator{
		details:  details,
		analyzer: analyzer,
		filter:   filter,
		workers:  workers,
	}
}

// slot is the outcome of the concurrent phase for one unique business.
type slot struct {
	claimed  bool
	analysis model.WebsiteAnalysis
}

// Run enriches, deduplicates, analyzes and scores candidates. Per-item
// failures never fail the run; only cancellation of ctx does.
func (o *Orchestrator) Run(ctx context.Context, candidates []model.CandidateBusiness) (*Result, error) {
	log := zap.L().With(zap.String("component", "enrich"))
	stats := Stats{Candidates: len(candidates)}

	// Sequential detail phase. Spacing is enforced by the fetcher.
	log.Info("fetching place details", zap.Int("businesses", len(candidates)))
	enriched := make([]model.EnrichedBusiness, 0, len(candidates))
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "enrich: detail phase canceled")
		}
		d := o.details.FetchDetails(ctx, c.PlaceID)
		if d.IsZero() {
			stats.DetailMisses++
			log.Debug("no place details", zap.String("place_id", c.PlaceID))
		}
		enriched = append(enriched, model.Enrich(c, d))

		if (i+1)%25 == 0 {
			log.Info("progress", zap.Int("details_fetched", i+1), zap.Int("total", len(candidates)))
		}
	}

	unique := dedupeBatch(enriched)
	stats.Unique = len(unique)
	stats.BatchDuplicates = len(enriched) - len(unique)
	metrics.ObserveDuplicate("batch", stats.BatchDuplicates)
	log.Info("after deduplication", zap.Int("businesses", len(unique)))

	// Concurrent analysis phase. A task's failure never cancels its siblings.
	slots := make([]slot, len(unique))
	var g errgroup.Group
	g.SetLimit(o.workers)

	for i, b := range unique {
		if b.PlaceID == "" {
			continue
		}
		if !b.HasWebsite() {
			slots[i] = slot{
				claimed:  o.filter.TryClaim(b.PlaceID),
				analysis: model.DefaultAnalysis(model.OutcomeNoWebsite, nil),
			}
			continue
		}

		g.Go(func() error {
			if !o.filter.TryClaim(b.PlaceID) {
				return nil
			}
			slots[i] = slot{claimed: true, analysis: o.analyze(ctx, b)}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "enrich: analysis phase canceled")
	}

	// Assembly in unique-entry order.
	rows := make([]model.LeadRow, 0, len(unique))
	for i, b := range unique {
		if b.PlaceID == "" {
			stats.MissingPlaceID++
			continue
		}
		s := slots[i]
		if !s.claimed {
			stats.ClaimDuplicates++
			continue
		}

		switch s.analysis.Outcome {
		case model.OutcomeAnalyzed:
			stats.Analyzed++
		case model.OutcomeFetchFailed:
			stats.FetchFailures++
		case model.OutcomeNoWebsite:
			stats.NoWebsite++
		}

		score := scorer.Score(scorer.SignalsFor(b, s.analysis))
		rows = append(rows, model.NewLeadRow(b, s.analysis, score))
	}
	stats.Emitted = len(rows)

	metrics.ObserveDuplicate("claim", stats.ClaimDuplicates)
	metrics.ObserveLeadsEmitted(stats.Emitted)

	log.Info("enrichment complete",
		zap.Int("candidates", stats.Candidates),
		zap.Int("unique", stats.Unique),
		zap.Int("detail_misses", stats.DetailMisses),
		zap.Int("analyzed", stats.Analyzed),
		zap.Int("fetch_failures", stats.FetchFailures),
		zap.Int("no_website", stats.NoWebsite),
		zap.Int("already_exported", stats.ClaimDuplicates),
		zap.Int("emitted", stats.Emitted),
	)

	return &Result{Rows: rows, Stats: stats}, nil
}

// analyze runs one website analysis, converting a panic into a fetch failure.
func (o *Orchestrator) analyze(ctx context.Context, b model.EnrichedBusiness) (a model.WebsiteAnalysis) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	defer func() {
		if r := recover(); r != nil {
			err := eris.New(fmt.Sprintf("enrich: analysis panicked: %v", r))
			zap.L().Error("website analysis panicked",
				zap.String("place_id", b.PlaceID),
				zap.String("website", b.Website),
				zap.Error(err),
			)
			a = model.DefaultAnalysis(model.OutcomeFetchFailed, err)
		}
	}()

	return o.analyzer.Analyze(ctx, b.Website)
}

// dedupeBatch keeps the first business for each website, or business name
// when there is no website.
func dedupeBatch(in []model.EnrichedBusiness) []model.EnrichedBusiness {
	seen := make(map[string]struct{}, len(in))
	out := make([]model.EnrichedBusiness, 0, len(in))
	for _, b := range in {
		key := b.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}
