// Package places wraps the Google Places client with the pagination, spacing
// and best-effort semantics the lead pipeline needs.
package places

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/metrics"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/resilience"
	"github.com/StaticxViper/lenovo-scripts-cjm/pkg/google"
)

const (
	// DefaultTokenDelay is how long a continuation token takes to become valid.
	DefaultTokenDelay = 2 * time.Second
	// DefaultRequestDelay spaces consecutive detail calls.
	DefaultRequestDelay = 2 * time.Second
)

// Stats counts upstream requests made by a Gateway.
type Stats struct {
	SearchRequests int64 `json:"search_requests"`
	SearchFailures int64 `json:"search_failures"`
	DetailRequests int64 `json:"detail_requests"`
	DetailFailures int64 `json:"detail_failures"`
	TokenWaits     int64 `json:"token_waits"`
}

// Gateway performs paginated nearby search and best-effort detail lookup.
type Gateway struct {
	client     google.Client
	limiter    *rate.Limiter
	tokenDelay time.Duration
	retry      resilience.RetryConfig
	sleep      func(ctx context.Context, d time.Duration) error

	searchRequests atomic.Int64
	searchFailures atomic.Int64
	detailRequests atomic.Int64
	detailFailures atomic.Int64
	tokenWaits     atomic.Int64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTokenDelay sets the wait before a continuation token is reused.
func WithTokenDelay(d time.Duration) Option {
	return func(g *Gateway) { g.tokenDelay = d }
}

// WithRequestDelay sets the minimum spacing between detail calls. Zero
// disables spacing.
func WithRequestDelay(d time.Duration) Option {
	return func(g *Gateway) {
		if d <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		g.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRetry sets the retry policy for transient upstream failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(g *Gateway) { g.retry = cfg }
}

// WithSleep replaces the token-delay sleep.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Gateway) { g.sleep = fn }
}

// NewGateway creates a Gateway over client.
func NewGateway(client google.Client, opts ...Option) *Gateway {
	g := &Gateway{
		client:     client,
		limiter:    rate.NewLimiter(rate.Every(DefaultRequestDelay), 1),
		tokenDelay: DefaultTokenDelay,
		retry:      resilience.DefaultRetryConfig(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Search runs a paginated nearby search for every keyword and merges the
// results by place ID. The first-seen record for an ID wins and first-seen
// order is kept. A failed request ends only the current keyword's chain.
func (g *Gateway) Search(ctx context.Context, location string, radius int, keywords []string) []model.CandidateBusiness {
	log := zap.L().With(zap.String("component", "places"))

	seen := make(map[string]struct{})
	var out []model.CandidateBusiness

	for _, kw := range keywords {
		if ctx.Err() != nil {
			break
		}

		pages, found := 0, 0
		req := google.NearbySearchRequest{Location: location, Radius: radius, Keyword: kw}
		for {
			resp, err := g.nearbySearch(ctx, req)
			if err != nil {
				log.Warn("nearby search failed",
					zap.String("keyword", kw),
					zap.Int("page", pages+1),
					zap.Error(err),
				)
				break
			}
			pages++

			for _, p := range resp.Results {
				if p.PlaceID == "" {
					continue
				}
				if _, dup := seen[p.PlaceID]; dup {
					continue
				}
				seen[p.PlaceID] = struct{}{}
				found++
				out = append(out, model.CandidateBusiness{
					PlaceID:      p.PlaceID,
					BusinessName: p.Name,
					Address:      p.Address(),
					Rating:       p.Rating.Ptr(),
					ReviewCount:  p.UserRatingsTotal.Ptr(),
				})
			}

			if resp.NextPageToken == "" {
				break
			}

			g.tokenWaits.Add(1)
			metrics.ObservePaginationDelay(g.tokenDelay)
			if err := g.sleep(ctx, g.tokenDelay); err != nil {
				log.Warn("pagination wait interrupted", zap.String("keyword", kw), zap.Error(err))
				break
			}
			req = google.NearbySearchRequest{PageToken: resp.NextPageToken}
		}

		log.Debug("keyword searched",
			zap.String("keyword", kw),
			zap.Int("pages", pages),
			zap.Int("new_places", found),
		)
	}

	log.Info("collected unique places", zap.Int("count", len(out)))
	return out
}

// FetchDetails looks up website, phone and address for placeID. Any failure is
// logged and yields the zero PlaceDetails.
func (g *Gateway) FetchDetails(ctx context.Context, placeID string) model.PlaceDetails {
	if err := g.limiter.Wait(ctx); err != nil {
		zap.L().Warn("places: rate limit wait", zap.String("place_id", placeID), zap.Error(err))
		return model.PlaceDetails{}
	}

	g.detailRequests.Add(1)
	cfg := g.retry
	cfg.OnRetry = resilience.RetryLogger("place details")
	resp, err := resilience.Do(ctx, cfg, func(ctx context.Context) (*google.PlaceDetailsResponse, error) {
		return g.client.PlaceDetails(ctx, placeID)
	})
	metrics.ObserveUpstream("details", statusLabel(err))
	if err != nil {
		g.detailFailures.Add(1)
		zap.L().Warn("place details failed", zap.String("place_id", placeID), zap.Error(err))
		return model.PlaceDetails{}
	}

	return model.PlaceDetails{
		Website: resp.Result.Website,
		Phone:   resp.Result.FormattedPhoneNumber,
		Address: resp.Result.FormattedAddress,
	}
}

// Stats returns a snapshot of the request counters.
func (g *Gateway) Stats() Stats {
	return Stats{
		SearchRequests: g.searchRequests.Load(),
		SearchFailures: g.searchFailures.Load(),
		DetailRequests: g.detailRequests.Load(),
		DetailFailures: g.detailFailures.Load(),
		TokenWaits:     g.tokenWaits.Load(),
	}
}

func (g *Gateway) nearbySearch(ctx context.Context, req google.NearbySearchRequest) (*google.NearbySearchResponse, error) {
	g.searchRequests.Add(1)
	cfg := g.retry
	cfg.OnRetry = resilience.RetryLogger("nearby search")
	resp, err := resilience.Do(ctx, cfg, func(ctx context.Context) (*google.NearbySearchResponse, error) {
		return g.client.NearbySearch(ctx, req)
	})
	metrics.ObserveUpstream("nearbysearch", statusLabel(err))
	if err != nil {
		g.searchFailures.Add(1)
		return nil, err
	}
	return resp, nil
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var se *google.StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return "error"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
