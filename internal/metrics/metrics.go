// Package metrics exposes Prometheus collectors for the lead pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamRequestsTotal  *prometheus.CounterVec
	websiteFetchesTotal    *prometheus.CounterVec
	websiteFetchSeconds    prometheus.Histogram
	leadsEmittedTotal      prometheus.Counter
	duplicatesDroppedTotal *prometheus.CounterVec
	enrichActiveWorkers    prometheus.Gauge
	paginationDelaySeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		upstreamRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_upstream_requests_total",
				Help: "Total number of Places API requests, labeled by endpoint and status.",
			},
			[]string{"endpoint", "status"},
		)

		websiteFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_website_fetches_total",
				Help: "Total number of website analyses, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		websiteFetchSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leadgen_website_fetch_duration_seconds",
				Help:    "Histogram of website fetch latencies.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		leadsEmittedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "leadgen_leads_emitted_total",
				Help: "Total number of lead rows emitted.",
			},
		)

		duplicatesDroppedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_duplicates_dropped_total",
				Help: "Total number of records dropped as duplicates, labeled by layer.",
			},
			[]string{"layer"},
		)

		enrichActiveWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "leadgen_enrich_active_workers",
				Help: "Number of workers currently analyzing a website.",
			},
		)

		paginationDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leadgen_pagination_delay_seconds",
				Help:    "Histogram of waits before reusing a continuation token.",
				Buckets: []float64{0.5, 1, 2, 3, 5, 10},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveUpstream increments the upstream request counter.
func ObserveUpstream(endpoint, status string) {
	Init()
	upstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// ObserveWebsiteFetch records one website analysis.
func ObserveWebsiteFetch(outcome string, duration time.Duration) {
	Init()
	websiteFetchesTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		websiteFetchSeconds.Observe(duration.Seconds())
	}
}

// ObserveLeadsEmitted adds n emitted rows.
func ObserveLeadsEmitted(n int) {
	Init()
	leadsEmittedTotal.Add(float64(n))
}

// ObserveDuplicate increments the duplicate counter for a dedup layer
// ("batch", "claim" or "store").
func ObserveDuplicate(layer string, n int) {
	Init()
	duplicatesDroppedTotal.WithLabelValues(layer).Add(float64(n))
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	enrichActiveWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	enrichActiveWorkers.Dec()
}

// ObservePaginationDelay records the wait before a continuation request.
func ObservePaginationDelay(d time.Duration) {
	Init()
	paginationDelaySeconds.Observe(d.Seconds())
}
