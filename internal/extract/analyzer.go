// Package extract fetches a business website once and pulls contact and
// quality signals out of the page.
package extract

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/metrics"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
)

// NormalizeURL gives a schemeless website an explicit scheme. Protocol
// relative URLs become https, bare hosts become http.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if !strings.Contains(raw, "://") {
		return "http://" + raw
	}
	return raw
}

// Analyzer produces a WebsiteAnalysis from a single page fetch.
type Analyzer struct {
	fetcher Fetcher
}

// NewAnalyzer creates an Analyzer over f.
func NewAnalyzer(f Fetcher) *Analyzer {
	return &Analyzer{fetcher: f}
}

// Analyze fetches rawURL and extracts its signals. Failures are reported in
// the returned analysis, never as an error.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) model.WebsiteAnalysis {
	target := NormalizeURL(rawURL)
	if target == "" {
		return model.DefaultAnalysis(model.OutcomeNoWebsite, nil)
	}

	usesHTTPS := strings.HasPrefix(strings.ToLower(target), "https://")

	start := time.Now()
	page, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		metrics.ObserveWebsiteFetch(string(model.OutcomeFetchFailed), time.Since(start))
		zap.L().Warn("website fetch failed", zap.String("url", target), zap.Error(err))

		res := model.DefaultAnalysis(model.OutcomeFetchFailed, err)
		res.URL = target
		res.UsesHTTPS = usesHTTPS
		return res
	}
	metrics.ObserveWebsiteFetch(string(model.OutcomeAnalyzed), time.Since(start))

	html := string(page.Body)
	sig := ParsePage(html)

	return model.WebsiteAnalysis{
		Outcome:         model.OutcomeAnalyzed,
		URL:             target,
		Emails:          ExtractEmails(html),
		Phones:          ExtractPhones(html),
		UsesHTTPS:       usesHTTPS,
		HasViewport:     sig.HasViewport,
		HasTitle:        sig.HasTitle,
		HasCallToAction: sig.HasCallToAction,
		PageLength:      sig.Length,
	}
}
