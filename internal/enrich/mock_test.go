package enrich

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
)

// mockDetails implements DetailFetcher for testing.
type mockDetails struct {
	details map[string]model.PlaceDetails
	calls   []string
}

func (m *mockDetails) FetchDetails(_ context.Context, placeID string) model.PlaceDetails {
	m.calls = append(m.calls, placeID)
	return m.details[placeID]
}

// mockAnalyzer implements WebsiteAnalyzer for testing.
type mockAnalyzer struct {
	mu       sync.Mutex
	results  map[string]model.WebsiteAnalysis
	panics   map[string]bool
	delay    time.Duration
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *mockAnalyzer) Analyze(_ context.Context, url string) model.WebsiteAnalysis {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.panics[url] {
		panic("parser exploded")
	}
	if a, ok := m.results[url]; ok {
		return a
	}
	return model.WebsiteAnalysis{
		Outcome: model.OutcomeAnalyzed,
		URL:     url,
		Emails:  []string{},
		Phones:  []string{},
	}
}

func (m *mockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
