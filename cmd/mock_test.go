package main

import (
	"context"
	"sync"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
)

type fakeSource struct {
	candidates []model.CandidateBusiness
	calls      int
	onSearch   func()
}

func (f *fakeSource) Search(_ context.Context, _ string, _ int, _ []string) []model.CandidateBusiness {
	f.calls++
	if f.onSearch != nil {
		f.onSearch()
	}
	return f.candidates
}

type fakeDetails struct {
	byID map[string]model.PlaceDetails
}

func (f *fakeDetails) FetchDetails(_ context.Context, placeID string) model.PlaceDetails {
	return f.byID[placeID]
}

type fakeAnalyzer struct {
	mu      sync.Mutex
	fetched []string
	result  model.WebsiteAnalysis
}

func (f *fakeAnalyzer) Analyze(_ context.Context, url string) model.WebsiteAnalysis {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	a := f.result
	a.URL = url
	return a
}
