// Package dedupe tracks which place IDs have already been exported.
package dedupe

import (
	"sync"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
)

// Filter is the set of claimed place IDs. It is seeded from the persisted
// store and only grows. All methods are safe for concurrent use.
type Filter struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// New returns an empty Filter.
func New() *Filter {
	return &Filter{ids: make(map[string]struct{})}
}

// Load seeds a Filter from previously exported rows. Blank IDs are ignored.
func Load(rows []model.LeadRow) *Filter {
	f := New()
	for _, r := range rows {
		if r.PlaceID != "" {
			f.ids[r.PlaceID] = struct{}{}
		}
	}
	return f
}

// TryClaim inserts placeID and reports true only if it was absent.
func (f *Filter) TryClaim(placeID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.ids[placeID]; ok {
		return false
	}
	f.ids[placeID] = struct{}{}
	return true
}

// Contains reports whether placeID has been claimed.
func (f *Filter) Contains(placeID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.ids[placeID]
	return ok
}

// Len returns the number of claimed IDs.
func (f *Filter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.ids)
}
