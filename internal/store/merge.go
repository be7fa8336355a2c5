package store

import (
	"slices"
	"sort"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/metrics"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
)

// Merge combines persisted rows with this run's rows. When rows were
// persisted, rows sharing a (website, business_name) pair keep the first
// occurrence. The result is always ordered by lead score, highest first,
// ties keeping their order.
func Merge(existing, fresh []model.LeadRow) []model.LeadRow {
	if len(existing) == 0 {
		out := slices.Clone(fresh)
		sortByScore(out)
		return out
	}

	all := make([]model.LeadRow, 0, len(existing)+len(fresh))
	all = append(all, existing...)
	all = append(all, fresh...)

	seen := make(map[string]struct{}, len(all))
	out := all[:0]
	for _, row := range all {
		key := row.MergeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	metrics.ObserveDuplicate("store", len(all)-len(out))

	sortByScore(out)
	return out
}

func sortByScore(rows []model.LeadRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LeadScore > rows[j].LeadScore
	})
}
