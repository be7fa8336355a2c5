// Package scorer computes the lead score: higher means weaker digital presence.
package scorer

import (
	"math"
	"strconv"
	"strings"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
)

// Score weights. A business without a website scores NoWebsite and nothing
// else is added.
const (
	NoWebsite       = 10
	NoHTTPS         = 5
	NoViewport      = 3
	ShortPage       = 3
	NoEmail         = 2
	NoCallToAction  = 2
	LowRating       = 1
	FewReviews      = 1
	MaxScore        = NoHTTPS + NoViewport + ShortPage + NoEmail + NoCallToAction + LowRating + FewReviews
	ShortPageLength = 5000
	RatingThreshold = 4.5
	ReviewThreshold = 15
)

// Signals is the scorer input. Nil pointers mean the value is unknown.
type Signals struct {
	HasWebsite      bool
	UsesHTTPS       bool
	HasViewport     bool
	PageLength      *int
	Emails          []string
	HasCallToAction bool
	Rating          *float64
	ReviewCount     *int
}

// Score maps signals to an integer lead score. Unknown page length, rating
// and review count score the same as values below their thresholds.
func Score(s Signals) int {
	if !s.HasWebsite {
		return NoWebsite
	}

	score := 0
	if !s.UsesHTTPS {
		score += NoHTTPS
	}
	if !s.HasViewport {
		score += NoViewport
	}
	if s.PageLength == nil || *s.PageLength < ShortPageLength {
		score += ShortPage
	}
	if len(s.Emails) == 0 {
		score += NoEmail
	}
	if !s.HasCallToAction {
		score += NoCallToAction
	}
	if s.Rating == nil || *s.Rating < RatingThreshold {
		score += LowRating
	}
	if s.ReviewCount == nil || *s.ReviewCount < ReviewThreshold {
		score += FewReviews
	}
	return score
}

// SignalsFor builds the scorer input for a business and its analysis. A
// page that was never fetched has unknown length.
func SignalsFor(b model.EnrichedBusiness, a model.WebsiteAnalysis) Signals {
	s := Signals{
		HasWebsite:      b.HasWebsite(),
		UsesHTTPS:       a.UsesHTTPS,
		HasViewport:     a.HasViewport,
		Emails:          a.Emails,
		HasCallToAction: a.HasCallToAction,
		Rating:          b.Rating,
		ReviewCount:     b.ReviewCount,
	}
	if a.Fetched() {
		n := a.PageLength
		s.PageLength = &n
	}
	return s
}

// ParseRating parses a rating, returning nil for blank, malformed or
// non-finite text such as "nan".
func ParseRating(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseReviewCount parses a review count, returning nil for blank or
// malformed text. Integral floats such as "12.0" are accepted.
func ParseReviewCount(raw string) *int {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.Atoi(raw); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != float64(int(f)) {
		return nil
	}
	v := int(f)
	return &v
}
