package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestAnalysisOutcomeValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome AnalysisOutcome
		want    string
	}{
		{OutcomeAnalyzed, "analyzed"},
		{OutcomeNoWebsite, "no_website"},
		{OutcomeFetchFailed, "fetch_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.outcome))
		})
	}
}

func TestEnrich_DetailAddressWins(t *testing.T) {
	c := CandidateBusiness{PlaceID: "p1", BusinessName: "Green Lawns", Address: "12 Elm St"}

	e := Enrich(c, PlaceDetails{Website: " https://greenlawns.com ", Phone: "(215) 555-0100", Address: "12 Elm St, Philadelphia, PA"})
	assert.Equal(t, "https://greenlawns.com", e.Website)
	assert.Equal(t, "12 Elm St, Philadelphia, PA", e.Address)
	assert.Equal(t, "12 Elm St, Philadelphia, PA", e.AddressDetail)
	assert.Equal(t, "(215) 555-0100", e.PhoneUpstream)

	e = Enrich(c, PlaceDetails{})
	assert.Equal(t, "12 Elm St", e.Address)
	assert.False(t, e.HasWebsite())
}

func TestDedupKey(t *testing.T) {
	withSite := EnrichedBusiness{CandidateBusiness: CandidateBusiness{BusinessName: "A"}, Website: "a.com"}
	noSite := EnrichedBusiness{CandidateBusiness: CandidateBusiness{BusinessName: "B"}}

	assert.Equal(t, "a.com", withSite.DedupKey())
	assert.Equal(t, "B", noSite.DedupKey())
}

func TestDefaultAnalysis(t *testing.T) {
	a := DefaultAnalysis(OutcomeFetchFailed, errors.New("dial tcp: timeout"))
	assert.Equal(t, "dial tcp: timeout", a.FetchError)
	assert.Empty(t, a.Emails)
	assert.NotNil(t, a.Emails)
	assert.False(t, a.Fetched())

	a = DefaultAnalysis(OutcomeNoWebsite, nil)
	assert.Empty(t, a.FetchError)
}

func TestNewLeadRow(t *testing.T) {
	b := EnrichedBusiness{
		CandidateBusiness: CandidateBusiness{
			PlaceID:      "p1",
			BusinessName: "Sparkle Cleaning",
			Address:      "5 Main St",
			Rating:       ptr(4.8),
			ReviewCount:  ptr(120),
		},
		Website:       "sparkle.com",
		PhoneUpstream: "(215) 555-0199",
	}
	a := WebsiteAnalysis{
		Outcome:   OutcomeAnalyzed,
		Emails:    []string{"hi@sparkle.com", "jobs@sparkle.com"},
		Phones:    []string{"(+1) 215-555-0199"},
		UsesHTTPS: true,
	}

	row := NewLeadRow(b, a, 7)
	assert.Equal(t, "p1", row.PlaceID)
	assert.Equal(t, "hi@sparkle.com;jobs@sparkle.com", row.Email)
	assert.Equal(t, []string{"hi@sparkle.com", "jobs@sparkle.com"}, row.Emails())
	assert.Equal(t, []string{"(+1) 215-555-0199"}, row.WebsitePhones())
	assert.Equal(t, "analyzed", row.AnalysisStatus)
	assert.Equal(t, 7, row.LeadScore)
	assert.True(t, row.HTTPS)
	assert.Nil(t, LeadRow{}.Emails())
}

func TestMergeKey(t *testing.T) {
	a := LeadRow{Website: "a.com", BusinessName: "A"}
	b := LeadRow{Website: "a.comA", BusinessName: ""}
	assert.NotEqual(t, a.MergeKey(), b.MergeKey())
}
