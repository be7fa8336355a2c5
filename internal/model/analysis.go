package model

// AnalysisOutcome tags how a WebsiteAnalysis was produced.
type AnalysisOutcome string

const (
	// OutcomeAnalyzed means the page was fetched and its signals extracted.
	OutcomeAnalyzed AnalysisOutcome = "analyzed"
	// OutcomeNoWebsite means the business has no website.
	OutcomeNoWebsite AnalysisOutcome = "no_website"
	// OutcomeFetchFailed means the page could not be fetched or analyzed.
	OutcomeFetchFailed AnalysisOutcome = "fetch_failed"
)

// WebsiteAnalysis holds the contact and quality signals of one fetched page.
type WebsiteAnalysis struct {
	Outcome         AnalysisOutcome `json:"outcome"`
	URL             string          `json:"url,omitempty"`
	Emails          []string        `json:"emails"`
	Phones          []string        `json:"phones"`
	UsesHTTPS       bool            `json:"uses_https"`
	HasViewport     bool            `json:"has_viewport"`
	HasTitle        bool            `json:"has_title"`
	HasCallToAction bool            `json:"has_call_to_action"`
	PageLength      int             `json:"page_length"`
	FetchError      string          `json:"fetch_error,omitempty"`
}

// DefaultAnalysis returns the all-false/empty analysis used when no page
// could be analyzed. A non-nil err is recorded as the fetch error.
func DefaultAnalysis(outcome AnalysisOutcome, err error) WebsiteAnalysis {
	a := WebsiteAnalysis{
		Outcome: outcome,
		Emails:  []string{},
		Phones:  []string{},
	}
	if err != nil {
		a.FetchError = err.Error()
	}
	return a
}

// Fetched reports whether a page body was actually analyzed.
func (a WebsiteAnalysis) Fetched() bool {
	return a.Outcome == OutcomeAnalyzed
}
