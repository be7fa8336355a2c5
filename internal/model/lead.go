package model

import "strings"

// listSeparator joins multi-valued columns in the persisted store.
const listSeparator = ";"

// LeadRow is one persisted output record.
type LeadRow struct {
	PlaceID         string   `csv:"place_id" json:"place_id"`
	BusinessName    string   `csv:"business_name" json:"business_name"`
	Address         string   `csv:"address" json:"address"`
	PhoneGoogle     string   `csv:"phone_google" json:"phone_google"`
	PhoneWebsite    string   `csv:"phone_website" json:"phone_website"`
	Email           string   `csv:"email" json:"email"`
	Website         string   `csv:"website" json:"website"`
	Rating          *float64 `csv:"rating,omitempty" json:"rating,omitempty"`
	ReviewCount     *int     `csv:"user_ratings_total,omitempty" json:"user_ratings_total,omitempty"`
	HTTPS           bool     `csv:"https" json:"https"`
	HasViewport     bool     `csv:"has_viewport" json:"has_viewport"`
	HasTitle        bool     `csv:"has_title" json:"has_title"`
	HasCallToAction bool     `csv:"has_cta" json:"has_cta"`
	HTMLLength      int      `csv:"html_length" json:"html_length"`
	AnalysisStatus  string   `csv:"analysis_status" json:"analysis_status"`
	LeadScore       int      `csv:"lead_score" json:"lead_score"`
}

// NewLeadRow assembles the output record for a business.
func NewLeadRow(b EnrichedBusiness, a WebsiteAnalysis, score int) LeadRow {
	return LeadRow{
		PlaceID:         b.PlaceID,
		BusinessName:    b.BusinessName,
		Address:         b.Address,
		PhoneGoogle:     b.PhoneUpstream,
		PhoneWebsite:    strings.Join(a.Phones, listSeparator),
		Email:           strings.Join(a.Emails, listSeparator),
		Website:         b.Website,
		Rating:          b.Rating,
		ReviewCount:     b.ReviewCount,
		HTTPS:           a.UsesHTTPS,
		HasViewport:     a.HasViewport,
		HasTitle:        a.HasTitle,
		HasCallToAction: a.HasCallToAction,
		HTMLLength:      a.PageLength,
		AnalysisStatus:  string(a.Outcome),
		LeadScore:       score,
	}
}

// Emails splits the persisted email column.
func (r LeadRow) Emails() []string {
	return splitList(r.Email)
}

// WebsitePhones splits the persisted website phone column.
func (r LeadRow) WebsitePhones() []string {
	return splitList(r.PhoneWebsite)
}

// MergeKey is the secondary key used when merging with a persisted store.
func (r LeadRow) MergeKey() string {
	return r.Website + "\x00" + r.BusinessName
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}
