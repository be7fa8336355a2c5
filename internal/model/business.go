// Package model defines the records that flow through the lead enrichment pipeline.
package model

import "strings"

// CandidateBusiness is a business returned by the upstream nearby search.
type CandidateBusiness struct {
	PlaceID      string   `json:"place_id"`
	BusinessName string   `json:"business_name"`
	Address      string   `json:"address,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  *int     `json:"user_ratings_total,omitempty"`
}

// PlaceDetails holds the optional fields returned by the upstream detail call.
// The zero value means nothing could be fetched.
type PlaceDetails struct {
	Website string `json:"website,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// IsZero reports whether no detail field was populated.
func (d PlaceDetails) IsZero() bool {
	return d.Website == "" && d.Phone == "" && d.Address == ""
}

// EnrichedBusiness is a candidate merged with its place details.
type EnrichedBusiness struct {
	CandidateBusiness
	Website       string `json:"website,omitempty"`
	PhoneUpstream string `json:"phone_upstream,omitempty"`
	AddressDetail string `json:"address_detail,omitempty"`
}

// Enrich merges details into a candidate. The detail address, when present,
// replaces the search-result address.
func Enrich(c CandidateBusiness, d PlaceDetails) EnrichedBusiness {
	e := EnrichedBusiness{
		CandidateBusiness: c,
		Website:           strings.TrimSpace(d.Website),
		PhoneUpstream:     d.Phone,
		AddressDetail:     d.Address,
	}
	if d.Address != "" {
		e.Address = d.Address
	}
	return e
}

// HasWebsite reports whether the business has a website to analyze.
func (e EnrichedBusiness) HasWebsite() bool {
	return e.Website != ""
}

// DedupKey is the in-batch deduplication key: website, else business name.
func (e EnrichedBusiness) DedupKey() string {
	if e.Website != "" {
		return e.Website
	}
	return e.BusinessName
}
