package google

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Places API body-level status values.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// StatusError is a non-OK status reported in the response body.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("google: status %s", e.Status)
	}
	return fmt.Sprintf("google: status %s: %s", e.Status, e.Message)
}

// NearbySearchRequest is one nearby-search page request. When PageToken is
// set the other fields are ignored.
type NearbySearchRequest struct {
	Location  string // "lat,lng"
	Radius    int    // meters
	Keyword   string
	PageToken string
}

// NearbySearchResponse is one page of nearby-search results.
type NearbySearchResponse struct {
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	Results       []NearbyPlace `json:"results"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// NearbyPlace is a place in a nearby-search page.
type NearbyPlace struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Rating           OptionalFloat `json:"rating"`
	UserRatingsTotal OptionalInt   `json:"user_ratings_total"`
	Vicinity         string        `json:"vicinity,omitempty"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
}

// Address returns the vicinity, falling back to the formatted address.
func (p NearbyPlace) Address() string {
	if p.Vicinity != "" {
		return p.Vicinity
	}
	return p.FormattedAddress
}

// PlaceDetailsResponse is the place-details envelope.
type PlaceDetailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Result       PlaceDetails `json:"result"`
}

// PlaceDetails holds the requested detail fields.
type PlaceDetails struct {
	PlaceID              string `json:"place_id,omitempty"`
	Name                 string `json:"name,omitempty"`
	Website              string `json:"website,omitempty"`
	FormattedPhoneNumber string `json:"formatted_phone_number,omitempty"`
	FormattedAddress     string `json:"formatted_address,omitempty"`
}

// OptionalFloat decodes a JSON number or numeric string. Anything else,
// including null, leaves it unset instead of failing the whole response.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Ptr returns the value as a pointer, nil when unset.
func (o OptionalFloat) Ptr() *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	*o = OptionalFloat{}
	raw, ok := numericText(data)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*o = OptionalFloat{Value: v, Valid: true}
	return nil
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// OptionalInt is the integer counterpart of OptionalFloat.
type OptionalInt struct {
	Value int
	Valid bool
}

// Ptr returns the value as a pointer, nil when unset.
func (o OptionalInt) Ptr() *int {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}
	raw, ok := numericText(data)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return nil
		}
		v = int(f)
	}
	*o = OptionalInt{Value: v, Valid: true}
	return nil
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// numericText unwraps a JSON number or string literal.
func numericText(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	return string(data), true
}
