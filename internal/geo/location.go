// Package geo parses and formats the search center used for nearby search.
package geo

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// SRID of WGS84 lat/lng coordinates.
const SRID = 4326

// ParseLocation parses a "lat,lng" string into a WGS84 point (X = lng, Y = lat).
func ParseLocation(s string) (*geom.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, eris.Errorf("geo: location %q must be \"lat,lng\"", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: parse latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: parse longitude %q", parts[1])
	}

	if lat < -90 || lat > 90 {
		return nil, eris.Errorf("geo: latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return nil, eris.Errorf("geo: longitude %v out of range", lng)
	}

	return geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(SRID), nil
}

// FormatLocation renders a point back to the "lat,lng" query form.
func FormatLocation(p *geom.Point) string {
	return strconv.FormatFloat(p.Y(), 'f', -1, 64) + "," + strconv.FormatFloat(p.X(), 'f', -1, 64)
}

// NormalizeLocation validates s and returns its canonical "lat,lng" form.
func NormalizeLocation(s string) (string, error) {
	p, err := ParseLocation(s)
	if err != nil {
		return "", err
	}
	return FormatLocation(p), nil
}
