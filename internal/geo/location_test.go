package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	p, err := ParseLocation("39.9526,-75.1652")
	require.NoError(t, err)
	assert.InDelta(t, 39.9526, p.Y(), 1e-9)
	assert.InDelta(t, -75.1652, p.X(), 1e-9)
	assert.Equal(t, SRID, p.SRID())
}

func TestParseLocation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"empty", "", "must be"},
		{"single value", "39.95", "must be"},
		{"three values", "1,2,3", "must be"},
		{"bad latitude", "north,-75.1", "latitude"},
		{"bad longitude", "39.9,west", "longitude"},
		{"latitude range", "95,10", "out of range"},
		{"longitude range", "10,-181", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLocation(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	got, err := NormalizeLocation(" 39.8027 , -74.9838 ")
	require.NoError(t, err)
	assert.Equal(t, "39.8027,-74.9838", got)
}
