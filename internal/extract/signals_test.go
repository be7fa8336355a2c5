package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	html := `<a href="mailto:Sales@Example.com">Sales@Example.com</a>
		<p>support@example.com, info@shop.example.org</p>
		<img src="logo@2x.png"> <img src="hero@3x.JPG">
		<span>support@example.com</span>`

	got := ExtractEmails(html)
	assert.Equal(t, []string{"info@shop.example.org", "sales@example.com", "support@example.com"}, got)
}

func TestExtractEmails_IdempotentAndSorted(t *testing.T) {
	html := `z@b.com a@b.com m@b.com a@b.com`
	first := ExtractEmails(html)
	second := ExtractEmails(html)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a@b.com", "m@b.com", "z@b.com"}, first)
}

func TestExtractEmails_None(t *testing.T) {
	got := ExtractEmails("<p>no contact here</p>")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractPhones_CanonicalForm(t *testing.T) {
	for _, in := range []string{"555-123-4567", "(555) 123-4567", "+1 555.123.4567"} {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, []string{"(+1) 555-123-4567"}, ExtractPhones(in))
		})
	}
}

func TestExtractPhones_DedupesAndSorts(t *testing.T) {
	html := `Call 1-800-555-0199 or (215) 555 0100. Office: 215.555.0100`
	assert.Equal(t, []string{"(+1) 215-555-0100", "(+1) 800-555-0199"}, ExtractPhones(html))
}

func TestExtractPhones_IgnoresLongDigitRuns(t *testing.T) {
	assert.Empty(t, ExtractPhones(`order #12345678901234`))
	assert.Empty(t, ExtractPhones(`sku 2155550100123`))
	assert.Equal(t, []string{"(+1) 215-555-0100", "(+1) 215-555-0101"},
		ExtractPhones(`tel:215-555-0100,215-555-0101 (order #12345678901234)`))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"5551234567", "(+1) 555-123-4567", true},
		{"15551234567", "(+1) 555-123-4567", true},
		{"25551234567", "", false},
		{"555-1234", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizePhone(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParsePage(t *testing.T) {
	html := `<html><head>
		<title>Green Lawns</title>
		<META NAME="Viewport" content="width=device-width">
		<script>var call = 1;</script>
	</head><body><h1>Lawn care</h1><p>Get a free QUOTE today</p></body></html>`

	sig := ParsePage(html)
	assert.True(t, sig.HasTitle)
	assert.True(t, sig.HasViewport)
	assert.True(t, sig.HasCallToAction)
	assert.Equal(t, len([]rune(html)), sig.Length)
}

func TestParsePage_Negative(t *testing.T) {
	html := `<html><head><title>   </title><style>.contact{}</style>
		<script>call()</script></head><body><p>Lawn care since 1990</p></body></html>`

	sig := ParsePage(html)
	assert.False(t, sig.HasTitle)
	assert.False(t, sig.HasViewport)
	assert.False(t, sig.HasCallToAction)
}

func TestParsePage_LengthCountsCharacters(t *testing.T) {
	html := strings.Repeat("é", 10)
	assert.Equal(t, 10, ParsePage(html).Length)
}
