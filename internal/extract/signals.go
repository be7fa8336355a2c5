package extract

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

	// CallToActionKeywords are matched as substrings of the visible text.
	CallToActionKeywords = []string{"call", "contact", "quote", "estimate"}
)

// PageSignals are the structural signals of one page.
type PageSignals struct {
	HasTitle        bool
	HasViewport     bool
	HasCallToAction bool
	Length          int
}

// ExtractEmails returns the sorted, deduplicated email addresses in html.
// Matches ending in an image extension are dropped.
func ExtractEmails(html string) []string {
	seen := make(map[string]struct{})
	for _, m := range emailRe.FindAllString(html, -1) {
		e := strings.ToLower(m)
		if hasImageSuffix(e) {
			continue
		}
		e = strings.ReplaceAll(e, "mailto:", "")
		seen[e] = struct{}{}
	}
	return sortedKeys(seen)
}

// ExtractPhones returns the sorted, deduplicated North American numbers in
// html, formatted as "(+1) NNN-NNN-NNNN".
func ExtractPhones(html string) []string {
	seen := make(map[string]struct{})
	for _, loc := range phoneRe.FindAllStringIndex(html, -1) {
		// A match inside a longer digit run is part of some other number.
		if isDigitAt(html, loc[0]-1) || isDigitAt(html, loc[1]) {
			continue
		}
		if p, ok := NormalizePhone(html[loc[0]:loc[1]]); ok {
			seen[p] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// NormalizePhone strips non-digits and formats a 10-digit number. An 11-digit
// number with a leading country code 1 is accepted.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return fmt.Sprintf("(+1) %s-%s-%s", digits[0:3], digits[3:6], digits[6:10]), true
}

// ParsePage extracts the structural signals from html. Unparseable markup
// still reports its length.
func ParsePage(html string) PageSignals {
	sig := PageSignals{Length: utf8.RuneCountInString(html)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return sig
	}

	sig.HasTitle = strings.TrimSpace(doc.Find("title").First().Text()) != ""

	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if strings.EqualFold(strings.TrimSpace(name), "viewport") {
			sig.HasViewport = true
			return false
		}
		return true
	})

	doc.Find("script, style, noscript").Remove()
	text := cases.Lower(language.Und).String(visibleText(doc))
	for _, kw := range CallToActionKeywords {
		if strings.Contains(text, kw) {
			sig.HasCallToAction = true
			break
		}
	}

	return sig
}

// visibleText joins the document's text nodes with spaces so adjacent
// elements do not run together.
func visibleText(doc *goquery.Document) string {
	var parts []string
	doc.Find("*").Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			parts = append(parts, s.Text())
		}
	})
	return strings.Join(parts, " ")
}

func isDigitAt(s string, i int) bool {
	return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9'
}

func hasImageSuffix(s string) bool {
	for _, ext := range imageSuffixes {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
