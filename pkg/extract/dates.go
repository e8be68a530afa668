package extract

import (
	"strings"
	"time"
)

// Dates outside this window are treated as OCR misreads and rejected.
const (
	minYear = 2000
	maxYear = 2100
)

// matchDate tries one pattern set against a piece of text and returns the
// first candidate that parses under any of its layouts with an acceptable
// year, normalized to ISO YYYY-MM-DD.
func matchDate(patterns []datePattern, text string) *string {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cand := strings.TrimSpace(m[1])
		for _, layout := range p.layouts {
			t, err := time.Parse(layout, cand)
			if err != nil {
				continue
			}
			if t.Year() < minYear || t.Year() > maxYear {
				continue
			}
			return ptr(t.Format("2006-01-02"))
		}
	}
	return nil
}

// extractBillDate searches the full text first (catches "Invoice Date:"
// split across OCR lines), then the first 30 lines.
func extractBillDate(lines []string, fullText string) *string {
	if d := matchDate(billDatePatterns, fullText); d != nil {
		return d
	}
	for _, line := range headLines(lines, 30) {
		if containsAny(strings.ToLower(line), dateSkipKeywords) {
			continue
		}
		if d := matchDate(billDatePatterns, line); d != nil {
			return d
		}
	}
	return nil
}

// extractDeliveryDate scans the first 30 lines. Every pattern requires a
// delivery/ship keyword adjacent to the date, so a bare date can never
// satisfy this field.
func extractDeliveryDate(lines []string) *string {
	for _, line := range headLines(lines, 30) {
		if containsAny(strings.ToLower(line), dateSkipKeywords) {
			continue
		}
		if d := matchDate(deliveryDatePatterns, strings.ToLower(line)); d != nil {
			return d
		}
	}
	return nil
}
