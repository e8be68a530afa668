package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// extractAmounts fills subtotal, tax, total and total_net from the lines,
// scanning bottom-up because totals conventionally sit at the end of a bill.
// A category is filled at most once; later, less specific patterns never
// overwrite it. Lines containing "net" or "amt payable" are excluded from
// the generic total category so it cannot clobber the net-amount match.
func extractAmounts(lines []string, s *Suggestions) {
	cats := []struct {
		slot     **string
		patterns []*regexp.Regexp
		exclude  []string
	}{
		{&s.Total, totalPatterns, []string{"net", "amt payable"}},
		{&s.TotalNet, totalNetPatterns, nil},
		{&s.Subtotal, subtotalPatterns, nil},
		{&s.Tax, taxPatterns, nil},
	}

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.ToLower(strings.TrimSpace(lines[i]))
		if line == "" || containsAny(line, amountSkipKeywords) {
			continue
		}
		for _, cat := range cats {
			if *cat.slot != nil {
				continue
			}
			if len(cat.exclude) > 0 && containsAny(line, cat.exclude) {
				continue
			}
			for _, re := range cat.patterns {
				m := re.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				amount := strings.ReplaceAll(m[1], ",", "")
				if v, err := strconv.ParseFloat(amount, 64); err == nil && v > 0 {
					*cat.slot = ptr(amount)
					break
				}
			}
		}
	}
}

// amountFromText pulls the largest numeral out of a token's text, used by
// the spatial amount scan where label and value share one token.
func amountFromText(text string) *string {
	if text == "" {
		return nil
	}
	flat := strings.ReplaceAll(text, ",", "")
	best := 0.0
	found := false
	for _, m := range amountNumberRE.FindAllStringSubmatch(flat, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	if !found {
		return nil
	}
	return ptr(formatAmount(best))
}
