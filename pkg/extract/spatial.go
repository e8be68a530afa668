package extract

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// findNearLabel locates a token whose text matches one of the label patterns
// and returns the text of the nearest token that sits where a value would be
// printed: to the right of the label, or below it with only a small
// horizontal offset. Distance is Euclidean between top-left corners, capped
// at maxDist pixels. Returns "" when no label or no candidate qualifies.
func findNearLabel(tokens []Token, labels []*regexp.Regexp, maxDist float64) string {
	sorted := sortByPosition(tokens)

	for li, lab := range sorted {
		matched := false
		for _, re := range labels {
			if re.MatchString(lab.Text) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		best := ""
		bestDist := maxDist
		for ci, cand := range sorted {
			if ci == li || strings.TrimSpace(cand.Text) == "" {
				continue
			}
			dx := math.Abs(cand.Left - lab.Left)
			dy := math.Abs(cand.Top - lab.Top)
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist >= bestDist {
				continue
			}
			rightOf := cand.Left > lab.CenterX
			below := cand.Top > lab.CenterY && dx < 100
			if rightOf || below {
				best = cand.Text
				bestDist = dist
			}
		}
		if best != "" {
			return best
		}
	}
	return ""
}

// spatialAmounts reads the amount categories off the bottom of the page,
// where totals are printed. The thirty lowest tokens are inspected top-down
// from the bottom; each category keeps its first hit. The generic total
// skips net-amount tokens so the two categories stay disjoint.
func spatialAmounts(tokens []Token, s *Suggestions) {
	if len(tokens) == 0 {
		return
	}
	bottom := make([]Token, len(tokens))
	copy(bottom, tokens)
	sort.SliceStable(bottom, func(i, j int) bool { return bottom[i].Top > bottom[j].Top })
	if len(bottom) > 30 {
		bottom = bottom[:30]
	}

	for _, tok := range bottom {
		lower := strings.ToLower(tok.Text)
		switch {
		case s.TotalNet == nil && (netPayableRE.MatchString(tok.Text) || strings.Contains(lower, "net amt") || strings.Contains(lower, "net amount")):
			s.TotalNet = amountFromText(tok.Text)
		case s.Total == nil && strings.Contains(lower, "total") &&
			!strings.Contains(lower, "net") && !strings.Contains(lower, "amt payable") &&
			!strings.Contains(lower, "tax") && !strings.Contains(lower, "sub total"):
			s.Total = amountFromText(tok.Text)
		case s.Subtotal == nil && (strings.Contains(lower, "subtotal") || strings.Contains(lower, "sub total") || strings.Contains(lower, "taxable")):
			s.Subtotal = amountFromText(tok.Text)
		case s.Tax == nil && (strings.Contains(lower, "tax") || strings.Contains(lower, "gst") || strings.Contains(lower, "vat")):
			s.Tax = amountFromText(tok.Text)
		}
	}
}
