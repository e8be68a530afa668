package extract

import (
	"strconv"
	"strings"
)

// cleanText collapses runs of whitespace and strips characters OCR engines
// hallucinate around values.
func cleanText(s string) string {
	s = artifactRE.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatAmount renders an amount the way the review UI expects: shortest
// decimal form, always with a fractional part ("815.0", "87.5", "103.25").
func formatAmount(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// finalize normalizes every populated field in place. spatialNumber reports
// whether the bill number came from the bounding-box pass; only those values
// get the O/0 and I/1 digit-confusion fixes, since a number that already
// passed a structural regex should keep its letters.
func finalize(s *Suggestions, spatialNumber bool) {
	if s.BillNumber != nil {
		num := cleanText(*s.BillNumber)
		if spatialNumber {
			num = zeroConfusionRE.ReplaceAllString(num, "0")
			num = oneConfusionRE.ReplaceAllString(num, "1")
		}
		setOrClear(&s.BillNumber, num, 3)
	}

	if s.VendorName != nil {
		setOrClear(&s.VendorName, cleanText(*s.VendorName), 3)
	}

	for _, f := range []**string{&s.BilledToName, &s.ShippedToName} {
		if *f == nil {
			continue
		}
		name := cleanText(**f)
		name = strings.TrimSpace(corporateTailRE.ReplaceAllString(name, ""))
		name = strings.TrimSpace(trailingDigitsRE.ReplaceAllString(name, ""))
		setOrClear(f, capitalizeWords(name), 3)
	}

	if s.DeliveryRecipient != nil {
		name := cleanText(*s.DeliveryRecipient)
		name = strings.TrimSpace(contactNoiseRE.ReplaceAllString(name, ""))
		setOrClear(&s.DeliveryRecipient, capitalizeWords(name), 3)
	}

	if s.Post != nil {
		post := cleanText(*s.Post)
		post = strings.TrimSpace(digitsRE.ReplaceAllString(post, ""))
		post = strings.TrimSpace(postOfficeRE.ReplaceAllString(post, ""))
		setOrClear(&s.Post, capitalizeWords(post), 3)
	}

	for _, f := range []**string{&s.Subtotal, &s.Tax, &s.Total, &s.TotalNet} {
		if *f == nil {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(**f), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			*f = nil
			continue
		}
		*f = ptr(formatAmount(v))
	}
}

// setOrClear keeps the value when it is still long enough after cleaning,
// otherwise drops the field entirely rather than suggest a fragment.
func setOrClear(f **string, v string, minLen int) {
	if len(v) >= minLen {
		*f = ptr(v)
	} else {
		*f = nil
	}
}
