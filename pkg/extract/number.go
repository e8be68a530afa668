package extract

import "strings"

// extractBillNumber recovers the document identifier. The full text is tried
// first with a slash requirement (real invoice numbers in the wild carry
// slash-separated segments, incidental numbers do not); the per-line pass
// over the first 30 lines relaxes that requirement.
func extractBillNumber(lines []string, fullText string) *string {
	for _, re := range numberPatterns {
		m := re.FindStringSubmatch(fullText)
		if m == nil {
			continue
		}
		if num, ok := validateBillNumber(m[1], true); ok {
			return ptr(num)
		}
	}

	for _, line := range headLines(lines, 30) {
		if containsAny(strings.ToLower(line), numberSkipKeywords) {
			continue
		}
		for _, re := range numberPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if num, ok := validateBillNumber(m[1], false); ok {
				return ptr(num)
			}
		}
	}
	return nil
}

func validateBillNumber(raw string, requireSlash bool) (string, bool) {
	num := strings.TrimSpace(numberNoiseRE.ReplaceAllString(strings.TrimSpace(raw), ""))
	if len(num) < 3 || len(num) >= 100 {
		return "", false
	}
	lower := strings.ToLower(num)
	if lower == "number" || lower == "no" {
		return "", false
	}
	if requireSlash && !strings.Contains(num, "/") {
		return "", false
	}
	return num, true
}
