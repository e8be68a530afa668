package extract

import "strings"

// Free-text name extraction. Each field tries up to three tiers, first match
// wins: label and value on one line, a bare label line followed by the value
// line, and (for the delivery recipient) a value line preceded by a bare
// label line.

func plausibleName(v string) bool {
	return len(v) > 2 && len(v) < 200
}

// nextLineValue validates a line used as the value for a label on the
// previous line: not pure digits/punctuation and not containing a date.
func nextLineValue(line string) bool {
	line = strings.TrimSpace(line)
	return plausibleName(line) && !pureDigitsRE.MatchString(line) && !isoDateRE.MatchString(line)
}

// extractVendorName picks the first plausible non-metadata line from the top
// of the document. Only the first line is ever inspected: the loop exits
// unconditionally after one iteration, mirroring the behavior reviewers have
// come to rely on (see DESIGN.md, open questions).
func extractVendorName(lines []string) *string {
	for _, raw := range headLines(lines, 10) {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)
		if len(line) > 3 && len(line) < 100 &&
			!pureDigitsRE.MatchString(line) &&
			!containsAny(lower, vendorSkipKeywords) &&
			!identLineRE.MatchString(line) &&
			!isoDateRE.MatchString(line) {
			return ptr(line)
		}
		break
	}
	return nil
}

func extractBilledTo(lines []string) *string {
	for i, line := range headLines(lines, 40) {
		lower := strings.ToLower(line)
		if containsAny(lower, nameSkipKeywords) {
			continue
		}
		for _, re := range billedToPatterns {
			m := re.FindStringSubmatch(lower)
			if m == nil {
				continue
			}
			name := strings.TrimSpace(nameNoiseRE.ReplaceAllString(strings.TrimSpace(m[1]), ""))
			if plausibleName(name) {
				return ptr(name)
			}
		}
		if strings.Contains(lower, "billed to") || strings.Contains(lower, "bill to") || strings.Contains(lower, "customer") {
			if i+1 < len(lines) && nextLineValue(lines[i+1]) {
				return ptr(strings.TrimSpace(lines[i+1]))
			}
		}
	}
	return nil
}

func extractShippedTo(lines []string, fullText string) *string {
	for _, re := range shippedToPatterns {
		m := re.FindStringSubmatch(fullText)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(nameNoiseRE.ReplaceAllString(strings.TrimSpace(m[1]), ""))
		if plausibleName(name) && !pureDigitsRE.MatchString(name) {
			return ptr(name)
		}
	}

	shipLabels := []string{"shipped to", "ship to", "delivery to", "deliver to", "consignee"}
	for i, line := range headLines(lines, 40) {
		lower := strings.ToLower(line)
		if containsAny(lower, nameSkipKeywords) {
			continue
		}
		for _, re := range shippedToPatterns {
			m := re.FindStringSubmatch(lower)
			if m == nil {
				continue
			}
			name := strings.TrimSpace(nameNoiseRE.ReplaceAllString(strings.TrimSpace(m[1]), ""))
			if plausibleName(name) {
				return ptr(name)
			}
		}
		if containsAny(lower, shipLabels) && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if nextLineValue(next) && !strings.Contains(strings.ToLower(next), "cust code") {
				return ptr(next)
			}
		}
	}
	return nil
}

func extractDeliveryRecipient(lines []string, fullText string) *string {
	for _, re := range drPatterns {
		m := re.FindStringSubmatch(fullText)
		if m == nil {
			continue
		}
		if name, ok := cleanDRName(m[1]); ok {
			return ptr(name)
		}
	}

	for i, line := range headLines(lines, 50) {
		lower := strings.ToLower(strings.TrimSpace(line))
		if containsAny(lower, nameSkipKeywords) {
			continue
		}
		// Bare "DR:" label, value on the next line.
		if drContactLineRE.MatchString(line) && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if nextLineValue(next) && hasLettersRE.MatchString(next) &&
				!strings.Contains(strings.ToLower(next), "contact") {
				return ptr(next)
			}
			continue
		}
		for _, re := range drPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if name, ok := cleanDRName(m[1]); ok {
				return ptr(name)
			}
		}
		// Reverse form: value line directly below a bare label line.
		if i > 0 && drContactLineRE.MatchString(strings.TrimSpace(lines[i-1])) {
			val := strings.TrimSpace(line)
			if plausibleName(val) && !pureDigitsRE.MatchString(val) &&
				hasLettersRE.MatchString(val) && !strings.Contains(lower, "contact") {
				return ptr(val)
			}
		}
	}
	return nil
}

func cleanDRName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	name = strings.TrimSpace(drPrefixRE.ReplaceAllString(name, ""))
	name = strings.TrimSpace(contactNoiseRE.ReplaceAllString(name, ""))
	if plausibleName(name) && hasLettersRE.MatchString(name) {
		return name, true
	}
	return "", false
}

func extractPost(lines []string) *string {
	for i, line := range headLines(lines, 50) {
		lower := strings.ToLower(line)
		if containsAny(lower, nameSkipKeywords) {
			continue
		}
		for _, re := range postPatterns {
			m := re.FindStringSubmatch(lower)
			if m == nil {
				continue
			}
			post := strings.TrimSpace(postNoiseRE.ReplaceAllString(strings.TrimSpace(m[1]), ""))
			if len(post) > 2 && len(post) < 100 {
				return ptr(post)
			}
		}
		if strings.Contains(lower, "post") && (strings.Contains(lower, "office") || strings.Contains(lower, "postal")) {
			if i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if len(next) > 2 && len(next) < 100 && lettersOnlyRE.MatchString(next) {
					return ptr(next)
				}
			}
		}
	}
	return nil
}
