// Package extract recovers structured billing fields from noisy OCR output.
// The entry point is Extract: plain recognized text plus, optionally, word
// tokens with bounding boxes. Every field is best-effort; extraction never
// fails, a field that cannot be recovered is simply left nil.
package extract

import "strings"

// Extract runs the full pipeline over one document. When tokens are present
// the spatial label-proximity pass runs first and regex extraction only
// fills the fields it left empty; without tokens the regex pass does all the
// work. Whitespace-only text yields an empty record.
func Extract(text string, tokens []Token) Suggestions {
	var s Suggestions
	if strings.TrimSpace(text) == "" {
		return s
	}

	lines := splitLines(text)
	fullText := strings.ToLower(text)

	spatialNumber := false
	if len(tokens) > 0 {
		if v := findNearLabel(tokens, numberLabelPatterns, 150); v != "" {
			s.BillNumber = ptr(v)
			spatialNumber = true
		}
		if v := findNearLabel(tokens, drLabelPatterns, 200); v != "" {
			s.DeliveryRecipient = ptr(v)
		}
		if v := findNearLabel(tokens, billedToLabelPatterns, 200); v != "" {
			s.BilledToName = ptr(v)
		}
		if v := findNearLabel(tokens, shippedToLabelPatterns, 200); v != "" {
			s.ShippedToName = ptr(v)
		}
		if v := findNearLabel(tokens, postLabelPatterns, 150); v != "" {
			s.Post = ptr(v)
		}
		spatialAmounts(tokens, &s)
	}

	if s.BillNumber == nil {
		s.BillNumber = extractBillNumber(lines, fullText)
	}
	if s.BillDate == nil {
		s.BillDate = extractBillDate(lines, fullText)
	}
	if s.DeliveryDate == nil {
		s.DeliveryDate = extractDeliveryDate(lines)
	}
	extractAmounts(lines, &s)
	if s.VendorName == nil {
		s.VendorName = extractVendorName(lines)
	}
	if s.BilledToName == nil {
		s.BilledToName = extractBilledTo(lines)
	}
	if s.ShippedToName == nil {
		s.ShippedToName = extractShippedTo(lines, fullText)
	}
	if s.DeliveryRecipient == nil {
		s.DeliveryRecipient = extractDeliveryRecipient(lines, fullText)
	}
	if s.Post == nil {
		s.Post = extractPost(lines)
	}

	finalize(&s, spatialNumber)
	return s
}
