package extract

import "testing"

func TestFullTextNumberRequiresSlash(t *testing.T) {
	// Whole-document matching only accepts slash-separated identifiers;
	// anything else must come from the per-line pass.
	if n := extractBillNumber(nil, "ref ord-2023-78912 thanks"); n != nil {
		t.Fatalf("slash-free full-text match accepted: %s", *n)
	}
	if n := extractBillNumber(nil, "invoice no: 1/25-26/014013"); str(n) != "1/25-26/014013" {
		t.Fatalf("got %s", str(n))
	}
}

func TestLineNumberKeepsCase(t *testing.T) {
	n := extractBillNumber([]string{"ORD-2023-78912"}, "ord-2023-78912")
	if str(n) != "ORD-2023-78912" {
		t.Fatalf("got %s", str(n))
	}
}

func TestValidateBillNumberRejectsLabelsAndFragments(t *testing.T) {
	if _, ok := validateBillNumber("number", false); ok {
		t.Fatalf("bare label accepted")
	}
	if _, ok := validateBillNumber("ab", false); ok {
		t.Fatalf("two-char fragment accepted")
	}
	if num, ok := validateBillNumber("INV/42 GST 32AABCU9603R1ZN", false); !ok || num != "INV/42" {
		t.Fatalf("noise not stripped: %q ok=%v", num, ok)
	}
}
