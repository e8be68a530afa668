package extract

import "testing"

func TestFindNearLabelPrefersRightOrBelow(t *testing.T) {
	label := Token{Text: "Invoice No:", Box: box(500, 100, 100, 20)}

	// Candidate to the left of the label center is never a value.
	left := Token{Text: "INV/1", Box: box(380, 100, 60, 20)}
	if got := findNearLabel([]Token{label, left}, numberLabelPatterns, 150); got != "" {
		t.Fatalf("left-side candidate accepted: %q", got)
	}

	right := Token{Text: "INV/2", Box: box(620, 100, 60, 20)}
	if got := findNearLabel([]Token{label, right}, numberLabelPatterns, 150); got != "INV/2" {
		t.Fatalf("expected INV/2 got %q", got)
	}

	// Directly below with a small horizontal offset also counts.
	below := Token{Text: "INV/3", Box: box(520, 180, 60, 20)}
	if got := findNearLabel([]Token{label, below}, numberLabelPatterns, 150); got != "INV/3" {
		t.Fatalf("expected INV/3 got %q", got)
	}
}

func TestFindNearLabelDistanceCap(t *testing.T) {
	tokens := []Token{
		{Text: "Invoice No:", Box: box(0, 0, 100, 20)},
		{Text: "INV/9", Box: box(400, 0, 60, 20)},
	}
	if got := findNearLabel(tokens, numberLabelPatterns, 150); got != "" {
		t.Fatalf("candidate beyond the distance cap accepted: %q", got)
	}
	if got := findNearLabel(tokens, numberLabelPatterns, 500); got != "INV/9" {
		t.Fatalf("expected INV/9 under a wider cap, got %q", got)
	}
}

func TestSpatialAmountsBottomOfPage(t *testing.T) {
	tokens := []Token{
		{Text: "Tax 87.50", Top: 860},
		{Text: "Total 902.50", Top: 880},
		{Text: "NNet Amt Payable 815.00", Top: 900},
	}
	var s Suggestions
	spatialAmounts(tokens, &s)
	if str(s.TotalNet) != "815.0" {
		t.Fatalf("total_net: got %s", str(s.TotalNet))
	}
	if str(s.Total) != "902.5" {
		t.Fatalf("total: got %s", str(s.Total))
	}
	if str(s.Tax) != "87.5" {
		t.Fatalf("tax: got %s", str(s.Tax))
	}
}
