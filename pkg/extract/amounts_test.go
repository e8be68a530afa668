package extract

import "testing"

func TestAmountCategoriesStayDisjoint(t *testing.T) {
	var s Suggestions
	extractAmounts([]string{"Total: 1,000.00", "NNet Amt Payable: 815.00"}, &s)
	if str(s.Total) != "1000.00" {
		t.Fatalf("total: got %s", str(s.Total))
	}
	if str(s.TotalNet) != "815.00" {
		t.Fatalf("total_net: got %s", str(s.TotalNet))
	}
}

func TestNetLineNeverFillsTotal(t *testing.T) {
	var s Suggestions
	extractAmounts([]string{"NNet Amt Payable: 815.00"}, &s)
	if s.Total != nil {
		t.Fatalf("total should stay nil, got %s", *s.Total)
	}
	if str(s.TotalNet) != "815.00" {
		t.Fatalf("total_net: got %s", str(s.TotalNet))
	}
}

func TestZeroAmountsRejected(t *testing.T) {
	var s Suggestions
	extractAmounts([]string{"Sub Total: 0.00", "Total: 0"}, &s)
	if s.Subtotal != nil || s.Total != nil {
		t.Fatalf("zero amounts must be dropped: subtotal=%s total=%s", str(s.Subtotal), str(s.Total))
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{815: "815.0", 87.5: "87.5", 103.25: "103.25", 1000: "1000.0"}
	for in, want := range cases {
		if got := formatAmount(in); got != want {
			t.Fatalf("formatAmount(%v) = %s want %s", in, got, want)
		}
	}
}

func TestAmountFromTextPicksLargestNumeral(t *testing.T) {
	got := amountFromText("Total 5 items Rs 902.50")
	if str(got) != "902.5" {
		t.Fatalf("expected 902.5 got %s", str(got))
	}
	if amountFromText("no numerals here") != nil {
		t.Fatalf("expected nil for text without numerals")
	}
}
