package extract

import "testing"

func str(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestExtractFullInvoice(t *testing.T) {
	text := "ACME DISTRIBUTORS\n" +
		"Invoice No: 1/25-26/014013\n" +
		"Invoice Date: 04/12/2025\n" +
		"Billed To: Ramesh Traders\n" +
		"Shipped To: Kumar Stores\n" +
		"DR: ramesh kumar\n" +
		"Post: Kollam\n" +
		"Taxable Value: 950.00\n" +
		"Total Tax Amt: 87.50\n" +
		"NNet Amt Payable: 815.00\n"

	s := Extract(text, nil)

	if str(s.BillNumber) != "1/25-26/014013" {
		t.Fatalf("bill number: got %s", str(s.BillNumber))
	}
	if str(s.BillDate) != "2025-12-04" {
		t.Fatalf("bill date: got %s (day/month order wrong?)", str(s.BillDate))
	}
	if s.DeliveryDate != nil {
		t.Fatalf("delivery date should be nil without a delivery keyword, got %s", *s.DeliveryDate)
	}
	if str(s.Subtotal) != "950.0" || str(s.Tax) != "87.5" || str(s.TotalNet) != "815.0" {
		t.Fatalf("amounts: subtotal=%s tax=%s total_net=%s", str(s.Subtotal), str(s.Tax), str(s.TotalNet))
	}
	if s.Total != nil {
		t.Fatalf("net payable line must not fill total, got %s", *s.Total)
	}
	if str(s.VendorName) != "ACME DISTRIBUTORS" {
		t.Fatalf("vendor: got %s", str(s.VendorName))
	}
	if str(s.BilledToName) != "Ramesh Traders" {
		t.Fatalf("billed to: got %s", str(s.BilledToName))
	}
	if str(s.ShippedToName) != "Kumar Stores" {
		t.Fatalf("shipped to: got %s", str(s.ShippedToName))
	}
	if str(s.DeliveryRecipient) != "Ramesh Kumar" {
		t.Fatalf("delivery recipient: got %s", str(s.DeliveryRecipient))
	}
	if str(s.Post) != "Kollam" {
		t.Fatalf("post: got %s", str(s.Post))
	}
}

func TestExtractEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\t  \n"} {
		s := Extract(in, nil)
		if s != (Suggestions{}) {
			t.Fatalf("expected empty record for %q, got %+v", in, s)
		}
	}
}

func TestExtractStructuredNumberWithoutLabel(t *testing.T) {
	// No label anywhere; the structural pattern finds it per line and the
	// letters survive untouched because no digit-confusion fix applies to
	// regex-derived numbers.
	s := Extract("Order Confirmation\nORD-2023-78912\nDate: 15/01/2024\n", nil)
	if str(s.BillNumber) != "ORD-2023-78912" {
		t.Fatalf("bill number: got %s", str(s.BillNumber))
	}
	if str(s.BillDate) != "2024-01-15" {
		t.Fatalf("bill date: got %s", str(s.BillDate))
	}
}

func box(x, y, w, h float64) []Point {
	return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

func TestExtractSpatialNumberWins(t *testing.T) {
	tokens := []Token{
		{Text: "Invoice No:", Box: box(100, 50, 100, 20)},
		{Text: "1/25-26/0I4013", Box: box(210, 50, 100, 20)},
	}
	s := Extract("Invoice No: 99/88/777\n", tokens)
	// Token value beats the text match, and the I->1 fix is applied to it.
	if str(s.BillNumber) != "1/25-26/014013" {
		t.Fatalf("bill number: got %s", str(s.BillNumber))
	}
}

func TestExtractSpatialFallsBackToText(t *testing.T) {
	tokens := []Token{
		{Text: "Invoice No:", Box: box(0, 0, 100, 20)},
		{Text: "XX/99", Box: box(900, 900, 50, 20)}, // too far from the label
	}
	s := Extract("Invoice No: ab/123\n", tokens)
	if str(s.BillNumber) != "ab/123" {
		t.Fatalf("expected text fallback, got %s", str(s.BillNumber))
	}
}

func TestExtractSpatialDeliveryRecipient(t *testing.T) {
	tokens := []Token{
		{Text: "DR:", Box: box(40, 300, 40, 20)},
		{Text: "Suresh", Box: box(90, 300, 80, 20)},
	}
	s := Extract("DR: ramesh kumar\n", tokens)
	if str(s.DeliveryRecipient) != "Suresh" {
		t.Fatalf("delivery recipient: got %s", str(s.DeliveryRecipient))
	}
}
