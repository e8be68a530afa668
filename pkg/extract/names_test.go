package extract

import "testing"

func TestVendorNameFirstLineOnly(t *testing.T) {
	if v := extractVendorName([]string{"Sharma Agencies", "Hardware & Paints"}); str(v) != "Sharma Agencies" {
		t.Fatalf("got %s", str(v))
	}
	// The first line is rejected and nothing below it is ever considered.
	if v := extractVendorName([]string{"TAX INVOICE", "Sharma Agencies"}); v != nil {
		t.Fatalf("expected nil after rejected first line, got %s", *v)
	}
}

func TestBilledToNextLine(t *testing.T) {
	lines := []string{"Billed To:", "Ramesh Traders", "GSTIN 32AABCU9603R1ZN"}
	if v := extractBilledTo(lines); str(v) != "Ramesh Traders" {
		t.Fatalf("got %s", str(v))
	}
}

func TestDeliveryRecipientBareLabelNextLine(t *testing.T) {
	lines := []string{"DR:", "suresh babu", "Contact: 9847012345"}
	if v := extractDeliveryRecipient(lines, "dr:\nsuresh babu\ncontact: 9847012345"); str(v) != "suresh babu" {
		t.Fatalf("got %s", str(v))
	}
}

func TestPostStripsTrailingDistrict(t *testing.T) {
	if v := extractPost([]string{"Post: Kundara, Pincode 691501"}); str(v) != "kundara" {
		t.Fatalf("got %s", str(v))
	}
}

func TestCleanupCapitalizesAndStripsNoise(t *testing.T) {
	s := Suggestions{
		BilledToName:      ptr("ramesh traders pvt ltd 12345"),
		DeliveryRecipient: ptr("suresh babu contact 98470"),
		Post:              ptr("kundara post office 691501"),
		Total:             ptr("0.00"),
		TotalNet:          ptr("815.00"),
	}
	finalize(&s, false)
	if str(s.BilledToName) != "Ramesh Traders" {
		t.Fatalf("billed to: got %s", str(s.BilledToName))
	}
	if str(s.DeliveryRecipient) != "Suresh Babu" {
		t.Fatalf("delivery recipient: got %s", str(s.DeliveryRecipient))
	}
	if str(s.Post) != "Kundara" {
		t.Fatalf("post: got %s", str(s.Post))
	}
	if s.Total != nil {
		t.Fatalf("zero total survived finalize: %s", *s.Total)
	}
	if str(s.TotalNet) != "815.0" {
		t.Fatalf("total_net: got %s", str(s.TotalNet))
	}
}

func TestDigitConfusionFixSpatialOnly(t *testing.T) {
	a := Suggestions{BillNumber: ptr("1/25-26/0I40l3")}
	finalize(&a, true)
	if str(a.BillNumber) != "1/25-26/014013" {
		t.Fatalf("spatial fix: got %s", str(a.BillNumber))
	}
	b := Suggestions{BillNumber: ptr("ORD-2023-78912")}
	finalize(&b, false)
	if str(b.BillNumber) != "ORD-2023-78912" {
		t.Fatalf("regex number altered: got %s", str(b.BillNumber))
	}
}
