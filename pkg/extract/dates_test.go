package extract

import "testing"

func TestBillDateDayFirst(t *testing.T) {
	d := extractBillDate([]string{"Invoice Date: 04/12/2025"}, "invoice date: 04/12/2025")
	if str(d) != "2025-12-04" {
		t.Fatalf("expected 2025-12-04 got %s", str(d))
	}
}

func TestBillDateRejectsImpossibleDay(t *testing.T) {
	d := extractBillDate([]string{"Date: 31/02/2024"}, "date: 31/02/2024")
	if d != nil {
		t.Fatalf("31 Feb should not parse, got %s", *d)
	}
}

func TestBillDateRejectsOutOfRangeYear(t *testing.T) {
	d := extractBillDate([]string{"Dated 15 Jan 1850"}, "dated 15 jan 1850")
	if d != nil {
		t.Fatalf("year 1850 should be rejected, got %s", *d)
	}
}

func TestDeliveryDateNeedsKeyword(t *testing.T) {
	if d := extractDeliveryDate([]string{"Delivery Date: 2024-03-10"}); str(d) != "2024-03-10" {
		t.Fatalf("expected 2024-03-10 got %s", str(d))
	}
	if d := extractDeliveryDate([]string{"2024-03-10"}); d != nil {
		t.Fatalf("bare date must not count as delivery date, got %s", *d)
	}
}
