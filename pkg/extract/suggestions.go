package extract

// Suggestions is the structured output of one extraction run. Every field is
// nullable: nil means the engine found nothing acceptable. Values are plain
// strings (ISO dates, decimal amounts) so the record serializes to JSON
// without any typed date/decimal objects at the boundary.
type Suggestions struct {
	BillNumber        *string `json:"bill_number"`
	BillDate          *string `json:"bill_date"`
	DeliveryDate      *string `json:"delivery_date"`
	Subtotal          *string `json:"subtotal"`
	Tax               *string `json:"tax"`
	Total             *string `json:"total"`
	TotalNet          *string `json:"total_net"`
	VendorName        *string `json:"vendor_name"`
	BilledToName      *string `json:"billed_to_name"`
	ShippedToName     *string `json:"shipped_to_name"`
	DeliveryRecipient *string `json:"delivery_recipient"`
	Post              *string `json:"post"`
}

func ptr(s string) *string { return &s }
