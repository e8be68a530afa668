package models

import "time"

// Bill statuses and types.
const (
	BillStatusDraft     = "DRAFT"
	BillStatusConfirmed = "CONFIRMED"
	BillStatusCancelled = "CANCELLED"

	BillTypeNormal   = "NORMAL"
	BillTypeHandbill = "HANDBILL"

	PaymentUnpaid        = "UNPAID"
	PaymentPartiallyPaid = "PARTIALLY_PAID"
	PaymentFullyPaid     = "FULLY_PAID"
)

// Bill is a vendor bill, optionally enriched with OCR-extracted fields that a
// reviewer confirmed from a scanned image.
type Bill struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	TenantID       uint       `gorm:"index;not null"`
	VendorID       uint       `gorm:"index;not null"`
	Vendor         Vendor     `gorm:"foreignKey:VendorID;references:ID"`
	BillNumber     string     `gorm:"size:100;not null"`
	BillDate       time.Time  `gorm:"not null"`
	BillType       string     `gorm:"size:20;not null"`
	Status         string     `gorm:"size:20;default:DRAFT"`
	PaymentStatus  string     `gorm:"size:20;default:UNPAID"`
	AmountSubtotal int64      `gorm:"default:0"` // smallest currency unit
	AmountTax      int64      `gorm:"default:0"`
	AmountTotal    int64      `gorm:"default:0"`
	OCRText        string     `gorm:"column:ocr_text"`
	ImagePath      string     `gorm:"size:500"`
	IsAuthorized   bool       `gorm:"default:false"`
	AuthorizedBy   *uint      `gorm:"index"`
	AuthorizedAt   *time.Time
	// Fields suggested by the extraction engine.
	DeliveryDate      *time.Time
	BilledToName      *string `gorm:"size:200"`
	ShippedToName     *string `gorm:"size:200"`
	DeliveryRecipient *string `gorm:"size:200"`
	Post              *string `gorm:"size:100"`

	Items []BillItem `gorm:"foreignKey:BillID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// BillItem is one line item on a bill.
type BillItem struct {
	ID          uint `gorm:"primaryKey"`
	BillID      uint `gorm:"index;not null"`
	Description string `gorm:"size:500;not null"`
	Quantity    int64  `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"`
	Amount      int64  `gorm:"not null"`
}
