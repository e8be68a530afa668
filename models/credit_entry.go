package models

import "time"

// Credit entry directions and payment methods.
const (
	DirectionIncoming = "INCOMING"
	DirectionOutgoing = "OUTGOING"
)

// CreditEntry records a payment against a bill or proxy bill.
type CreditEntry struct {
	ID              uint `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	TenantID        uint      `gorm:"index;not null"`
	BillID          *uint     `gorm:"index"`
	ProxyBillID     *uint     `gorm:"index"`
	VendorID        uint      `gorm:"index;not null"`
	Amount          int64     `gorm:"not null"`
	Direction       string    `gorm:"size:20;not null"`
	PaymentMethod   string    `gorm:"size:20;not null"` // CASH, UPI, BANK, CHEQUE, CARD
	PaymentDate     time.Time `gorm:"not null"`
	ReferenceNumber string    `gorm:"size:100"`
	Notes           string
}
