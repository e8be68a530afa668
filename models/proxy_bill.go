package models

import "time"

// ProxyBill is a derived bill split off a parent bill for a different vendor.
type ProxyBill struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	TenantID     uint   `gorm:"index;not null"`
	ParentBillID uint   `gorm:"index;not null"`
	VendorID     uint   `gorm:"index;not null"`
	ProxyNumber  string `gorm:"size:100;not null"`
	Status       string `gorm:"size:20;default:DRAFT"`
	AmountTotal  int64  `gorm:"default:0"`

	Items []ProxyBillItem `gorm:"foreignKey:ProxyBillID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ProxyBillItem is one line item on a proxy bill.
type ProxyBillItem struct {
	ID          uint `gorm:"primaryKey"`
	ProxyBillID uint `gorm:"index;not null"`
	Description string `gorm:"size:500;not null"`
	Quantity    int64  `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"`
	Amount      int64  `gorm:"not null"`
}
