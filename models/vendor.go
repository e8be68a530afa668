package models

import "time"

// Vendor represents a supplier/customer party bills are raised against.
type Vendor struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	TenantID     uint   `gorm:"index;not null"`
	Name         string `gorm:"size:200;not null"`
	Type         string `gorm:"size:20;not null"` // SUPPLIER, CUSTOMER, BOTH
	ContactPhone string `gorm:"size:20"`
	Email        string `gorm:"size:100"`
	Address      string
	GSTNumber    string `gorm:"column:gst_number;size:50"`
	CreditLimit  int64  `gorm:"default:0"` // smallest currency unit
}
