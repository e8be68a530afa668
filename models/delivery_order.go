package models

import "time"

// DeliveryOrder tracks physical delivery of goods for a bill.
type DeliveryOrder struct {
	ID              uint `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	TenantID        uint      `gorm:"index;not null"`
	BillID          *uint     `gorm:"index"`
	ProxyBillID     *uint     `gorm:"index"`
	DeliveryUserID  uint      `gorm:"index;not null"`
	DeliveryAddress string    `gorm:"not null"`
	DeliveryDate    time.Time `gorm:"not null"`
	Status          string    `gorm:"size:20;default:PENDING"` // PENDING, IN_TRANSIT, DELIVERED, CANCELLED
	Remarks         string
}
