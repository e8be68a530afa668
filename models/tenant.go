package models

import "time"

// Tenant is the top-level isolation unit; every domain row carries a TenantID.
type Tenant struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:200;not null"`
	Code      string `gorm:"size:50;uniqueIndex;not null"`
	IsActive  bool   `gorm:"default:true"`
}
