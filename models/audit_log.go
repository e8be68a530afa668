package models

import "time"

// AuditLog records who did what to which entity.
type AuditLog struct {
	ID         uint `gorm:"primaryKey"`
	TenantID   uint      `gorm:"index;not null"`
	UserID     uint      `gorm:"index;not null"`
	Action     string    `gorm:"size:100;not null"`
	EntityType string    `gorm:"size:50;not null"`
	EntityID   uint      `gorm:"not null"`
	Timestamp  time.Time `gorm:"autoCreateTime"`
}
