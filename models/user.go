package models

import "time"

// Known role names. ADMIN bypasses the permission table entirely.
const (
	RoleAdmin     = "ADMIN"
	RoleSalesman  = "SALESMAN"
	RoleDelivery  = "DELIVERY"
	RoleOrganiser = "ORGANISER"
)

// User model
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	TenantID       uint       `gorm:"index;not null"`
	Username       string     `gorm:"size:80;not null;unique"`
	HashedPassword []byte     `gorm:"not null"`
	Role           string     `gorm:"size:20;not null"`
	IsActive       bool       `gorm:"default:true"`
}
