package models

// Permission is one grantable capability (e.g. create_bill).
type Permission struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Code        string `gorm:"size:50;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
	Category    string `gorm:"size:50;not null"` // BILL, CREDIT, DELIVERY, VENDOR, REPORT, ADMIN
}

// RolePermission grants a permission to a role by name.
type RolePermission struct {
	ID           uint   `gorm:"primaryKey"`
	Role         string `gorm:"size:20;not null;index"`
	PermissionID uint   `gorm:"index;not null"`
	Granted      bool   `gorm:"default:true"`
}
