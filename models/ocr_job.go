package models

import "time"

// OCRJob keeps the raw recognized text for a scanned bill image so a reviewer
// can cross-check the suggested fields against what the engine actually saw.
// BillID is set once the reviewed bill is created.
type OCRJob struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	TenantID  uint   `gorm:"index;not null"`
	BillID    *uint  `gorm:"index"`
	ImagePath string `gorm:"size:500;not null"`
	RawText   string
	Detailed  bool `gorm:"default:false"`
}
