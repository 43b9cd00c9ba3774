package models

import (
	"time"

	"github.com/google/uuid"
)

type ProgressReport struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Streak      int       `gorm:"not null" json:"streak"`
	ActiveDays  int       `gorm:"not null" json:"active_days"`
	ReportURL   string    `gorm:"type:text;not null" json:"report_url"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`

	Student User `gorm:"foreignkey:StudentID" json:"-"`
}
