package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MentorID        uuid.UUID `gorm:"type:uuid;not null;index" json:"mentor_id"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	SessionDate     time.Time `gorm:"not null" json:"session_date"`
	DurationMinutes *int      `json:"duration_minutes"`
	TopicsDiscussed string    `gorm:"type:text;not null" json:"topics_discussed"`
	ProgressNotes   *string   `gorm:"type:text" json:"progress_notes"`

	Mentor  User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
	Student User `gorm:"foreignkey:StudentID" json:"student,omitempty"`
}
