package models

import (
	"time"

	"github.com/google/uuid"
)

type Resource struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	LinkURL     *string   `gorm:"size:255" json:"link_url"`
	Category    *string   `gorm:"size:50;index" json:"category"`
	DateAdded   time.Time `gorm:"not null" json:"date_added"`
	UserID      uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`

	Creator User `gorm:"foreignkey:UserID" json:"-"`
}

type StudentResourceCompletion struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_resource" json:"student_id"`
	ResourceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_resource" json:"resource_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`

	Resource Resource `gorm:"foreignkey:ResourceID" json:"-"`
}
