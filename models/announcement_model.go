package models

import (
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title      string    `gorm:"size:100;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	DatePosted time.Time `gorm:"not null" json:"date_posted"`
	AdminID    uuid.UUID `gorm:"type:uuid;not null" json:"admin_id"`

	Admin User `gorm:"foreignkey:AdminID" json:"admin,omitempty"`
}
