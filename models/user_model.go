package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin   = "admin"
	RoleMentor  = "mentor"
	RoleStudent = "student"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Username string    `gorm:"size:20;not null;unique" json:"username"`
	Email    string    `gorm:"size:120;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:10;not null;default:'student'" json:"role"`

	Bio               *string `gorm:"type:text" json:"bio"`
	ExpertiseAreas    *string `gorm:"size:200" json:"expertise_areas"`
	ContactPreference *string `gorm:"size:50" json:"contact_preference"`

	LastLogin    *time.Time `json:"last_login"`
	LastActivity *time.Time `json:"last_activity"`

	// Only students carry a mentor.
	MentorID *uuid.UUID `gorm:"type:uuid;index" json:"mentor_id"`
	Mentor   *User      `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsMentor() bool  { return u.Role == RoleMentor }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMentor, RoleStudent:
		return true
	}
	return false
}
