package models

import (
	"time"

	"github.com/google/uuid"
)

const QuestionTypeMultipleChoice = "multiple_choice"

type Quiz struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	DateCreated time.Time `gorm:"not null" json:"date_created"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`

	Questions []Question `gorm:"foreignkey:QuizID" json:"questions,omitempty"`
	Creator   User       `gorm:"foreignkey:CreatorID" json:"-"`
}

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType string    `gorm:"size:20;not null;default:'multiple_choice'" json:"question_type"`

	Options []Option `gorm:"foreignkey:QuestionID" json:"options,omitempty"`
}

type Option struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	OptionText string    `gorm:"size:200;not null" json:"option_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
}
