package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt is written once, inside a single transaction, and never updated afterwards.
type QuizAttempt struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_student_attempt" json:"quiz_id"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_student_attempt" json:"student_id"`
	AttemptDate    time.Time `gorm:"not null" json:"attempt_date"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`

	Answers []QuizAnswer `gorm:"foreignkey:AttemptID" json:"answers,omitempty"`
	Quiz    Quiz         `gorm:"foreignkey:QuizID" json:"quiz,omitempty"`
	Student User         `gorm:"foreignkey:StudentID" json:"student,omitempty"`
}

type QuizAnswer struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AttemptID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_question" json:"attempt_id"`
	QuestionID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_question;index" json:"question_id"`
	SelectedOptionID *uuid.UUID `gorm:"type:uuid" json:"selected_option_id"`
}
