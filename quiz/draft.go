package quiz

import (
	"fmt"
	"strings"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

const (
	MinOptions = 2
	MaxOptions = 5
)

type OptionDraft struct {
	Text      string
	IsCorrect bool
}

type QuestionDraft struct {
	Text    string
	Type    string
	Options []OptionDraft
}

// Draft is the full question set of a quiz as submitted by its author.
// Editing a quiz replaces every question with the ones in the new draft.
type Draft struct {
	Title       string
	Description *string
	Questions   []QuestionDraft
}

// Validate requires at least one question, 2 to 5 options per question and
// exactly one correct option per question.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidQuiz)
	}
	if len(d.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidQuiz)
	}
	for i, q := range d.Questions {
		n := i + 1
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuiz, n)
		}
		if q.Type != "" && q.Type != models.QuestionTypeMultipleChoice {
			return fmt.Errorf("%w: question %d has unsupported type %q", ErrInvalidQuiz, n, q.Type)
		}
		if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
			return fmt.Errorf("%w: question %d needs between %d and %d options", ErrInvalidQuiz, n, MinOptions, MaxOptions)
		}
		correct := 0
		for _, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				return fmt.Errorf("%w: question %d has an empty option", ErrInvalidQuiz, n)
			}
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: question %d must have exactly one correct option, has %d", ErrInvalidQuiz, n, correct)
		}
	}
	return nil
}

// BuildQuestions turns the draft into question rows owned by quizID, keeping
// the submitted order.
func (d Draft) BuildQuestions(quizID uuid.UUID) []models.Question {
	questions := make([]models.Question, 0, len(d.Questions))
	for i, qd := range d.Questions {
		qType := qd.Type
		if qType == "" {
			qType = models.QuestionTypeMultipleChoice
		}
		question := models.Question{
			ID:           uuid.New(),
			QuizID:       quizID,
			Position:     i,
			QuestionText: strings.TrimSpace(qd.Text),
			QuestionType: qType,
			Options:      make([]models.Option, 0, len(qd.Options)),
		}
		for j, od := range qd.Options {
			question.Options = append(question.Options, models.Option{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Position:   j,
				OptionText: strings.TrimSpace(od.Text),
				IsCorrect:  od.IsCorrect,
			})
		}
		questions = append(questions, question)
	}
	return questions
}
