package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

const (
	noAnswerText        = "No answer"
	noCorrectOptionText = "N/A"
)

type FormOption struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

type FormQuestion struct {
	QuestionID   uuid.UUID    `json:"question_id"`
	QuestionText string       `json:"question_text"`
	QuestionType string       `json:"question_type"`
	Options      []FormOption `json:"options"`
}

// Form is what a student needs to answer a quiz. Correctness is not exposed.
type Form struct {
	QuizID      uuid.UUID      `json:"quiz_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Questions   []FormQuestion `json:"questions"`
}

func (e *Engine) Form(ctx context.Context, quizID uuid.UUID) (*Form, error) {
	q, err := e.store.FindQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	form := &Form{QuizID: q.ID, Title: q.Title, Description: q.Description, Questions: make([]FormQuestion, 0, len(q.Questions))}
	for _, question := range q.Questions {
		fq := FormQuestion{
			QuestionID:   question.ID,
			QuestionText: question.QuestionText,
			QuestionType: question.QuestionType,
			Options:      make([]FormOption, 0, len(question.Options)),
		}
		for _, o := range question.Options {
			fq.Options = append(fq.Options, FormOption{ID: o.ID, Text: o.OptionText})
		}
		form.Questions = append(form.Questions, fq)
	}
	return form, nil
}

type QuestionResult struct {
	QuestionID         uuid.UUID `json:"question_id"`
	QuestionText       string    `json:"question_text"`
	SelectedOptionText string    `json:"selected_option_text"`
	IsCorrect          bool      `json:"is_correct"`
	CorrectOptionText  string    `json:"correct_option_text"`
}

type Result struct {
	AttemptID      uuid.UUID        `json:"attempt_id"`
	QuizID         uuid.UUID        `json:"quiz_id"`
	QuizTitle      string           `json:"quiz_title"`
	StudentID      uuid.UUID        `json:"student_id"`
	AttemptDate    time.Time        `json:"attempt_date"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Questions      []QuestionResult `json:"questions"`
}

// Result rebuilds the per-question view of a graded attempt. Only the student
// who made the attempt, or an admin, may see it.
func (e *Engine) Result(ctx context.Context, actor models.Actor, attemptID uuid.UUID) (*Result, error) {
	attempt, err := e.store.FindAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if attempt.StudentID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	q, err := e.store.FindQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	selected := make(map[uuid.UUID]*uuid.UUID, len(attempt.Answers))
	for _, a := range attempt.Answers {
		selected[a.QuestionID] = a.SelectedOptionID
	}

	res := &Result{
		AttemptID:      attempt.ID,
		QuizID:         q.ID,
		QuizTitle:      q.Title,
		StudentID:      attempt.StudentID,
		AttemptDate:    attempt.AttemptDate,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Questions:      make([]QuestionResult, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		qr := QuestionResult{
			QuestionID:         question.ID,
			QuestionText:       question.QuestionText,
			SelectedOptionText: noAnswerText,
			CorrectOptionText:  noCorrectOptionText,
		}
		if c := correctOption(question); c != nil {
			qr.CorrectOptionText = c.OptionText
		}
		if optionID := selected[question.ID]; optionID != nil {
			if o := findOption(question, *optionID); o != nil {
				qr.SelectedOptionText = o.OptionText
				qr.IsCorrect = o.IsCorrect
			}
		}
		res.Questions = append(res.Questions, qr)
	}
	return res, nil
}
