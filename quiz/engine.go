// Package quiz grades quiz submissions and enforces a single attempt per
// student per quiz.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

type State string

const (
	NotAttempted State = "not_attempted"
	Submitting   State = "submitting"
	Graded       State = "graded"
)

// Submission maps a question to the option the student picked. Questions
// missing from Selections are unanswered.
type Submission struct {
	QuizID     uuid.UUID
	StudentID  uuid.UUID
	Selections map[uuid.UUID]uuid.UUID
}

type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the attempt timestamp source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// State reports whether the student has a graded attempt for the quiz.
func (e *Engine) State(ctx context.Context, quizID, studentID uuid.UUID) (State, *models.QuizAttempt, error) {
	attempt, err := e.store.FindAttemptByStudent(ctx, quizID, studentID)
	if errors.Is(err, ErrNotFound) {
		return NotAttempted, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return Graded, attempt, nil
}

type gradedAnswer struct {
	questionID uuid.UUID
	optionID   uuid.UUID
}

// Submit grades a submission and stores the attempt, its answers and its score
// in one transaction. The quiz is read inside that transaction, so an edit
// made in the meantime is either fully seen or not at all. A student who
// already has an attempt gets an *AttemptExistsError; nothing is written in
// that case.
func (e *Engine) Submit(ctx context.Context, sub Submission) (*models.QuizAttempt, error) {
	state, existing, err := e.State(ctx, sub.QuizID, sub.StudentID)
	if err != nil {
		return nil, err
	}
	if state == Graded {
		return nil, &AttemptExistsError{AttemptID: existing.ID}
	}

	var attempt *models.QuizAttempt
	err = e.store.Transaction(ctx, func(tx Tx) error {
		q, err := tx.FindQuiz(sub.QuizID)
		if err != nil {
			return fmt.Errorf("load quiz: %w", err)
		}
		answers, score, err := grade(q, sub.Selections)
		if err != nil {
			return err
		}

		attempt = &models.QuizAttempt{
			ID:             uuid.New(),
			QuizID:         q.ID,
			StudentID:      sub.StudentID,
			AttemptDate:    e.now(),
			TotalQuestions: len(q.Questions),
		}
		if err := tx.CreateAttempt(attempt); err != nil {
			return err
		}
		for _, a := range answers {
			optionID := a.optionID
			answer := &models.QuizAnswer{
				ID:               uuid.New(),
				AttemptID:        attempt.ID,
				QuestionID:       a.questionID,
				SelectedOptionID: &optionID,
			}
			if err := tx.CreateAnswer(answer); err != nil {
				return err
			}
		}
		if err := tx.SetScore(attempt.ID, score); err != nil {
			return err
		}
		attempt.Score = score
		return tx.TouchActivity(sub.StudentID, attempt.AttemptDate)
	})
	if errors.Is(err, ErrAlreadyAttempted) {
		// Lost a race with a concurrent submission for the same pair.
		_, winner, lookupErr := e.State(ctx, sub.QuizID, sub.StudentID)
		if lookupErr != nil || winner == nil {
			return nil, ErrAlreadyAttempted
		}
		return nil, &AttemptExistsError{AttemptID: winner.ID}
	}
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}
	return attempt, nil
}

// grade resolves every selection against the quiz before anything is written.
// The score counts selections whose option is marked correct.
func grade(q *models.Quiz, selections map[uuid.UUID]uuid.UUID) ([]gradedAnswer, int, error) {
	known := make(map[uuid.UUID]bool, len(q.Questions))
	for _, question := range q.Questions {
		known[question.ID] = true
	}
	for questionID := range selections {
		if !known[questionID] {
			return nil, 0, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
		}
	}

	var answers []gradedAnswer
	score := 0
	for _, question := range q.Questions {
		optionID, ok := selections[question.ID]
		if !ok {
			continue
		}
		option := findOption(question, optionID)
		if option == nil {
			return nil, 0, fmt.Errorf("option %s for question %s: %w", optionID, question.ID, ErrNotFound)
		}
		if option.IsCorrect {
			score++
		}
		answers = append(answers, gradedAnswer{questionID: question.ID, optionID: option.ID})
	}
	return answers, score, nil
}

func findOption(question models.Question, optionID uuid.UUID) *models.Option {
	for i := range question.Options {
		if question.Options[i].ID == optionID {
			return &question.Options[i]
		}
	}
	return nil
}

// correctOption returns the first option marked correct, or nil.
func correctOption(question models.Question) *models.Option {
	for i := range question.Options {
		if question.Options[i].IsCorrect {
			return &question.Options[i]
		}
	}
	return nil
}
