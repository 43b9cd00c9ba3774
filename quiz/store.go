package quiz

import (
	"context"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

// Store is the persistence the engine needs. Lookups return ErrNotFound when
// the record does not exist.
type Store interface {
	// FindQuiz loads a quiz with its questions and options, ordered by position.
	FindQuiz(ctx context.Context, quizID uuid.UUID) (*models.Quiz, error)
	FindAttempt(ctx context.Context, attemptID uuid.UUID) (*models.QuizAttempt, error)
	FindAttemptByStudent(ctx context.Context, quizID, studentID uuid.UUID) (*models.QuizAttempt, error)
	// Transaction runs fn atomically: either every write made through tx
	// commits or none does.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

type Tx interface {
	// FindQuiz loads the quiz like Store.FindQuiz and keeps it from being
	// rewritten or deleted until the transaction ends.
	FindQuiz(quizID uuid.UUID) (*models.Quiz, error)
	// CreateAttempt returns ErrAlreadyAttempted when an attempt for the same
	// (quiz, student) pair exists. Uniqueness must be enforced by the store.
	CreateAttempt(attempt *models.QuizAttempt) error
	CreateAnswer(answer *models.QuizAnswer) error
	SetScore(attemptID uuid.UUID, score int) error
	// TouchActivity records at as the user's latest activity.
	TouchActivity(userID uuid.UUID, at time.Time) error
}
