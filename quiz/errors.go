package quiz

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyAttempted = errors.New("quiz already attempted")
	ErrInvalidQuiz      = errors.New("invalid quiz")
)

// AttemptExistsError is returned when a student submits a quiz they already
// have a graded attempt for.
type AttemptExistsError struct {
	AttemptID uuid.UUID
}

func (e *AttemptExistsError) Error() string {
	return fmt.Sprintf("quiz already attempted (attempt %s)", e.AttemptID)
}

func (e *AttemptExistsError) Is(target error) bool {
	return target == ErrAlreadyAttempted
}
