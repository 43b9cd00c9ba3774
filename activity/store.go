package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Events holds the raw timestamps of one user, one slice per source.
// Nil entries are treated as absent events.
type Events struct {
	Logins              []*time.Time
	ResourceCompletions []*time.Time
	QuizAttempts        []*time.Time
}

// EventStore is a read-only view over the activity sources of a user.
// Implementations must not mutate anything, so repeated calls for the same
// user return the same events.
type EventStore interface {
	Events(ctx context.Context, userID uuid.UUID) (Events, error)
}
