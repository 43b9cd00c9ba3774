package quiz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

var errBoom = errors.New("storage failure")

// memStore is an in-memory Store with the same uniqueness guarantees as the
// database: one attempt per (quiz, student), one answer per (attempt, question).
type memStore struct {
	mu       sync.Mutex
	quizzes  map[uuid.UUID]*models.Quiz
	attempts []models.QuizAttempt
	answers  []models.QuizAnswer
	activity map[uuid.UUID]time.Time

	failAnswerAt int
	answerCalls  int
	guardCalls   int32
	onGuard      func(call int32)
}

func newMemStore(quizzes ...*models.Quiz) *memStore {
	s := &memStore{quizzes: make(map[uuid.UUID]*models.Quiz), activity: make(map[uuid.UUID]time.Time)}
	for _, q := range quizzes {
		s.quizzes[q.ID] = q
	}
	return s
}

func (s *memStore) FindQuiz(_ context.Context, quizID uuid.UUID) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[quizID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (s *memStore) FindAttempt(_ context.Context, attemptID uuid.UUID) (*models.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.ID == attemptID {
			for _, ans := range s.answers {
				if ans.AttemptID == a.ID {
					a.Answers = append(a.Answers, ans)
				}
			}
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) FindAttemptByStudent(_ context.Context, quizID, studentID uuid.UUID) (*models.QuizAttempt, error) {
	s.mu.Lock()
	var found *models.QuizAttempt
	for i := range s.attempts {
		if s.attempts[i].QuizID == quizID && s.attempts[i].StudentID == studentID {
			a := s.attempts[i]
			found = &a
			break
		}
	}
	s.mu.Unlock()

	if s.onGuard != nil {
		s.onGuard(atomic.AddInt32(&s.guardCalls, 1))
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (s *memStore) Transaction(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	s.attempts = append(s.attempts, tx.attempts...)
	s.answers = append(s.answers, tx.answers...)
	for id, at := range tx.touched {
		s.activity[id] = at
	}
	return nil
}

// replaceQuiz swaps the stored quiz, as a committed edit would.
func (s *memStore) replaceQuiz(q *models.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[q.ID] = q
}

func (s *memStore) lastActivity(userID uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.activity[userID]
	return at, ok
}

func (s *memStore) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func (s *memStore) answerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

type memTx struct {
	store    *memStore
	attempts []models.QuizAttempt
	answers  []models.QuizAnswer
	touched  map[uuid.UUID]time.Time
}

// FindQuiz runs with the store lock held by Transaction.
func (t *memTx) FindQuiz(quizID uuid.UUID) (*models.Quiz, error) {
	q, ok := t.store.quizzes[quizID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (t *memTx) TouchActivity(userID uuid.UUID, at time.Time) error {
	if t.touched == nil {
		t.touched = make(map[uuid.UUID]time.Time)
	}
	t.touched[userID] = at
	return nil
}

func (t *memTx) CreateAttempt(a *models.QuizAttempt) error {
	for _, set := range [][]models.QuizAttempt{t.store.attempts, t.attempts} {
		for _, existing := range set {
			if existing.QuizID == a.QuizID && existing.StudentID == a.StudentID {
				return ErrAlreadyAttempted
			}
		}
	}
	t.attempts = append(t.attempts, *a)
	return nil
}

func (t *memTx) CreateAnswer(a *models.QuizAnswer) error {
	t.store.answerCalls++
	if t.store.failAnswerAt > 0 && t.store.answerCalls == t.store.failAnswerAt {
		return errBoom
	}
	for _, existing := range t.answers {
		if existing.AttemptID == a.AttemptID && existing.QuestionID == a.QuestionID {
			return errors.New("duplicate answer")
		}
	}
	t.answers = append(t.answers, *a)
	return nil
}

func (t *memTx) SetScore(attemptID uuid.UUID, score int) error {
	for i := range t.attempts {
		if t.attempts[i].ID == attemptID {
			t.attempts[i].Score = score
			return nil
		}
	}
	return ErrNotFound
}

// buildQuiz creates a quiz whose questions each have one correct option at
// index 0 and wrong options after it.
func buildQuiz(title string, questions int) *models.Quiz {
	q := &models.Quiz{ID: uuid.New(), Title: title, CreatorID: uuid.New()}
	for i := 0; i < questions; i++ {
		question := models.Question{
			ID:           uuid.New(),
			QuizID:       q.ID,
			Position:     i,
			QuestionText: title + " question",
			QuestionType: models.QuestionTypeMultipleChoice,
		}
		for j, text := range []string{"right", "wrong", "also wrong"} {
			question.Options = append(question.Options, models.Option{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Position:   j,
				OptionText: text,
				IsCorrect:  j == 0,
			})
		}
		q.Questions = append(q.Questions, question)
	}
	return q
}
