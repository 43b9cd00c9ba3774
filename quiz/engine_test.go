package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

func TestSubmitScoresAndSkipsUnanswered(t *testing.T) {
	q := buildQuiz("Fractions", 3)
	store := newMemStore(q)
	fixed := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	engine := NewEngine(store).WithClock(func() time.Time { return fixed })
	student := uuid.New()

	attempt, err := engine.Submit(context.Background(), Submission{
		QuizID:    q.ID,
		StudentID: student,
		Selections: map[uuid.UUID]uuid.UUID{
			q.Questions[0].ID: q.Questions[0].Options[0].ID,
			q.Questions[1].ID: q.Questions[1].Options[2].ID,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempt.Score != 1 {
		t.Errorf("expected score 1, got %d", attempt.Score)
	}
	if attempt.TotalQuestions != 3 {
		t.Errorf("expected 3 total questions, got %d", attempt.TotalQuestions)
	}
	if !attempt.AttemptDate.Equal(fixed) {
		t.Errorf("expected attempt date %v, got %v", fixed, attempt.AttemptDate)
	}
	if n := store.answerCount(); n != 2 {
		t.Errorf("expected 2 answer rows, got %d", n)
	}
	if at, ok := store.lastActivity(student); !ok || !at.Equal(fixed) {
		t.Errorf("expected student activity at %v, got %v (recorded %v)", fixed, at, ok)
	}

	stored, err := store.FindAttempt(context.Background(), attempt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Score != 1 {
		t.Errorf("stored score should be 1, got %d", stored.Score)
	}
	for _, a := range stored.Answers {
		if a.QuestionID == q.Questions[2].ID {
			t.Errorf("unanswered question must not get an answer row")
		}
	}

	state, _, err := engine.State(context.Background(), q.ID, student)
	if err != nil || state != Graded {
		t.Errorf("expected graded state, got %s (%v)", state, err)
	}
}

func TestSubmitTwiceKeepsFirstAttempt(t *testing.T) {
	q := buildQuiz("Algebra", 2)
	store := newMemStore(q)
	engine := NewEngine(store)
	student := uuid.New()

	first, err := engine.Submit(context.Background(), Submission{
		QuizID:     q.ID,
		StudentID:  student,
		Selections: map[uuid.UUID]uuid.UUID{q.Questions[0].ID: q.Questions[0].Options[1].ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = engine.Submit(context.Background(), Submission{
		QuizID:    q.ID,
		StudentID: student,
		Selections: map[uuid.UUID]uuid.UUID{
			q.Questions[0].ID: q.Questions[0].Options[0].ID,
			q.Questions[1].ID: q.Questions[1].Options[0].ID,
		},
	})
	if !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("expected ErrAlreadyAttempted, got %v", err)
	}
	var exists *AttemptExistsError
	if !errors.As(err, &exists) || exists.AttemptID != first.ID {
		t.Errorf("expected existing attempt id %s, got %v", first.ID, err)
	}

	if n := store.attemptCount(); n != 1 {
		t.Errorf("expected 1 attempt, got %d", n)
	}
	stored, _ := store.FindAttempt(context.Background(), first.ID)
	if stored.Score != 0 {
		t.Errorf("score must not change on resubmission, got %d", stored.Score)
	}
}

func TestConcurrentSubmissionsPersistOneAttempt(t *testing.T) {
	q := buildQuiz("Geometry", 1)
	store := newMemStore(q)
	engine := NewEngine(store)
	student := uuid.New()

	// Hold both submissions after the guard check so they race on the insert.
	var barrier sync.WaitGroup
	barrier.Add(2)
	store.onGuard = func(call int32) {
		if call <= 2 {
			barrier.Done()
			barrier.Wait()
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Submit(context.Background(), Submission{
				QuizID:     q.ID,
				StudentID:  student,
				Selections: map[uuid.UUID]uuid.UUID{q.Questions[0].ID: q.Questions[0].Options[0].ID},
			})
		}(i)
	}
	wg.Wait()

	if n := store.attemptCount(); n != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", n)
	}

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyAttempted):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Errorf("expected one success and one rejection, got %d and %d", succeeded, rejected)
	}
}

func TestSubmitRollsBackOnFailure(t *testing.T) {
	q := buildQuiz("History", 3)
	store := newMemStore(q)
	store.failAnswerAt = 2
	engine := NewEngine(store)
	student := uuid.New()

	sub := Submission{
		QuizID:    q.ID,
		StudentID: student,
		Selections: map[uuid.UUID]uuid.UUID{
			q.Questions[0].ID: q.Questions[0].Options[0].ID,
			q.Questions[1].ID: q.Questions[1].Options[0].ID,
			q.Questions[2].ID: q.Questions[2].Options[0].ID,
		},
	}

	if _, err := engine.Submit(context.Background(), sub); !errors.Is(err, errBoom) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if store.attemptCount() != 0 || store.answerCount() != 0 {
		t.Fatalf("partial attempt is visible: %d attempts, %d answers", store.attemptCount(), store.answerCount())
	}
	if state, _, _ := engine.State(context.Background(), q.ID, student); state != NotAttempted {
		t.Errorf("expected not attempted after rollback, got %s", state)
	}

	attempt, err := engine.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if attempt.Score != 3 {
		t.Errorf("expected score 3 on retry, got %d", attempt.Score)
	}
}

func TestSubmitRejectsUnknownReferences(t *testing.T) {
	q := buildQuiz("Biology", 2)
	other := buildQuiz("Chemistry", 1)
	store := newMemStore(q, other)
	engine := NewEngine(store)

	tests := []struct {
		name       string
		quizID     uuid.UUID
		selections map[uuid.UUID]uuid.UUID
	}{
		{"unknown quiz", uuid.New(), nil},
		{"unknown question", q.ID, map[uuid.UUID]uuid.UUID{uuid.New(): q.Questions[0].Options[0].ID}},
		{"unknown option", q.ID, map[uuid.UUID]uuid.UUID{q.Questions[0].ID: uuid.New()}},
		{"option of another question", q.ID, map[uuid.UUID]uuid.UUID{q.Questions[0].ID: q.Questions[1].Options[0].ID}},
		{"question of another quiz", q.ID, map[uuid.UUID]uuid.UUID{other.Questions[0].ID: other.Questions[0].Options[0].ID}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Submit(context.Background(), Submission{QuizID: tc.quizID, StudentID: uuid.New(), Selections: tc.selections})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
	if store.attemptCount() != 0 || store.answerCount() != 0 {
		t.Errorf("nothing should be written for invalid submissions")
	}
}

func TestSubmitGradesQuizAsSeenInsideTransaction(t *testing.T) {
	q := buildQuiz("Geometry", 3)
	edited := buildQuiz("Geometry", 2)
	edited.ID = q.ID

	tests := []struct {
		name       string
		selections map[uuid.UUID]uuid.UUID
		wantErr    error
		wantTotal  int
	}{
		{"selection for a removed question", map[uuid.UUID]uuid.UUID{q.Questions[0].ID: q.Questions[0].Options[0].ID}, ErrNotFound, 0},
		{"no selections", nil, nil, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore(q)
			// The quiz is rewritten after the attempt guard, before grading.
			store.onGuard = func(call int32) {
				if call == 1 {
					store.replaceQuiz(edited)
				}
			}
			student := uuid.New()

			attempt, err := NewEngine(store).Submit(context.Background(), Submission{QuizID: q.ID, StudentID: student, Selections: tc.selections})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if store.attemptCount() != 0 || store.answerCount() != 0 {
					t.Errorf("nothing should be written, got %d attempts %d answers", store.attemptCount(), store.answerCount())
				}
				if _, ok := store.lastActivity(student); ok {
					t.Errorf("activity must not be recorded for a rejected submission")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if attempt.TotalQuestions != tc.wantTotal {
				t.Errorf("expected total %d, got %d", tc.wantTotal, attempt.TotalQuestions)
			}
		})
	}
}

func TestTotalQuestionsIsSnapshot(t *testing.T) {
	q := buildQuiz("Physics", 2)
	store := newMemStore(q)
	engine := NewEngine(store)
	student := uuid.New()

	attempt, err := engine.Submit(context.Background(), Submission{QuizID: q.ID, StudentID: student})
	if err != nil {
		t.Fatal(err)
	}

	store.mu.Lock()
	store.quizzes[q.ID] = buildQuiz("Physics", 5)
	store.quizzes[q.ID].ID = q.ID
	store.mu.Unlock()

	stored, _ := store.FindAttempt(context.Background(), attempt.ID)
	if stored.TotalQuestions != 2 || stored.Score != 0 {
		t.Errorf("attempt changed after quiz edit: total %d score %d", stored.TotalQuestions, stored.Score)
	}
}

func TestResult(t *testing.T) {
	q := buildQuiz("Reading", 3)
	store := newMemStore(q)
	engine := NewEngine(store)
	student := uuid.New()

	attempt, err := engine.Submit(context.Background(), Submission{
		QuizID:    q.ID,
		StudentID: student,
		Selections: map[uuid.UUID]uuid.UUID{
			q.Questions[0].ID: q.Questions[0].Options[0].ID,
			q.Questions[1].ID: q.Questions[1].Options[1].ID,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := engine.Result(context.Background(), models.Actor{UserID: student, Role: models.RoleStudent}, attempt.ID)
	if err != nil {
		t.Fatalf("owner should see result: %v", err)
	}
	if res.Score != 1 || res.TotalQuestions != 3 || len(res.Questions) != 3 {
		t.Fatalf("unexpected result %+v", res)
	}

	want := []QuestionResult{
		{SelectedOptionText: "right", IsCorrect: true, CorrectOptionText: "right"},
		{SelectedOptionText: "wrong", IsCorrect: false, CorrectOptionText: "right"},
		{SelectedOptionText: "No answer", IsCorrect: false, CorrectOptionText: "right"},
	}
	for i, w := range want {
		got := res.Questions[i]
		if got.QuestionID != q.Questions[i].ID {
			t.Errorf("question %d out of order", i)
		}
		if got.SelectedOptionText != w.SelectedOptionText || got.IsCorrect != w.IsCorrect || got.CorrectOptionText != w.CorrectOptionText {
			t.Errorf("question %d: expected %+v, got %+v", i, w, got)
		}
	}

	if _, err := engine.Result(context.Background(), models.Actor{UserID: uuid.New(), Role: models.RoleStudent}, attempt.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("other student should be forbidden, got %v", err)
	}
	if _, err := engine.Result(context.Background(), models.Actor{UserID: uuid.New(), Role: models.RoleMentor}, attempt.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("mentor should be forbidden, got %v", err)
	}
	if _, err := engine.Result(context.Background(), models.Actor{UserID: uuid.New(), Role: models.RoleAdmin}, attempt.ID); err != nil {
		t.Errorf("admin should see result, got %v", err)
	}
	if _, err := engine.Result(context.Background(), models.Actor{UserID: student, Role: models.RoleStudent}, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown attempt, got %v", err)
	}
}

func TestForm(t *testing.T) {
	q := buildQuiz("Spelling", 2)
	engine := NewEngine(newMemStore(q))

	form, err := engine.Form(context.Background(), q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(form.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(form.Questions))
	}
	for i, fq := range form.Questions {
		if fq.QuestionID != q.Questions[i].ID || len(fq.Options) != 3 {
			t.Errorf("question %d mismatched: %+v", i, fq)
		}
		if fq.Options[0].ID != q.Questions[i].Options[0].ID || fq.Options[0].Text != "right" {
			t.Errorf("options out of order for question %d", i)
		}
	}

	if _, err := engine.Form(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
