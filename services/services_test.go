package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/mentor_connect/activity"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

func newUser(role string) *models.User {
	return &models.User{ID: uuid.New(), Username: role + "-user", Role: role}
}

func withMentor(student, mentor *models.User) *models.User {
	id := mentor.ID
	student.MentorID = &id
	return student
}

func TestCanMessage(t *testing.T) {
	admin := newUser(models.RoleAdmin)
	mentor := newUser(models.RoleMentor)
	otherMentor := newUser(models.RoleMentor)
	student := withMentor(newUser(models.RoleStudent), mentor)
	unassigned := newUser(models.RoleStudent)

	tests := []struct {
		name     string
		sender   *models.User
		receiver *models.User
		want     bool
	}{
		{"admin to student", admin, student, true},
		{"admin to mentor", admin, mentor, true},
		{"mentor to own student", mentor, student, true},
		{"student to own mentor", student, mentor, true},
		{"other mentor to student", otherMentor, student, false},
		{"student to other mentor", student, otherMentor, false},
		{"mentor to unassigned student", mentor, unassigned, false},
		{"student to student", student, unassigned, false},
		{"student to admin", student, admin, false},
		{"self", unassigned, unassigned, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMessage(tc.sender, tc.receiver); got != tc.want {
				t.Errorf("CanMessage = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAssignMentor(t *testing.T) {
	mentor := newUser(models.RoleMentor)

	student := newUser(models.RoleStudent)
	if err := AssignMentor(student, mentor); err != nil || student.MentorID == nil || *student.MentorID != mentor.ID {
		t.Fatalf("student should get mentor, err=%v", err)
	}
	if err := AssignMentor(student, nil); err != nil || student.MentorID != nil {
		t.Errorf("nil mentor should clear assignment")
	}

	if err := AssignMentor(newUser(models.RoleMentor), mentor); !errors.Is(err, ErrOnlyStudents) {
		t.Errorf("mentor cannot have a mentor, got %v", err)
	}
	if err := AssignMentor(newUser(models.RoleStudent), newUser(models.RoleAdmin)); !errors.Is(err, ErrNotAMentor) {
		t.Errorf("admin is not a mentor, got %v", err)
	}
	if err := AssignMentor(newUser(models.RoleStudent), newUser(models.RoleStudent)); !errors.Is(err, ErrNotAMentor) {
		t.Errorf("student is not a mentor, got %v", err)
	}
}

func TestChangeRole(t *testing.T) {
	mentor := newUser(models.RoleMentor)

	student := withMentor(newUser(models.RoleStudent), mentor)
	unassign, err := ChangeRole(student, models.RoleMentor)
	if err != nil || unassign {
		t.Fatalf("student promoted to mentor: unassign=%v err=%v", unassign, err)
	}
	if student.MentorID != nil {
		t.Error("promoted student should lose its mentor")
	}

	unassign, err = ChangeRole(mentor, models.RoleStudent)
	if err != nil || !unassign {
		t.Errorf("demoted mentor should unassign students: unassign=%v err=%v", unassign, err)
	}

	still := newUser(models.RoleMentor)
	if unassign, _ := ChangeRole(still, models.RoleMentor); unassign {
		t.Error("unchanged mentor role should not unassign")
	}

	kept := withMentor(newUser(models.RoleStudent), mentor)
	if _, err := ChangeRole(kept, models.RoleStudent); err != nil || kept.MentorID == nil {
		t.Error("student staying a student keeps the mentor")
	}

	if _, err := ChangeRole(newUser(models.RoleStudent), "owner"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSummarize(t *testing.T) {
	today, _ := activity.ParseDate("2024-01-11")
	ev := activity.Events{
		Logins:              []*time.Time{at("2024-01-10T08:00:00Z")},
		ResourceCompletions: []*time.Time{at("2024-01-10T12:00:00Z"), at("2022-05-01T12:00:00Z")},
		QuizAttempts:        []*time.Time{at("2024-01-11T09:30:00Z"), nil},
	}

	s := Summarize(ev, today)

	if s.Streak != 2 {
		t.Errorf("expected streak 2, got %d", s.Streak)
	}
	if s.ActiveDays != 2 {
		t.Errorf("old activity outside the window should not count, got %d active days", s.ActiveDays)
	}
	if len(s.Heatmap) != activity.HeatmapWindow {
		t.Fatalf("expected %d heatmap cells, got %d", activity.HeatmapWindow, len(s.Heatmap))
	}
	last := s.Heatmap[len(s.Heatmap)-1]
	prev := s.Heatmap[len(s.Heatmap)-2]
	if last.Date != today || last.Value != 1 || prev.Value != 2 {
		t.Errorf("unexpected tail of heatmap: %+v %+v", prev, last)
	}
}

func TestScoresFromAttempts(t *testing.T) {
	older := models.QuizAttempt{ID: uuid.New(), Score: 1, TotalQuestions: 3, AttemptDate: *at("2024-01-01T10:00:00Z"), Quiz: models.Quiz{Title: "Fractions"}}
	newer := models.QuizAttempt{ID: uuid.New(), Score: 2, TotalQuestions: 2, AttemptDate: *at("2024-02-01T10:00:00Z"), Quiz: models.Quiz{Title: "Algebra"}}
	empty := models.QuizAttempt{ID: uuid.New(), AttemptDate: *at("2023-12-01T10:00:00Z"), Quiz: models.Quiz{Title: "Empty"}}

	scores := ScoresFromAttempts([]models.QuizAttempt{older, empty, newer})

	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[0].QuizTitle != "Algebra" || scores[1].QuizTitle != "Fractions" || scores[2].QuizTitle != "Empty" {
		t.Errorf("scores not newest first: %s, %s, %s", scores[0].QuizTitle, scores[1].QuizTitle, scores[2].QuizTitle)
	}
	if scores[0].Percentage != 100 || scores[1].Percentage != 33.3 || scores[2].Percentage != 0 {
		t.Errorf("unexpected percentages %v %v %v", scores[0].Percentage, scores[1].Percentage, scores[2].Percentage)
	}
	if scores[1].Score != 1 || scores[1].Total != 3 {
		t.Errorf("unexpected score fields %+v", scores[1])
	}
}

func TestRenderReportHTML(t *testing.T) {
	p := &Profile{
		User:                  &models.User{Username: "amina"},
		ActivitySummary:       ActivitySummary{Streak: 4, ActiveDays: 12},
		ModulesCompletedCount: 3,
		TotalResources:        10,
		QuizScores: []QuizScore{
			{QuizTitle: "Fractions", Score: 1, Total: 3, Percentage: 33.3, AttemptDate: *at("2024-01-01T10:00:00Z")},
		},
	}

	html, err := renderReportHTML(p, *at("2024-01-11T00:00:00Z"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"amina", "January 11, 2024", "<b>4</b>", "<b>12</b>", "3 / 10", "Fractions", "1 / 3", "33.3"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}

	p.QuizScores = nil
	html, err = renderReportHTML(p, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "No quizzes attempted yet.") {
		t.Error("empty report should say no quizzes were attempted")
	}
}
