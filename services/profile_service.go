package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/anjiri1684/mentor_connect/activity"
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizScore struct {
	AttemptID   uuid.UUID `json:"attempt_id"`
	QuizID      uuid.UUID `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  float64   `json:"percentage"`
	AttemptDate time.Time `json:"attempt_date"`
}

type ActivitySummary struct {
	Streak     int             `json:"streak"`
	ActiveDays int             `json:"active_days"`
	Heatmap    []activity.Cell `json:"heatmap"`
}

type Profile struct {
	User *models.User `json:"user"`
	ActivitySummary
	QuizScores            []QuizScore `json:"quiz_scores"`
	TotalPossibleScore    int64       `json:"total_possible_score"`
	ModulesCompletedCount int64       `json:"modules_completed_count"`
	TotalResources        int64       `json:"total_resources"`
}

// Summarize derives streak, heatmap and the number of active days inside the
// heatmap window from one user's raw events.
func Summarize(ev activity.Events, today activity.Date) ActivitySummary {
	counts := activity.Aggregate(ev)
	return ActivitySummary{
		Streak:     activity.Streak(counts, today),
		ActiveDays: counts.ActiveDaysBetween(today.AddDays(-(activity.HeatmapWindow - 1)), today),
		Heatmap:    activity.Heatmap(counts, today),
	}
}

// ScoresFromAttempts lists graded attempts newest first.
func ScoresFromAttempts(attempts []models.QuizAttempt) []QuizScore {
	scores := make([]QuizScore, 0, len(attempts))
	for _, a := range attempts {
		scores = append(scores, QuizScore{
			AttemptID:   a.ID,
			QuizID:      a.QuizID,
			QuizTitle:   a.Quiz.Title,
			Score:       a.Score,
			Total:       a.TotalQuestions,
			Percentage:  percentage(a.Score, a.TotalQuestions),
			AttemptDate: a.AttemptDate,
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].AttemptDate.After(scores[j].AttemptDate)
	})
	return scores
}

func percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*1000) / 10
}

type ProfileService struct {
	db      *gorm.DB
	events  activity.EventStore
	quizzes *database.QuizStore
	now     func() time.Time
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db:      db,
		events:  database.NewActivityStore(db),
		quizzes: database.NewQuizStore(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProfileService) Today() activity.Date {
	return activity.DateOf(s.now())
}

func (s *ProfileService) Activity(ctx context.Context, userID uuid.UUID) (ActivitySummary, error) {
	ev, err := s.events.Events(ctx, userID)
	if err != nil {
		return ActivitySummary{}, err
	}
	return Summarize(ev, s.Today()), nil
}

// Build assembles the profile of user. Quiz figures are only filled for students.
func (s *ProfileService) Build(ctx context.Context, user *models.User) (*Profile, error) {
	summary, err := s.Activity(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: user, ActivitySummary: summary, QuizScores: []QuizScore{}}

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.StudentResourceCompletion{}).Where("student_id = ?", user.ID).Count(&p.ModulesCompletedCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Resource{}).Count(&p.TotalResources).Error; err != nil {
		return nil, err
	}

	if !user.IsStudent() {
		return p, nil
	}
	if err := db.Model(&models.Question{}).Count(&p.TotalPossibleScore).Error; err != nil {
		return nil, err
	}
	attempts, err := s.quizzes.AttemptsForStudent(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	p.QuizScores = ScoresFromAttempts(attempts)
	return p, nil
}
