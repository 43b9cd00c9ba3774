package database

import (
	"context"
	"time"

	"github.com/anjiri1684/mentor_connect/activity"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityStore reads the three activity sources of a user from Postgres.
type ActivityStore struct {
	db *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) Events(ctx context.Context, userID uuid.UUID) (activity.Events, error) {
	var ev activity.Events
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Where("id = ?", userID).Pluck("last_login", &ev.Logins).Error; err != nil {
		return ev, err
	}
	if err := db.Model(&models.StudentResourceCompletion{}).Where("student_id = ?", userID).Pluck("completed_at", &ev.ResourceCompletions).Error; err != nil {
		return ev, err
	}
	if err := db.Model(&models.QuizAttempt{}).Where("student_id = ?", userID).Pluck("attempt_date", &ev.QuizAttempts).Error; err != nil {
		return ev, err
	}
	return ev, nil
}

// TouchLogin records a login or home visit as the user's latest login.
func (s *ActivityStore) TouchLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"last_login": at, "last_activity": at}).Error
}

// TouchActivity records at as the user's latest activity.
func (s *ActivityStore) TouchActivity(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return touchActivity(s.db.WithContext(ctx), userID, at)
}

func touchActivity(db *gorm.DB, userID uuid.UUID, at time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("last_activity", at).Error
}
