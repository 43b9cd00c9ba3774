package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrOnlyStudents     = errors.New("only students can be assigned a mentor")
	ErrNotAMentor       = errors.New("assigned user is not a mentor")
	ErrCannotDeleteSelf = errors.New("you cannot delete your own account")
	ErrUserExists       = errors.New("username or email already exists")
	ErrUserNotFound     = errors.New("user not found")
)

// AssignMentor sets or clears the mentor of u. mentor may be nil.
func AssignMentor(u *models.User, mentor *models.User) error {
	if mentor == nil {
		u.MentorID = nil
		return nil
	}
	if !u.IsStudent() {
		return ErrOnlyStudents
	}
	if !mentor.IsMentor() || mentor.ID == u.ID {
		return ErrNotAMentor
	}
	id := mentor.ID
	u.MentorID = &id
	return nil
}

// ChangeRole updates the role of u. A user leaving the student role loses its
// mentor; the returned flag is true when u stopped being a mentor and its
// students must be unassigned.
func ChangeRole(u *models.User, role string) (unassignStudents bool, err error) {
	if !models.ValidRole(role) {
		return false, ErrInvalidRole
	}
	previous := u.Role
	u.Role = role
	if role != models.RoleStudent {
		u.MentorID = nil
	}
	return previous == models.RoleMentor && role != models.RoleMentor, nil
}

type NewUser struct {
	Username          string
	Email             string
	Password          string
	Role              string
	MentorID          *uuid.UUID
	Bio               *string
	ExpertiseAreas    *string
	ContactPreference *string
}

type UserUpdate struct {
	Username          *string
	Email             *string
	Role              *string
	MentorID          *uuid.UUID
	ClearMentor       bool
	Bio               *string
	ExpertiseAreas    *string
	ContactPreference *string
}

type UserFilter struct {
	Search         string
	Role           string
	MentorAssigned string // "assigned", "unassigned" or empty
	Page           int
	PageSize       int
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func findUser(tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := tx.First(&u, "id = ?", id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func findMentor(tx *gorm.DB, id *uuid.UUID) (*models.User, error) {
	if id == nil {
		return nil, nil
	}
	m, err := findUser(tx, *id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrNotAMentor
	}
	return m, err
}

func uniqueErr(err error) error {
	if database.IsUniqueViolation(err) {
		return ErrUserExists
	}
	return err
}

func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		username := strings.TrimSpace(in.Username)
		if username == "" {
			generated, genErr := utils.GenerateUniqueUsername(tx, in.Email)
			if genErr != nil {
				return genErr
			}
			username = generated
		}
		user = models.User{
			Username:          username,
			Email:             strings.ToLower(strings.TrimSpace(in.Email)),
			Password:          string(hashed),
			Role:              role,
			Bio:               in.Bio,
			ExpertiseAreas:    in.ExpertiseAreas,
			ContactPreference: in.ContactPreference,
		}
		mentor, err := findMentor(tx, in.MentorID)
		if err != nil {
			return err
		}
		if err := AssignMentor(&user, mentor); err != nil {
			return err
		}
		return uniqueErr(tx.Omit("Mentor").Create(&user).Error)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UserUpdate) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = findUser(tx, id)
		if err != nil {
			return err
		}
		if in.Username != nil {
			user.Username = strings.TrimSpace(*in.Username)
		}
		if in.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		if in.Bio != nil {
			user.Bio = in.Bio
		}
		if in.ExpertiseAreas != nil {
			user.ExpertiseAreas = in.ExpertiseAreas
		}
		if in.ContactPreference != nil {
			user.ContactPreference = in.ContactPreference
		}

		unassign := false
		if in.Role != nil {
			if unassign, err = ChangeRole(user, *in.Role); err != nil {
				return err
			}
		}
		switch {
		case in.ClearMentor:
			user.MentorID = nil
		case in.MentorID != nil:
			mentor, err := findMentor(tx, in.MentorID)
			if err != nil {
				return err
			}
			if err := AssignMentor(user, mentor); err != nil {
				return err
			}
		}

		if unassign {
			if err := unassignStudents(tx, user.ID); err != nil {
				return err
			}
		}
		return uniqueErr(tx.Omit("Mentor").Save(user).Error)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", string(hashed))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func unassignStudents(tx *gorm.DB, mentorID uuid.UUID) error {
	return tx.Model(&models.User{}).Where("mentor_id = ?", mentorID).Update("mentor_id", nil).Error
}

// Delete removes a user and the records that belong to them. Content the user
// authored for others (quizzes, resources, announcements) passes to the admin
// performing the deletion.
func (s *UserService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return ErrCannotDeleteSelf
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if user.IsMentor() {
			if err := unassignStudents(tx, user.ID); err != nil {
				return err
			}
		}

		attempts := tx.Model(&models.QuizAttempt{}).Select("id").Where("student_id = ?", id)
		steps := []struct {
			what string
			run  func() error
		}{
			{"answers", func() error { return tx.Where("attempt_id IN (?)", attempts).Delete(&models.QuizAnswer{}).Error }},
			{"attempts", func() error { return tx.Where("student_id = ?", id).Delete(&models.QuizAttempt{}).Error }},
			{"completions", func() error { return tx.Where("student_id = ?", id).Delete(&models.StudentResourceCompletion{}).Error }},
			{"reports", func() error { return tx.Where("student_id = ?", id).Delete(&models.ProgressReport{}).Error }},
			{"messages", func() error {
				return tx.Where("sender_id = ? OR receiver_id = ?", id, id).Delete(&models.Message{}).Error
			}},
			{"sessions", func() error {
				return tx.Where("mentor_id = ? OR student_id = ?", id, id).Delete(&models.SessionLog{}).Error
			}},
			{"quizzes", func() error {
				return tx.Model(&models.Quiz{}).Where("creator_id = ?", id).Update("creator_id", actor.UserID).Error
			}},
			{"resources", func() error {
				return tx.Model(&models.Resource{}).Where("user_id = ?", id).Update("user_id", actor.UserID).Error
			}},
			{"announcements", func() error {
				return tx.Model(&models.Announcement{}).Where("admin_id = ?", id).Update("admin_id", actor.UserID).Error
			}},
		}
		for _, step := range steps {
			if err := step.run(); err != nil {
				return fmt.Errorf("delete user %s: %w", step.what, err)
			}
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

func (f UserFilter) scope(db *gorm.DB) *gorm.DB {
	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + q + "%"
		db = db.Where("username ILIKE ? OR email ILIKE ?", like, like)
	}
	if f.Role != "" {
		db = db.Where("role = ?", f.Role)
	}
	switch f.MentorAssigned {
	case "assigned":
		db = db.Where("role = ? AND mentor_id IS NOT NULL", models.RoleStudent)
	case "unassigned":
		db = db.Where("role = ? AND mentor_id IS NULL", models.RoleStudent)
	}
	return db
}

func (s *UserService) List(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Scopes(f.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	var users []models.User
	err := s.db.WithContext(ctx).Scopes(f.scope).Preload("Mentor").
		Order("username ASC").Offset((page - 1) * size).Limit(size).
		Find(&users).Error
	return users, total, err
}

// Touch records activity for a user.
func (s *UserService) Touch(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_activity", time.Now().UTC()).Error
}
