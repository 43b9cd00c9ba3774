package database

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/quiz"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizStore persists quizzes and attempts. It implements quiz.Store.
type QuizStore struct {
	db *gorm.DB
}

func NewQuizStore(db *gorm.DB) *QuizStore {
	return &QuizStore{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func notFound(err error) error {
	if IsNotFound(err) {
		return quiz.ErrNotFound
	}
	return err
}

func loadQuiz(db *gorm.DB, quizID uuid.UUID) (*models.Quiz, error) {
	var q models.Quiz
	err := db.
		Preload("Questions", byPosition).
		Preload("Questions.Options", byPosition).
		First(&q, "id = ?", quizID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (s *QuizStore) FindQuiz(ctx context.Context, quizID uuid.UUID) (*models.Quiz, error) {
	return loadQuiz(s.db.WithContext(ctx), quizID)
}

func (s *QuizStore) FindAttempt(ctx context.Context, attemptID uuid.UUID) (*models.QuizAttempt, error) {
	var a models.QuizAttempt
	if err := s.db.WithContext(ctx).Preload("Answers").First(&a, "id = ?", attemptID).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *QuizStore) FindAttemptByStudent(ctx context.Context, quizID, studentID uuid.UUID) (*models.QuizAttempt, error) {
	var a models.QuizAttempt
	err := s.db.WithContext(ctx).Where("quiz_id = ? AND student_id = ?", quizID, studentID).First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *QuizStore) Transaction(ctx context.Context, fn func(tx quiz.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&quizTx{db: tx})
	})
}

type quizTx struct {
	db *gorm.DB
}

// FindQuiz holds a share lock on the quiz row; ReplaceQuiz and DeleteQuiz
// lock it for update before touching questions.
func (t *quizTx) FindQuiz(quizID uuid.UUID) (*models.Quiz, error) {
	return loadQuiz(t.db.Clauses(clause.Locking{Strength: "SHARE"}), quizID)
}

func (t *quizTx) TouchActivity(userID uuid.UUID, at time.Time) error {
	return touchActivity(t.db, userID, at)
}

func (t *quizTx) CreateAttempt(attempt *models.QuizAttempt) error {
	err := t.db.Omit("Answers", "Quiz", "Student").Create(attempt).Error
	if IsUniqueViolation(err) {
		return quiz.ErrAlreadyAttempted
	}
	return err
}

func (t *quizTx) CreateAnswer(answer *models.QuizAnswer) error {
	return t.db.Create(answer).Error
}

func (t *quizTx) SetScore(attemptID uuid.UUID, score int) error {
	res := t.db.Model(&models.QuizAttempt{}).Where("id = ?", attemptID).Update("score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

// QuizSummary is a quiz row with its question count for listings.
type QuizSummary struct {
	models.Quiz
	QuestionCount int64 `json:"question_count"`
}

func (s *QuizStore) ListQuizzes(ctx context.Context, creatorID *uuid.UUID) ([]QuizSummary, error) {
	var quizzes []models.Quiz
	db := s.db.WithContext(ctx).Order("date_created DESC")
	if creatorID != nil {
		db = db.Where("creator_id = ?", *creatorID)
	}
	if err := db.Find(&quizzes).Error; err != nil {
		return nil, err
	}

	out := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Question{}).Where("quiz_id = ?", q.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		out = append(out, QuizSummary{Quiz: q, QuestionCount: n})
	}
	return out, nil
}

// CreateQuiz stores a quiz and its full question set.
func (s *QuizStore) CreateQuiz(ctx context.Context, q *models.Quiz, questions []models.Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Creator").Create(q).Error; err != nil {
			return err
		}
		return insertQuestions(tx, questions)
	})
}

// ReplaceQuiz updates the quiz header and replaces every question and option.
// Answers pointing at the removed questions are deleted with them. Existing
// attempts keep their score and total.
func (s *QuizStore) ReplaceQuiz(ctx context.Context, q *models.Quiz, questions []models.Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockQuiz(tx, q.ID); err != nil {
			return err
		}
		res := tx.Model(&models.Quiz{}).Where("id = ?", q.ID).
			Updates(map[string]interface{}{"title": q.Title, "description": q.Description})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return quiz.ErrNotFound
		}
		if err := deleteQuestions(tx, q.ID); err != nil {
			return err
		}
		return insertQuestions(tx, questions)
	})
}

// DeleteQuiz removes a quiz with its attempts, answers, questions and options.
func (s *QuizStore) DeleteQuiz(ctx context.Context, quizID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockQuiz(tx, quizID); err != nil {
			return err
		}
		attempts := tx.Model(&models.QuizAttempt{}).Select("id").Where("quiz_id = ?", quizID)
		if err := tx.Where("attempt_id IN (?)", attempts).Delete(&models.QuizAnswer{}).Error; err != nil {
			return fmt.Errorf("delete answers: %w", err)
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizAttempt{}).Error; err != nil {
			return fmt.Errorf("delete attempts: %w", err)
		}
		if err := deleteQuestions(tx, quizID); err != nil {
			return err
		}
		res := tx.Where("id = ?", quizID).Delete(&models.Quiz{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return quiz.ErrNotFound
		}
		return nil
	})
}

// lockQuiz waits for in-flight submissions on the quiz to commit.
func lockQuiz(tx *gorm.DB, quizID uuid.UUID) error {
	var q models.Quiz
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&q, "id = ?", quizID).Error
	return notFound(err)
}

func deleteQuestions(tx *gorm.DB, quizID uuid.UUID) error {
	questions := tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("question_id IN (?)", questions).Delete(&models.QuizAnswer{}).Error; err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if err := tx.Where("question_id IN (?)", questions).Delete(&models.Option{}).Error; err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func insertQuestions(tx *gorm.DB, questions []models.Question) error {
	for i := range questions {
		options := questions[i].Options
		if err := tx.Omit("Options").Create(&questions[i]).Error; err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		if len(options) == 0 {
			continue
		}
		if err := tx.Create(&options).Error; err != nil {
			return fmt.Errorf("create options: %w", err)
		}
	}
	return nil
}

// AttemptsForStudent returns the student's attempts with their quiz, newest first.
func (s *QuizStore) AttemptsForStudent(ctx context.Context, studentID uuid.UUID) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.db.WithContext(ctx).Preload("Quiz").
		Where("student_id = ?", studentID).
		Order("attempt_date DESC").
		Find(&attempts).Error
	return attempts, err
}

// AttemptsForQuiz returns every attempt on a quiz with the student, newest first.
func (s *QuizStore) AttemptsForQuiz(ctx context.Context, quizID uuid.UUID) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.db.WithContext(ctx).Preload("Student").
		Where("quiz_id = ?", quizID).
		Order("attempt_date DESC").
		Find(&attempts).Error
	return attempts, err
}

// QuizOwner returns the creator id of a quiz.
func (s *QuizStore) QuizOwner(ctx context.Context, quizID uuid.UUID) (uuid.UUID, error) {
	var q models.Quiz
	if err := s.db.WithContext(ctx).Select("id", "creator_id").First(&q, "id = ?", quizID).Error; err != nil {
		return uuid.Nil, notFound(err)
	}
	return q.CreatorID, nil
}
