package handlers

import (
	"time"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionLogRequest struct {
	SessionDate     time.Time `json:"session_date" validate:"required"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gt=0"`
	TopicsDiscussed string    `json:"topics_discussed" validate:"required"`
	ProgressNotes   *string   `json:"progress_notes"`
}

// mentoredStudent loads a student the caller may log sessions for: their own
// assigned student, or any student for an admin.
func mentoredStudent(c *fiber.Ctx, actor models.Actor) (*models.User, error) {
	studentID, err := uuidParam(c, "studentId")
	if err != nil {
		return nil, err
	}
	var student models.User
	if err := database.DB.First(&student, "id = ? AND role = ?", studentID, models.RoleStudent).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	assigned := student.MentorID != nil && *student.MentorID == actor.UserID
	if !assigned && !actor.IsAdmin() {
		return nil, fiber.NewError(fiber.StatusForbidden, "You are not the mentor of this student")
	}
	return &student, nil
}

func CreateSessionLog(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	student, err := mentoredStudent(c, actor)
	if err != nil {
		return err
	}
	var req SessionLogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session := models.SessionLog{
		ID:              uuid.New(),
		MentorID:        actor.UserID,
		StudentID:       student.ID,
		SessionDate:     req.SessionDate.UTC(),
		DurationMinutes: req.DurationMinutes,
		TopicsDiscussed: req.TopicsDiscussed,
		ProgressNotes:   req.ProgressNotes,
	}
	now := time.Now().UTC()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Mentor", "Student").Create(&session).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id IN ?", []uuid.UUID{actor.UserID, student.ID}).
			Update("last_activity", now).Error
	})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to log session")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func ListStudentSessions(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	student, err := mentoredStudent(c, actor)
	if err != nil {
		return err
	}

	var sessions []models.SessionLog
	database.DB.Preload("Mentor").Where("student_id = ?", student.ID).Order("session_date desc").Find(&sessions)
	return c.JSON(sessions)
}

// ListMySessions returns the sessions the caller took part in, or every
// session for an admin.
func ListMySessions(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var sessions []models.SessionLog
	query := database.DB.Preload("Mentor").Preload("Student").Order("session_date desc")
	switch {
	case actor.IsMentor():
		query = query.Where("mentor_id = ?", actor.UserID)
	case actor.IsStudent():
		query = query.Where("student_id = ?", actor.UserID)
	}
	query.Find(&sessions)
	return c.JSON(sessions)
}
