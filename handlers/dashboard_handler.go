package handlers

import (
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminDashboardResponse struct {
	TotalUsers       int64                 `json:"total_users"`
	TotalMentors     int64                 `json:"total_mentors"`
	TotalStudents    int64                 `json:"total_students"`
	AssignedStudents int64                 `json:"assigned_students"`
	TotalSessions    int64                 `json:"total_sessions"`
	TotalResources   int64                 `json:"total_resources"`
	TotalQuizzes     int64                 `json:"total_quizzes"`
	Announcements    []models.Announcement `json:"announcements"`
}

func recentAnnouncements(limit int) []models.Announcement {
	var announcements []models.Announcement
	database.DB.Order("date_posted desc").Limit(limit).Find(&announcements)
	return announcements
}

func adminDashboard(c *fiber.Ctx) error {
	var response AdminDashboardResponse

	database.DB.Model(&models.User{}).Count(&response.TotalUsers)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleMentor).Count(&response.TotalMentors)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&response.TotalStudents)
	database.DB.Model(&models.User{}).Where("role = ? AND mentor_id IS NOT NULL", models.RoleStudent).Count(&response.AssignedStudents)
	database.DB.Model(&models.SessionLog{}).Count(&response.TotalSessions)
	database.DB.Model(&models.Resource{}).Count(&response.TotalResources)
	database.DB.Model(&models.Quiz{}).Count(&response.TotalQuizzes)
	response.Announcements = recentAnnouncements(5)

	return c.JSON(response)
}

func mentorDashboard(c *fiber.Ctx, mentorID uuid.UUID) error {
	var students []models.User
	database.DB.Where("mentor_id = ?", mentorID).Order("username").Find(&students)

	var sessions []models.SessionLog
	database.DB.Preload("Student").Where("mentor_id = ?", mentorID).Order("session_date desc").Limit(5).Find(&sessions)

	quizzes, err := database.NewQuizStore(database.DB).ListQuizzes(c.UserContext(), &mentorID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load quizzes")
	}

	return c.JSON(fiber.Map{
		"assigned_students": students,
		"recent_sessions":   sessions,
		"quizzes":           quizzes,
		"announcements":     recentAnnouncements(5),
	})
}

func studentDashboard(c *fiber.Ctx, studentID uuid.UUID) error {
	var student models.User
	if err := database.DB.Preload("Mentor").First(&student, "id = ?", studentID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}

	var sessions []models.SessionLog
	database.DB.Preload("Mentor").Where("student_id = ?", studentID).Order("session_date desc").Limit(5).Find(&sessions)

	quizzes, err := database.NewQuizStore(database.DB).ListQuizzes(c.UserContext(), nil)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load quizzes")
	}

	attemptedByQuiz, err := attemptedQuizzes(c.UserContext(), database.DB, studentID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load quiz attempts")
	}
	attempted := make([]uuid.UUID, 0, len(attemptedByQuiz))
	for quizID := range attemptedByQuiz {
		attempted = append(attempted, quizID)
	}

	return c.JSON(fiber.Map{
		"mentor":             student.Mentor,
		"announcements":      recentAnnouncements(5),
		"recent_sessions":    sessions,
		"available_quizzes":  quizzes,
		"attempted_quiz_ids": attempted,
	})
}

func GetDashboard(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	switch {
	case actor.IsAdmin():
		return adminDashboard(c)
	case actor.IsMentor():
		return mentorDashboard(c, actor.UserID)
	default:
		return studentDashboard(c, actor.UserID)
	}
}
