package handlers

import (
	"log"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	Bio               *string `json:"bio" validate:"omitempty,max=1000"`
	ExpertiseAreas    *string `json:"expertise_areas" validate:"omitempty,max=200"`
	ContactPreference *string `json:"contact_preference" validate:"omitempty,max=50"`
}

func renderProfile(c *fiber.Ctx, user *models.User) error {
	profile, err := services.NewProfileService(database.DB).Build(c.UserContext(), user)
	if err != nil {
		log.Printf("🔥 Failed to build profile for %s: %v", user.ID, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to build profile")
	}
	return c.JSON(profile)
}

func GetMyProfile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.Preload("Mentor").First(&user, "id = ?", actor.UserID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}
	if err := services.NewUserService(database.DB).Touch(c.UserContext(), user.ID); err != nil {
		log.Printf("⚠️ Failed to record activity for %s: %v", user.ID, err)
	}
	return renderProfile(c, &user)
}

// GetUserProfile shows any user's profile by username. Viewing one's own
// profile counts as activity.
func GetUserProfile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.Preload("Mentor").Where("username = ?", c.Params("username")).First(&user).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}
	if user.ID == actor.UserID {
		if err := services.NewUserService(database.DB).Touch(c.UserContext(), user.ID); err != nil {
			log.Printf("⚠️ Failed to record activity for %s: %v", user.ID, err)
		}
	}
	return renderProfile(c, &user)
}

func UpdateProfile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := services.NewUserService(database.DB).Update(c.UserContext(), actor.UserID, services.UserUpdate{
		Bio:               req.Bio,
		ExpertiseAreas:    req.ExpertiseAreas,
		ContactPreference: req.ContactPreference,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(user)
}

// reportStudent resolves whose report is requested: students get their own,
// admins pass ?student_id=.
func reportStudent(c *fiber.Ctx, actor models.Actor) (*models.User, error) {
	studentID := actor.UserID
	if actor.IsAdmin() && c.Query("student_id") != "" {
		id, err := uuid.Parse(c.Query("student_id"))
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid student_id")
		}
		studentID = id
	}

	var student models.User
	if err := database.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	if !student.IsStudent() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Progress reports are only available for students")
	}
	return &student, nil
}

func GenerateProgressReport(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	student, err := reportStudent(c, actor)
	if err != nil {
		return err
	}

	svc := services.NewReportService(database.DB, services.NewProfileService(database.DB))
	report, err := svc.Generate(c.UserContext(), student)
	if err != nil {
		log.Printf("🔥 Failed to generate progress report for %s: %v", student.ID, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to generate progress report")
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func ListProgressReports(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	student, err := reportStudent(c, actor)
	if err != nil {
		return err
	}

	svc := services.NewReportService(database.DB, services.NewProfileService(database.DB))
	reports, err := svc.List(c.UserContext(), student.ID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load progress reports")
	}
	return c.JSON(reports)
}
