package handlers

import (
	"log"
	"math"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Accounts created by an admin start with this password until reset.
const temporaryPassword = "password123"

type CreateUserRequest struct {
	Username          string     `json:"username" validate:"omitempty,min=2,max=20"`
	Email             string     `json:"email" validate:"required,email,max=120"`
	Password          string     `json:"password" validate:"omitempty,min=6"`
	Role              string     `json:"role" validate:"required,oneof=admin mentor student"`
	MentorID          *uuid.UUID `json:"mentor_id"`
	Bio               *string    `json:"bio"`
	ExpertiseAreas    *string    `json:"expertise_areas" validate:"omitempty,max=200"`
	ContactPreference *string    `json:"contact_preference" validate:"omitempty,max=50"`
}

type UpdateUserRequest struct {
	Username          *string    `json:"username" validate:"omitempty,min=2,max=20"`
	Email             *string    `json:"email" validate:"omitempty,email,max=120"`
	Role              *string    `json:"role" validate:"omitempty,oneof=admin mentor student"`
	MentorID          *uuid.UUID `json:"mentor_id"`
	ClearMentor       bool       `json:"clear_mentor"`
	Bio               *string    `json:"bio"`
	ExpertiseAreas    *string    `json:"expertise_areas" validate:"omitempty,max=200"`
	ContactPreference *string    `json:"contact_preference" validate:"omitempty,max=50"`
}

type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

func GetAllUsers(c *fiber.Ctx) error {
	filter := services.UserFilter{
		Search:         c.Query("search"),
		Role:           c.Query("role"),
		MentorAssigned: c.Query("mentor"),
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "limit", 20),
	}
	users, total, err := services.NewUserService(database.DB).List(c.UserContext(), filter)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	limit := filter.PageSize
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total_users":  total,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
			"current_page": filter.Page,
		},
	})
}

func ListMentors(c *fiber.Ctx) error {
	var mentors []models.User
	database.DB.Where("role = ?", models.RoleMentor).Order("username").Find(&mentors)
	return c.JSON(mentors)
}

func GetUser(c *fiber.Ctx) error {
	id, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var user models.User
	if err := database.DB.Preload("Mentor").First(&user, "id = ?", id).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}
	return c.JSON(user)
}

func AdminCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	password := req.Password
	if password == "" {
		password = temporaryPassword
	}

	user, err := services.NewUserService(database.DB).Create(c.UserContext(), services.NewUser{
		Username:          req.Username,
		Email:             req.Email,
		Password:          password,
		Role:              req.Role,
		MentorID:          req.MentorID,
		Bio:               req.Bio,
		ExpertiseAreas:    req.ExpertiseAreas,
		ContactPreference: req.ContactPreference,
	})
	if err != nil {
		return domainError(c, err)
	}
	log.Printf("✅ Admin created user %s with role %s", user.Username, user.Role)
	return c.Status(fiber.StatusCreated).JSON(user)
}

func AdminUpdateUser(c *fiber.Ctx) error {
	id, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := services.NewUserService(database.DB).Update(c.UserContext(), id, services.UserUpdate{
		Username:          req.Username,
		Email:             req.Email,
		Role:              req.Role,
		MentorID:          req.MentorID,
		ClearMentor:       req.ClearMentor,
		Bio:               req.Bio,
		ExpertiseAreas:    req.ExpertiseAreas,
		ContactPreference: req.ContactPreference,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(user)
}

func AdminSetPassword(c *fiber.Ctx) error {
	id, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var req SetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := services.NewUserService(database.DB).SetPassword(c.UserContext(), id, req.Password); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

func AdminDeleteUser(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	if err := services.NewUserService(database.DB).Delete(c.UserContext(), actor, id); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
