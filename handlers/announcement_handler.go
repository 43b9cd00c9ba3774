package handlers

import (
	"fmt"
	"html"
	"time"

	config "github.com/anjiri1684/mentor_connect/configs"
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required,min=2,max=100"`
	Content string `json:"content" validate:"required"`
}

func announcementEmail(a *models.Announcement) string {
	link := config.ConfigDefault("FRONTEND_URL", "http://localhost:3000")
	return fmt.Sprintf(
		"<h1>%s</h1><p>%s</p><p><a href='%s'>View it on MentorConnect</a></p><p>Best regards,<br>The MentorConnect Team</p>",
		html.EscapeString(a.Title), html.EscapeString(a.Content), link,
	)
}

// CreateAnnouncement stores the announcement and emails every user in the
// background.
func CreateAnnouncement(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req AnnouncementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	announcement := models.Announcement{
		ID:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		DatePosted: time.Now().UTC(),
		AdminID:    actor.UserID,
	}
	if err := database.DB.Omit("Admin").Create(&announcement).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create announcement")
	}

	var recipients []models.User
	database.DB.Select("username", "email").Find(&recipients)
	subject := "New Announcement: " + announcement.Title
	body := announcementEmail(&announcement)
	for _, u := range recipients {
		notifications.SendEmail(u.Username, u.Email, subject, body)
	}

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

func ListAnnouncements(c *fiber.Ctx) error {
	var announcements []models.Announcement
	database.DB.Preload("Admin").Order("date_posted desc").Find(&announcements)
	return c.JSON(announcements)
}

func DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuidParam(c, "announcementId")
	if err != nil {
		return err
	}
	result := database.DB.Delete(&models.Announcement{}, "id = ?", id)
	if result.Error != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete announcement")
	}
	if result.RowsAffected == 0 {
		return errorJSON(c, fiber.StatusNotFound, "Announcement not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
