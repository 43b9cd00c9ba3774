package handlers

import (
	"time"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

var ResourceCategories = []string{"Academics", "Career Development", "Life Skills", "Mental Health", "Other"}

type ResourceRequest struct {
	Title       string  `json:"title" validate:"required,min=2,max=150"`
	Description *string `json:"description"`
	LinkURL     *string `json:"link_url" validate:"omitempty,url,max=255"`
	Category    *string `json:"category" validate:"omitempty,oneof='Academics' 'Career Development' 'Life Skills' 'Mental Health' 'Other'"`
}

func ListResourceCategories(c *fiber.Ctx) error {
	return c.JSON(ResourceCategories)
}

func CreateResource(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ResourceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resource := models.Resource{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		LinkURL:     req.LinkURL,
		Category:    req.Category,
		DateAdded:   time.Now().UTC(),
		UserID:      actor.UserID,
	}
	if err := database.DB.Omit("Creator").Create(&resource).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create resource")
	}
	return c.Status(fiber.StatusCreated).JSON(resource)
}

// ListResources filters by ?category= and reports which ones the caller has completed.
func ListResources(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var resources []models.Resource
	query := database.DB.Order("date_added desc")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&resources).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load resources")
	}

	var completed []uuid.UUID
	database.DB.Model(&models.StudentResourceCompletion{}).Where("student_id = ?", actor.UserID).Pluck("resource_id", &completed)

	return c.JSON(fiber.Map{
		"resources":     resources,
		"categories":    ResourceCategories,
		"completed_ids": completed,
	})
}

func ownedResource(c *fiber.Ctx, actor models.Actor) (*models.Resource, error) {
	id, err := uuidParam(c, "resourceId")
	if err != nil {
		return nil, err
	}
	var resource models.Resource
	if err := database.DB.First(&resource, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Resource not found")
	}
	if resource.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, fiber.NewError(fiber.StatusForbidden, "You can only change resources you created")
	}
	return &resource, nil
}

func UpdateResource(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	resource, err := ownedResource(c, actor)
	if err != nil {
		return err
	}
	var req ResourceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resource.Title = req.Title
	resource.Description = req.Description
	resource.LinkURL = req.LinkURL
	resource.Category = req.Category
	if err := database.DB.Omit("Creator").Save(resource).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update resource")
	}
	return c.JSON(resource)
}

func DeleteResource(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	resource, err := ownedResource(c, actor)
	if err != nil {
		return err
	}

	tx := database.DB.Begin()
	if err := tx.Where("resource_id = ?", resource.ID).Delete(&models.StudentResourceCompletion{}).Error; err != nil {
		tx.Rollback()
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete resource")
	}
	if err := tx.Delete(resource).Error; err != nil {
		tx.Rollback()
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete resource")
	}
	if err := tx.Commit().Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete resource")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteResource marks a resource done for the calling student. Marking it
// twice keeps the first completion time.
func CompleteResource(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "resourceId")
	if err != nil {
		return err
	}
	var resource models.Resource
	if err := database.DB.First(&resource, "id = ?", id).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Resource not found")
	}

	completion := models.StudentResourceCompletion{
		ID:          uuid.New(),
		StudentID:   actor.UserID,
		ResourceID:  resource.ID,
		CompletedAt: time.Now().UTC(),
	}
	result := database.DB.Omit("Resource").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "student_id"}, {Name: "resource_id"}}, DoNothing: true}).
		Create(&completion)
	if result.Error != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to mark resource as completed")
	}
	recordActivity(c, actor.UserID)
	if result.RowsAffected == 0 {
		return c.JSON(fiber.Map{"message": "Resource already completed"})
	}
	return c.Status(fiber.StatusCreated).JSON(completion)
}
