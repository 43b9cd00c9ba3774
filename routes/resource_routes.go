package routes

import (
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func ResourceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	resources := api.Group("/resources", middleware.Protected())
	resources.Get("", handlers.ListResources)
	resources.Get("/categories", handlers.ListResourceCategories)
	resources.Post("", middleware.MentorRequired(), handlers.CreateResource)
	resources.Put("/:resourceId", middleware.MentorRequired(), handlers.UpdateResource)
	resources.Delete("/:resourceId", middleware.MentorRequired(), handlers.DeleteResource)
	resources.Get("/:resourceId/upload-signature", middleware.MentorRequired(), handlers.GenerateResourceUploadSignature)
	resources.Post("/:resourceId/complete", middleware.StudentRequired(), handlers.CompleteResource)
}
