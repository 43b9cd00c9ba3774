package routes

import (
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/me", handlers.GetMyProfile)
	profile.Put("", handlers.UpdateProfile)
	profile.Post("/reports", middleware.StudentRequired(), handlers.GenerateProgressReport)
	profile.Get("/reports", middleware.StudentRequired(), handlers.ListProgressReports)
	profile.Get("/:username", handlers.GetUserProfile)

	api.Get("/announcements", middleware.Protected(), handlers.ListAnnouncements)
}
