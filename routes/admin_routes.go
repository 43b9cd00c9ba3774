package routes

import (
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Post("", handlers.AdminCreateUser)
	users.Get("/:userId", handlers.GetUser)
	users.Put("/:userId", handlers.AdminUpdateUser)
	users.Put("/:userId/password", handlers.AdminSetPassword)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	admin.Get("/mentors", handlers.ListMentors)

	announcements := admin.Group("/announcements")
	announcements.Post("", handlers.CreateAnnouncement)
	announcements.Delete("/:announcementId", handlers.DeleteAnnouncement)
}
