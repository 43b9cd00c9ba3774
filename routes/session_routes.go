package routes

import (
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("", handlers.ListMySessions)
	sessions.Post("/students/:studentId", middleware.MentorRequired(), handlers.CreateSessionLog)
	sessions.Get("/students/:studentId", middleware.MentorRequired(), handlers.ListStudentSessions)
}
