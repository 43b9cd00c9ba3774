package routes

import (
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)

	api.Get("/home", middleware.Protected(), handlers.Home)
	api.Get("/dashboard", middleware.Protected(), handlers.GetDashboard)
}
