package routes

import (
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	messages := api.Group("/messages", middleware.Protected())
	messages.Get("/contacts", handlers.ListContacts)
	messages.Get("/:userId", handlers.GetConversation)
	messages.Post("/:userId", handlers.SendMessage)

	api.Use("/ws", handlers.WebsocketUpgrade)
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
