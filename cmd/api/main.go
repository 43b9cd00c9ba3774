package main

import (
	"log"
	"time"

	config "github.com/anjiri1684/mentor_connect/configs"
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/jobs"
	"github.com/anjiri1684/mentor_connect/notifications"
	"github.com/anjiri1684/mentor_connect/routes"
	"github.com/anjiri1684/mentor_connect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	c := cron.New()
	if _, err := c.AddFunc("0 18 * * *", jobs.SendStreakReminders); err != nil {
		log.Fatalf("🔥 Failed to schedule streak reminders: %v", err)
	}
	if _, err := c.AddFunc("0 8 * * 1", jobs.SendMentorDigests); err != nil {
		log.Fatalf("🔥 Failed to schedule mentor digests: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Println("✅ Cron jobs for streak reminders and mentor digests scheduled successfully.")

	go websocket.DefaultHub.Run()

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Mentor Connect",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	origins := config.ConfigDefault("FRONTEND_URL", "*")
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   config.ConfigDefault("APP_TIMEZONE", "UTC"),
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Mentor Connect API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.AdminRoutes(app)
	routes.SessionRoutes(app)
	routes.ResourceRoutes(app)
	routes.UploadRoutes(app)
	routes.QuizRoutes(app)
	routes.MessagingRoutes(app)

	port := config.ConfigDefault("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
