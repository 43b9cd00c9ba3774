package routes

import (
	"github.com/anjiri1684/mentor_connect/handlers"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	mentor := api.Group("/mentor/quizzes", middleware.Protected(), middleware.MentorRequired())
	mentor.Post("", handlers.CreateQuiz)
	mentor.Get("", handlers.ListMyQuizzes)
	mentor.Get("/:quizId", handlers.GetQuizForEdit)
	mentor.Put("/:quizId", handlers.UpdateQuiz)
	mentor.Delete("/:quizId", handlers.DeleteQuiz)
	mentor.Get("/:quizId/results", handlers.GetQuizResults)

	quizzes := api.Group("/quizzes", middleware.Protected(), middleware.StudentRequired())
	quizzes.Get("", handlers.ListAvailableQuizzes)
	quizzes.Get("/:quizId", handlers.GetQuizForm)
	quizzes.Post("/:quizId/submit", handlers.SubmitQuiz)

	api.Get("/attempts/:attemptId", middleware.Protected(), handlers.GetQuizAttempt)
}
