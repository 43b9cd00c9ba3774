package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/middleware"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/quiz"
	"github.com/anjiri1684/mentor_connect/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// ErrorHandler renders errors returned from handlers. *fiber.Error keeps its
// status and message; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errorJSON(c, fe.Code, fe.Message)
	}
	log.Printf("🔥 Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func actorFrom(c *fiber.Ctx) (models.Actor, error) {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return actor, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return actor, nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// recordActivity marks the user active now. Failure does not fail the request.
func recordActivity(c *fiber.Ctx, userID uuid.UUID) {
	if err := database.NewActivityStore(database.DB).TouchActivity(c.UserContext(), userID, time.Now().UTC()); err != nil {
		log.Printf("⚠️ Failed to record activity for %s: %v", userID, err)
	}
}

func quizEngine() *quiz.Engine {
	return quiz.NewEngine(database.NewQuizStore(database.DB))
}

// domainError maps core and service errors onto HTTP statuses.
func domainError(c *fiber.Ctx, err error) error {
	var exists *quiz.AttemptExistsError
	switch {
	case errors.As(err, &exists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      "You have already completed this quiz",
			"attempt_id": exists.AttemptID,
		})
	case errors.Is(err, quiz.ErrAlreadyAttempted):
		return errorJSON(c, fiber.StatusConflict, "You have already completed this quiz")
	case errors.Is(err, quiz.ErrNotFound), errors.Is(err, services.ErrUserNotFound), database.IsNotFound(err):
		return errorJSON(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, quiz.ErrForbidden), errors.Is(err, services.ErrMessagingNotAllowed):
		return errorJSON(c, fiber.StatusForbidden, "You do not have permission to access this resource")
	case errors.Is(err, quiz.ErrInvalidQuiz),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrOnlyStudents),
		errors.Is(err, services.ErrNotAMentor),
		errors.Is(err, services.ErrCannotDeleteSelf):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserExists), database.IsUniqueViolation(err):
		return errorJSON(c, fiber.StatusConflict, "Record already exists")
	}
	log.Printf("🔥 Request failed on %s %s: %v", c.Method(), c.Path(), err)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
