package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/quiz"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OptionRequest struct {
	Text      string `json:"text" validate:"required,max=200"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	QuestionText string          `json:"question_text" validate:"required"`
	QuestionType string          `json:"question_type" validate:"omitempty,oneof=multiple_choice"`
	Options      []OptionRequest `json:"options" validate:"required,min=2,max=5,dive"`
}

type QuizRequest struct {
	Title       string            `json:"title" validate:"required,min=2,max=100"`
	Description *string           `json:"description"`
	Questions   []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type SubmitQuizRequest struct {
	// Answers maps question id to the selected option id.
	Answers map[string]string `json:"answers"`
}

func (r QuizRequest) draft() quiz.Draft {
	d := quiz.Draft{Title: r.Title, Description: r.Description}
	for _, q := range r.Questions {
		qd := quiz.QuestionDraft{Text: q.QuestionText, Type: q.QuestionType}
		for _, o := range q.Options {
			qd.Options = append(qd.Options, quiz.OptionDraft{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		d.Questions = append(d.Questions, qd)
	}
	return d
}

func parseQuizDraft(c *fiber.Ctx) (quiz.Draft, error) {
	var req QuizRequest
	if err := parseBody(c, &req); err != nil {
		return quiz.Draft{}, err
	}
	d := req.draft()
	if err := d.Validate(); err != nil {
		return quiz.Draft{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return d, nil
}

// ownedQuiz checks that the caller created the quiz or is an admin.
func ownedQuiz(c *fiber.Ctx, store *database.QuizStore, actor models.Actor) (uuid.UUID, error) {
	quizID, err := uuidParam(c, "quizId")
	if err != nil {
		return uuid.Nil, err
	}
	owner, err := store.QuizOwner(c.UserContext(), quizID)
	if errors.Is(err, quiz.ErrNotFound) {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Quiz not found")
	}
	if err != nil {
		return uuid.Nil, err
	}
	if owner != actor.UserID && !actor.IsAdmin() {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "You can only manage quizzes you created")
	}
	return quizID, nil
}

func CreateQuiz(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	d, err := parseQuizDraft(c)
	if err != nil {
		return err
	}

	q := &models.Quiz{
		ID:          uuid.New(),
		Title:       d.Title,
		Description: d.Description,
		DateCreated: time.Now().UTC(),
		CreatorID:   actor.UserID,
	}
	questions := d.BuildQuestions(q.ID)
	if err := database.NewQuizStore(database.DB).CreateQuiz(c.UserContext(), q, questions); err != nil {
		log.Printf("🔥 Failed to create quiz: %v", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create quiz")
	}
	recordActivity(c, actor.UserID)
	q.Questions = questions
	return c.Status(fiber.StatusCreated).JSON(q)
}

// ListMyQuizzes lists the caller's quizzes; admins see all of them.
func ListMyQuizzes(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var creator *uuid.UUID
	if !actor.IsAdmin() {
		creator = &actor.UserID
	}
	quizzes, err := database.NewQuizStore(database.DB).ListQuizzes(c.UserContext(), creator)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load quizzes")
	}
	return c.JSON(quizzes)
}

// GetQuizForEdit returns the full quiz, correct options included.
func GetQuizForEdit(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	store := database.NewQuizStore(database.DB)
	quizID, err := ownedQuiz(c, store, actor)
	if err != nil {
		return err
	}
	q, err := store.FindQuiz(c.UserContext(), quizID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(q)
}

// UpdateQuiz replaces the quiz and its entire question set.
func UpdateQuiz(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	store := database.NewQuizStore(database.DB)
	quizID, err := ownedQuiz(c, store, actor)
	if err != nil {
		return err
	}
	d, err := parseQuizDraft(c)
	if err != nil {
		return err
	}

	q := &models.Quiz{ID: quizID, Title: d.Title, Description: d.Description}
	if err := store.ReplaceQuiz(c.UserContext(), q, d.BuildQuestions(quizID)); err != nil {
		return domainError(c, err)
	}
	recordActivity(c, actor.UserID)
	updated, err := store.FindQuiz(c.UserContext(), quizID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(updated)
}

func DeleteQuiz(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	store := database.NewQuizStore(database.DB)
	quizID, err := ownedQuiz(c, store, actor)
	if err != nil {
		return err
	}
	if err := store.DeleteQuiz(c.UserContext(), quizID); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func GetQuizResults(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	store := database.NewQuizStore(database.DB)
	quizID, err := ownedQuiz(c, store, actor)
	if err != nil {
		return err
	}
	attempts, err := store.AttemptsForQuiz(c.UserContext(), quizID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load results")
	}
	return c.JSON(attempts)
}

// attemptedQuizzes maps each quiz the student attempted to the attempt id.
func attemptedQuizzes(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	var attempts []models.QuizAttempt
	if err := db.WithContext(ctx).Select("id", "quiz_id").Where("student_id = ?", studentID).Find(&attempts).Error; err != nil {
		return nil, err
	}
	attempted := make(map[uuid.UUID]uuid.UUID, len(attempts))
	for _, a := range attempts {
		attempted[a.QuizID] = a.ID
	}
	return attempted, nil
}

// ListAvailableQuizzes lists every quiz with the caller's attempt, if any.
func ListAvailableQuizzes(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	quizzes, err := database.NewQuizStore(database.DB).ListQuizzes(c.UserContext(), nil)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load quizzes")
	}

	attempted, err := attemptedQuizzes(c.UserContext(), database.DB, actor.UserID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load quiz attempts")
	}

	type item struct {
		database.QuizSummary
		Attempted bool       `json:"attempted"`
		AttemptID *uuid.UUID `json:"attempt_id,omitempty"`
	}
	out := make([]item, 0, len(quizzes))
	for _, q := range quizzes {
		it := item{QuizSummary: q}
		if id, ok := attempted[q.ID]; ok {
			it.Attempted = true
			it.AttemptID = &id
		}
		out = append(out, it)
	}
	return c.JSON(out)
}

// GetQuizForm returns the questions to answer. A student who already took the
// quiz gets a 409 pointing at the existing attempt.
func GetQuizForm(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	quizID, err := uuidParam(c, "quizId")
	if err != nil {
		return err
	}

	engine := quizEngine()
	state, attempt, err := engine.State(c.UserContext(), quizID, actor.UserID)
	if err != nil {
		return domainError(c, err)
	}
	if state == quiz.Graded {
		return domainError(c, &quiz.AttemptExistsError{AttemptID: attempt.ID})
	}

	form, err := engine.Form(c.UserContext(), quizID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(form)
}

func SubmitQuiz(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	quizID, err := uuidParam(c, "quizId")
	if err != nil {
		return err
	}
	var req SubmitQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	selections := make(map[uuid.UUID]uuid.UUID, len(req.Answers))
	for q, o := range req.Answers {
		if o == "" {
			continue
		}
		questionID, err := uuid.Parse(q)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid question id")
		}
		optionID, err := uuid.Parse(o)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid option id")
		}
		selections[questionID] = optionID
	}

	attempt, err := quizEngine().Submit(c.UserContext(), quiz.Submission{
		QuizID:     quizID,
		StudentID:  actor.UserID,
		Selections: selections,
	})
	if err != nil {
		return domainError(c, err)
	}

	log.Printf("✅ Student %s scored %d/%d on quiz %s", actor.UserID, attempt.Score, attempt.TotalQuestions, quizID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attempt_id":      attempt.ID,
		"score":           attempt.Score,
		"total_questions": attempt.TotalQuestions,
	})
}

func GetQuizAttempt(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	attemptID, err := uuidParam(c, "attemptId")
	if err != nil {
		return err
	}
	result, err := quizEngine().Result(c.UserContext(), actor, attemptID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(result)
}
