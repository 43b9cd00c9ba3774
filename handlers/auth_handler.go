package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	config "github.com/anjiri1684/mentor_connect/configs"
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/anjiri1684/mentor_connect/notifications"
	"github.com/anjiri1684/mentor_connect/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" validate:"required,email,max=120"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	newUser, err := services.NewUserService(database.DB).Create(c.UserContext(), services.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleStudent,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			return errorJSON(c, fiber.StatusConflict, "Username or email already exists")
		}
		log.Printf("🔥 Failed to register user %s: %v", req.Email, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	notifications.SendEmail(newUser.Username, newUser.Email, "Welcome to MentorConnect!",
		fmt.Sprintf("<h1>Welcome, %s!</h1><p>Your account has been created. You can now log in.</p>", newUser.Username))

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        newUser.ID.String(),
		Username:  newUser.Username,
		Email:     newUser.Email,
		Role:      newUser.Role,
		CreatedAt: newUser.CreatedAt,
	})
}

func signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	var user models.User
	result := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user)
	if result.Error != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	if err := database.NewActivityStore(database.DB).TouchLogin(c.UserContext(), user.ID, time.Now().UTC()); err != nil {
		log.Printf("⚠️ Failed to record login for %s: %v", user.ID, err)
	}

	t, err := signToken(&user)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create token")
	}

	return c.JSON(fiber.Map{"token": t, "user": user})
}

// Home records a visit as the user's latest login and returns their dashboard.
func Home(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := database.NewActivityStore(database.DB).TouchLogin(c.UserContext(), actor.UserID, time.Now().UTC()); err != nil {
		log.Printf("⚠️ Failed to record visit for %s: %v", actor.UserID, err)
	}
	return GetDashboard(c)
}
