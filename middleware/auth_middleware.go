package middleware

import (
	"errors"

	config "github.com/anjiri1684/mentor_connect/configs"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrNoActor = errors.New("no authenticated user")

func Protected() fiber.Handler {
	return ProtectedWithKey([]byte(config.Config("JWT_SECRET")))
}

func ProtectedWithKey(key []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   key,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CurrentActor reads the caller from the verified token stored by Protected.
func CurrentActor(c *fiber.Ctx) (models.Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return models.Actor{}, ErrNoActor
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, ErrNoActor
	}
	rawID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return models.Actor{}, ErrNoActor
	}
	role, _ := claims["role"].(string)
	return models.Actor{UserID: id, Role: role}, nil
}

// RoleRequired lets the request through only when the caller has one of roles.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: insufficient role",
		})
	}
}

func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin)
}

func MentorRequired() fiber.Handler {
	return RoleRequired(models.RoleMentor, models.RoleAdmin)
}

func StudentRequired() fiber.Handler {
	return RoleRequired(models.RoleStudent, models.RoleAdmin)
}
