package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	config "github.com/anjiri1684/mentor_connect/configs"
	"github.com/anjiri1684/mentor_connect/database"
	"github.com/anjiri1684/mentor_connect/services"
	"github.com/anjiri1684/mentor_connect/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// MessagePayload is a message sent over the websocket.
type MessagePayload struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func ListContacts(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	users, err := services.NewMessagingService(database.DB).Contacts(c.UserContext(), actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(users)
}

func GetConversation(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	otherID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	messages, err := services.NewMessagingService(database.DB).Conversation(c.UserContext(), actor.UserID, otherID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(messages)
}

func SendMessage(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	receiverID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	msg, err := services.NewMessagingService(database.DB).Send(c.UserContext(), actor.UserID, receiverID, req.Content)
	if err != nil {
		return domainError(c, err)
	}
	websocket.DefaultHub.Publish(msg)
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// WebsocketUpgrade only lets websocket upgrade requests through to ServeWs.
func WebsocketUpgrade(c *fiber.Ctx) error {
	if websocketcontrib.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWs authenticates with a first {"type":"auth","token":...} frame, then
// stores and pushes every message the client sends.
func ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message, error: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token, error: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid user_id %q", rawID)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	conn := websocket.NewSyncConn(c)
	client := &websocket.Client{UserID: userID, Conn: conn}
	websocket.DefaultHub.Register(client)
	defer func() {
		websocket.DefaultHub.Unregister(client)
		conn.Close()
	}()

	messaging := services.NewMessagingService(database.DB)
	for {
		var payload MessagePayload
		if err := c.ReadJSON(&payload); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket closed for client %s", userID)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			return
		}

		receiverID, err := uuid.Parse(payload.ReceiverID)
		if err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": "Invalid receiver ID"})
			continue
		}
		if err := validate.Var(payload.Content, "required,min=1,max=500"); err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": "Message must be between 1 and 500 characters"})
			continue
		}

		msg, err := messaging.Send(context.Background(), userID, receiverID, payload.Content)
		if errors.Is(err, services.ErrMessagingNotAllowed) {
			_ = conn.WriteJSON(fiber.Map{"error": "You are not authorized to message this user"})
			continue
		}
		if err != nil {
			log.Printf("Failed to save message for client %s: %v", userID, err)
			_ = conn.WriteJSON(fiber.Map{"error": "Failed to save message"})
			continue
		}
		_ = conn.WriteJSON(msg)
		if receiverID != userID {
			websocket.DefaultHub.Publish(msg)
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
