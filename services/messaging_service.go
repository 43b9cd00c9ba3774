package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMessagingNotAllowed = errors.New("not authorized to message this user")

// CanMessage allows admins to message anyone, a mentor and their own student
// to message each other, and anyone to message themselves.
func CanMessage(sender, receiver *models.User) bool {
	switch {
	case sender.ID == receiver.ID:
		return true
	case sender.IsAdmin():
		return true
	case sender.IsMentor():
		return receiver.MentorID != nil && *receiver.MentorID == sender.ID
	case sender.IsStudent():
		return sender.MentorID != nil && *sender.MentorID == receiver.ID
	}
	return false
}

type MessagingService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessagingService(db *gorm.DB) *MessagingService {
	return &MessagingService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *MessagingService) participants(ctx context.Context, senderID, receiverID uuid.UUID) (*models.User, *models.User, error) {
	var sender, receiver models.User
	if err := s.db.WithContext(ctx).First(&sender, "id = ?", senderID).Error; err != nil {
		return nil, nil, err
	}
	if err := s.db.WithContext(ctx).First(&receiver, "id = ?", receiverID).Error; err != nil {
		return nil, nil, err
	}
	if !CanMessage(&sender, &receiver) {
		return nil, nil, ErrMessagingNotAllowed
	}
	return &sender, &receiver, nil
}

// Send stores a message and touches both users' last activity.
func (s *MessagingService) Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	sender, receiver, err := s.participants(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	msg := &models.Message{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    content,
		Timestamp:  now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sender", "Receiver").Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id IN ?", []uuid.UUID{sender.ID, receiver.ID}).
			Update("last_activity", now).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Conversation returns the messages exchanged between two users, oldest first.
func (s *MessagingService) Conversation(ctx context.Context, userID, otherID uuid.UUID) ([]models.Message, error) {
	if _, _, err := s.participants(ctx, userID, otherID); err != nil {
		return nil, err
	}
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, otherID, otherID, userID).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}

// Contacts lists the users the caller is allowed to message.
func (s *MessagingService) Contacts(ctx context.Context, actor models.Actor) ([]models.User, error) {
	var users []models.User
	db := s.db.WithContext(ctx).Order("username ASC")
	switch {
	case actor.IsAdmin():
		db = db.Where("id <> ?", actor.UserID)
	case actor.IsMentor():
		db = db.Where("mentor_id = ?", actor.UserID)
	default:
		var me models.User
		if err := s.db.WithContext(ctx).First(&me, "id = ?", actor.UserID).Error; err != nil {
			return nil, err
		}
		if me.MentorID == nil {
			return []models.User{}, nil
		}
		db = db.Where("id = ?", *me.MentorID)
	}
	err := db.Find(&users).Error
	return users, err
}
