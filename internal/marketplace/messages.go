package marketplace

import (
	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	"github.com/AlvinAbiero/online-marketplace/models"
)

type MessageInput struct {
	ReceiverID uint   `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=1000"`
	OrderID    *uint  `json:"orderId"`
}

// SendMessage persists a message and publishes it to both delivery
// paths. The publish happens inside this call, right after the write, so
// a persisted message always has a matching delivery attempt regardless
// of which transport the sender used.
func (s *Service) SendMessage(p *Principal, input MessageInput) (*models.Message, error) {
	if err := RequireAuth(p); err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var receiver models.User
	if err := s.DB.First(&receiver, input.ReceiverID).Error; err != nil {
		return nil, ErrNotFound("Receiver")
	}

	message := models.Message{
		SenderID:   p.UserID,
		ReceiverID: input.ReceiverID,
		OrderID:    input.OrderID,
		Content:    input.Content,
	}

	if err := s.DB.Create(&message).Error; err != nil {
		return nil, ErrInternal()
	}

	if err := s.DB.Preload("Sender").Preload("Receiver").
		First(&message, message.ID).Error; err != nil {
		return nil, ErrInternal()
	}

	s.Fanout.Publish(fanout.Event{
		Kind:       fanout.MessageAdded,
		ReceiverID: message.ReceiverID,
		Payload:    &message,
	})

	return &message, nil
}

// Conversation returns the full message history between the principal
// and another user, oldest first.
func (s *Service) Conversation(p *Principal, userID uint) ([]models.Message, error) {
	if err := RequireAuth(p); err != nil {
		return nil, err
	}

	var messages []models.Message
	err := s.DB.Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			p.UserID, userID, userID, p.UserID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		return nil, ErrInternal()
	}

	return messages, nil
}
