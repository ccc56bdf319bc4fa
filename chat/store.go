package chat

import (
	"strings"
	"time"

	"sustbazaar/apperror"
	"sustbazaar/model"

	"gorm.io/gorm"
)

// Store is the append-only message log. Participancy is enforced by the
// caller (Service.SendMessage for the relay, the REST handlers after
// AssertParticipant); Append itself only validates the payload.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append persists a message and bumps the owning chat's updated_at, which
// drives thread ordering. Returns the message with sender loaded.
func (s *Store) Append(chatID, senderID uint, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.InvalidRequest("Message text is empty", nil)
	}

	message := &model.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Text:     text,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&model.Chat{}).
			Where("id = ?", chatID).
			UpdateColumn("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	if err := s.db.First(&message.Sender, senderID).Error; err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	return message, nil
}

// ListFor returns the chat's full history in creation order and, in the
// same transaction, marks every unread message from the other participant
// as read. Retrieval by a participant therefore has a write side effect.
func (s *Store) ListFor(chatID, readerID uint) ([]model.Message, error) {
	messages := []model.Message{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&model.Message{ChatID: chatID}).
			Order("created_at asc, id asc").
			Preload("Sender").
			Find(&messages).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Message{}).
			Where("chat_id = ? AND sender_id <> ? AND read = ?", chatID, readerID, false).
			Update("read", true).Error; err != nil {
			return err
		}

		for i := range messages {
			if messages[i].SenderID != readerID {
				messages[i].Read = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Internal("Internal server error", err)
	}

	return messages, nil
}
