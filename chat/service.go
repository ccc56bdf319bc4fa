package chat

import (
	"sustbazaar/model"

	"gorm.io/gorm"
)

// Service ties the directory and the store together. The realtime relay
// sends exclusively through SendMessage, making it the single enforcement
// point for the sender-is-participant invariant.
type Service struct {
	directory *Directory
	store     *Store
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		directory: NewDirectory(db),
		store:     NewStore(db),
	}
}

func (s *Service) Directory() *Directory {
	return s.directory
}

func (s *Service) Store() *Store {
	return s.store
}

// SendMessage authorizes the sender against the chat's membership record,
// then appends. Returns the created message and the chat so callers can
// fan out and notify the counterpart.
func (s *Service) SendMessage(chatID, senderID uint, text string) (*model.Message, *model.Chat, error) {
	chat, err := s.directory.AssertParticipant(chatID, senderID)
	if err != nil {
		return nil, nil, err
	}

	message, err := s.store.Append(chatID, senderID, text)
	if err != nil {
		return nil, nil, err
	}

	return message, chat, nil
}
