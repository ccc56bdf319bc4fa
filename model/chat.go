package model

import "gorm.io/gorm"

// Chat is a single persistent thread between two users, optionally bound
// to one listing. ProductID and AccommodationID are mutually exclusive;
// both nil means a general conversation.
type Chat struct {
	gorm.Model
	ParticipantAID  uint  `gorm:"not null;index" json:"participant_a_id"`
	ParticipantBID  uint  `gorm:"not null;index" json:"participant_b_id"`
	ProductID       *uint `gorm:"index" json:"product_id"`
	AccommodationID *uint `gorm:"index" json:"accommodation_id"`

	ParticipantA  User           `gorm:"foreignKey:ParticipantAID" json:"participant_a"`
	ParticipantB  User           `gorm:"foreignKey:ParticipantBID" json:"participant_b"`
	Product       *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Accommodation *Accommodation `gorm:"foreignKey:AccommodationID" json:"accommodation,omitempty"`
}

// HasParticipant reports whether id occupies either slot.
func (c *Chat) HasParticipant(id uint) bool {
	return c.ParticipantAID == id || c.ParticipantBID == id
}

// Counterpart returns the other participant's id.
func (c *Chat) Counterpart(id uint) uint {
	if c.ParticipantAID == id {
		return c.ParticipantBID
	}
	return c.ParticipantAID
}

type Message struct {
	gorm.Model
	ChatID   uint   `gorm:"not null;index" json:"chat_id"`
	SenderID uint   `gorm:"not null;index" json:"sender_id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Read     bool   `gorm:"not null;default:false" json:"read"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
}
