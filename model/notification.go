package model

import "gorm.io/gorm"

// Notification is an offline delivery record: created when a chat message
// is persisted while its recipient has no live connection in the room.
type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Kind    string `gorm:"not null" json:"kind"`
	ChatID  uint   `gorm:"index" json:"chat_id"`
	Payload string `gorm:"type:text" json:"payload"`
	Read    bool   `gorm:"not null;default:false" json:"read"`
}
