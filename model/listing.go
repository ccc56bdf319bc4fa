package model

import "gorm.io/gorm"

// Marketplace listings referenced by chat threads. CRUD over these rows
// lives outside this service; chats only resolve them and their owners.

type Product struct {
	gorm.Model
	OwnerID uint   `gorm:"not null" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner"`
	Title   string `gorm:"not null" json:"title"`
	Price   int64  `json:"price"`
}

type Accommodation struct {
	gorm.Model
	OwnerID  uint   `gorm:"not null" json:"owner_id"`
	Owner    User   `gorm:"foreignKey:OwnerID" json:"owner"`
	Title    string `gorm:"not null" json:"title"`
	Location string `json:"location"`
}
