package model

import "gorm.io/gorm"

// User struct
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `json:"role"`
	Banned   bool   `gorm:"not null;default:false" json:"banned"`

	Otp_enabled bool `gorm:"default:false;"`
	Otp_secret  string
}
