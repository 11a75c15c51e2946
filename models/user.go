package models

import (
	"time"
)

// User is an account. PasswordHash never leaves the process: it is excluded from JSON.
type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Email             string    `json:"email" gorm:"not null;uniqueIndex:idx_users_email"`
	Username          *string   `json:"username" gorm:"uniqueIndex:idx_users_username"`
	ProfilePictureURL *string   `json:"profile_picture_url" gorm:"column:profile_picture_url"`
	PasswordHash      string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt         time.Time `json:"created_at"`
}

type UserCreate struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Username *string `json:"username"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (User) TableName() string {
	return "users"
}
