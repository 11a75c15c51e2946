package models

import (
	"time"
)

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	ImageURL  string    `json:"image_url" gorm:"column:image_url;not null"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	User      User      `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}
