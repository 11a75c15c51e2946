package models

import (
	"time"
)

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"not null"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;not null"`
	User      User      `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PostID    uint      `json:"post_id" gorm:"column:post_id;not null;index"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentCreate struct {
	Text string `json:"text" binding:"required"`
}

func (Comment) TableName() string {
	return "comments"
}
