package store

import (
	"gorm.io/gorm"

	"mini-social/models"
	"mini-social/utils"
)

// ContentStore persists posts, comments and likes.
type ContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

func requirePost(tx *gorm.DB, postID uint) error {
	var count int64
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return translateError(err, "checking post")
	}
	if count == 0 {
		return &utils.NotFoundError{Resource: "Post"}
	}
	return nil
}
