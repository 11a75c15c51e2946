package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mini-social/models"
	"mini-social/utils"
)

// CreateComment adds a comment to an existing post.
func (s *ContentStore) CreateComment(ctx context.Context, owner *models.User, postID uint, text string) (*models.Comment, error) {
	if text == "" {
		return nil, utils.ValidationFailed("text is required")
	}

	comment := &models.Comment{
		Text:   text,
		UserID: owner.ID,
		PostID: postID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePost(tx, postID); err != nil {
			return err
		}
		return translateError(tx.Omit(clause.Associations).Create(comment).Error, "creating comment")
	})
	if err != nil {
		return nil, err
	}
	comment.User = *owner
	return comment, nil
}

// ListComments returns a post's comments oldest first with their owners.
func (s *ContentStore) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.WithContext(ctx).
		InnerJoins("User").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing comments")
	}
	return comments, nil
}
