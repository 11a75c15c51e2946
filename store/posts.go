package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mini-social/models"
	"mini-social/utils"
)

const (
	DefaultPostLimit = 100
	MaxPostLimit     = 100
)

// CreatePost stores a post owned by owner. The returned post carries the owner.
func (s *ContentStore) CreatePost(ctx context.Context, owner *models.User, title, imageRef string) (*models.Post, error) {
	if title == "" {
		return nil, utils.ValidationFailed("title is required")
	}
	if imageRef == "" {
		return nil, utils.ValidationFailed("image is required")
	}

	post := &models.Post{
		Title:    title,
		ImageURL: imageRef,
		UserID:   owner.ID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, translateError(err, "creating post")
	}
	post.User = *owner
	return post, nil
}

// ListPosts returns posts newest first with their owners loaded in the same query.
// A zero limit yields an empty window; limits above MaxPostLimit are capped.
func (s *ContentStore) ListPosts(ctx context.Context, skip, limit int) ([]models.Post, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxPostLimit {
		limit = MaxPostLimit
	}

	posts := []models.Post{}
	err := s.db.WithContext(ctx).
		InnerJoins("User").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(skip).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing posts")
	}
	return posts, nil
}

// GetPost returns one post with its owner.
func (s *ContentStore) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		InnerJoins("User").
		Where("posts.id = ?", postID).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "Post"}
		}
		return nil, errors.Wrap(err, "getting post")
	}
	return &post, nil
}
