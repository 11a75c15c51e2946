package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mini-social/models"
)

// ToggleLike flips the like state of (userID, postID) and returns the post's fresh count.
//
// The delete runs first: if it removed a row the like is gone, otherwise the insert adds it.
// An insert that hits the composite primary key lost a race with a concurrent toggle that
// just added the row, so this toggle removes it again. Two concurrent toggles therefore end
// in the same state as two sequential ones.
func (s *ContentStore) ToggleLike(ctx context.Context, userID, postID uint) (models.LikeStatus, error) {
	var status models.LikeStatus

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePost(tx, postID); err != nil {
			return err
		}

		removed, err := removeLike(tx, userID, postID)
		if err != nil {
			return err
		}

		if !removed {
			like := models.Like{UserID: userID, PostID: postID}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&like)
			if res.Error != nil {
				return translateError(res.Error, "adding like")
			}
			if res.RowsAffected > 0 {
				status.Liked = true
			} else if _, err := removeLike(tx, userID, postID); err != nil {
				return err
			}
		}

		return translateError(
			tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&status.Count).Error,
			"counting likes",
		)
	})
	if err != nil {
		return models.LikeStatus{}, err
	}
	return status, nil
}

func removeLike(tx *gorm.DB, userID, postID uint) (bool, error) {
	res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if res.Error != nil {
		return false, translateError(res.Error, "removing like")
	}
	return res.RowsAffected > 0, nil
}

// CountLikes returns the number of likes on postID, zero for unknown posts.
func (s *ContentStore) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, translateError(err, "counting likes")
}
