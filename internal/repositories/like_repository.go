package repositories

import (
	"context"

	"github.com/anonto42/review-forum/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for post like operations
type LikeRepository interface {
	TogglePostLike(ctx context.Context, userID, postID uint) (*models.LikeResult, error)
	HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error)
	GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error)
}

// PostgresLikeRepository implements LikeRepository
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// TogglePostLike removes the user's like if present, otherwise adds it. The join
// row and posts.likes change in the same transaction, and the counter only moves
// when a row was actually deleted or inserted.
func (r *PostgresLikeRepository) TogglePostLike(ctx context.Context, userID, postID uint) (*models.LikeResult, error) {
	var result models.LikeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}

		delta := -1
		if res.RowsAffected == 0 {
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.PostLike{UserID: userID, PostID: postID})
			if res.Error != nil {
				return res.Error
			}
			delta = int(res.RowsAffected)
			result.Liked = true
		}

		if delta != 0 {
			upd := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("likes + ?", delta))
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		return tx.Model(&models.Post{}).Select("likes").Where("id = ?", postID).Row().Scan(&result.Likes)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesCountByPostID counts the join rows for a post. Tests compare it with
// posts.likes to check the counter never drifts.
func (r *PostgresLikeRepository) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
