package repositories

import (
	"context"

	"github.com/anonto42/review-forum/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	ToggleCommentLike(ctx context.Context, userID, commentID uint) (*models.LikeResult, error)
	HasUserLikedComment(ctx context.Context, userID, commentID uint) (bool, error)
	GetLikedCommentIDs(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error)
	GetLikesCount(ctx context.Context, commentID uint) (int64, error)
}

type postgresCommentLikeRepository struct {
	db *gorm.DB
}

func NewPostgresCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: db}
}

// ToggleCommentLike is the comment counterpart of TogglePostLike.
func (r *postgresCommentLikeRepository) ToggleCommentLike(ctx context.Context, userID, commentID uint) (*models.LikeResult, error) {
	var result models.LikeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}

		delta := -1
		if res.RowsAffected == 0 {
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.CommentLike{UserID: userID, CommentID: commentID})
			if res.Error != nil {
				return res.Error
			}
			delta = int(res.RowsAffected)
			result.Liked = true
		}

		if delta != 0 {
			upd := tx.Model(&models.Comment{}).Where("id = ?", commentID).
				UpdateColumn("likes", gorm.Expr("likes + ?", delta))
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		return tx.Model(&models.Comment{}).Select("likes").Where("id = ?", commentID).Row().Scan(&result.Likes)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HasUserLikedComment reports a single like; pages use GetLikedCommentIDs.
func (r *postgresCommentLikeRepository) HasUserLikedComment(ctx context.Context, userID, commentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error
	return count > 0, err
}

// GetLikedCommentIDs reports, for each of commentIDs, whether userID liked it.
func (r *postgresCommentLikeRepository) GetLikedCommentIDs(ctx context.Context, userID uint, commentIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(commentIDs))
	for _, id := range commentIDs {
		liked[id] = false
	}
	if userID == 0 || len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// GetLikesCount counts the join rows for a comment. Tests compare it with
// comments.likes to check the counter never drifts.
func (r *postgresCommentLikeRepository) GetLikesCount(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}
