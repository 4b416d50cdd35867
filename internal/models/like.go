package models

import "time"

// PostLike records that a user liked a post. A user likes a post at most once.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user_like"`
	PostID    uint      `json:"post_id" gorm:"not null;index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is the state of a target after a like toggle.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
