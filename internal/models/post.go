package models

import (
	"fmt"
	"time"
)

// Post is a review of an establishment.
type Post struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	EstablishmentID uint          `json:"establishment_id" gorm:"not null;index"`
	Establishment   Establishment `json:"-" gorm:"foreignKey:EstablishmentID;constraint:OnDelete:CASCADE"`
	UserID          uint          `json:"user_id" gorm:"index"` // author
	Author          string        `json:"author" gorm:"->;-:migration"`
	Title           string        `json:"title,omitempty" gorm:"size:200"`
	Content         string        `json:"content" gorm:"type:text;not null"`
	Rating          float64       `json:"rating" gorm:"default:0"`
	// Likes caches the number of PostLike rows for this post.
	Likes     int       `json:"likes" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`

	// CommentCount is computed at query time
	CommentCount int `json:"comment_count" gorm:"->;-:migration"`
}

// DisplayTitle returns the stored title, or a numbered fallback for untitled posts.
func (p *Post) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return fmt.Sprintf("Post #%d", p.ID)
}

// TimeSince is the humanized age of the post.
func (p *Post) TimeSince() string {
	return Humanize(p.CreatedAt, time.Now())
}

// CreatePostRequest defines the JSON body for POST /establishment/:id/new_post
type CreatePostRequest struct {
	Title   string  `json:"title" validate:"max=200"`
	Content string  `json:"content"`
	Rating  float64 `json:"rating" validate:"min=0,max=5"`
}
