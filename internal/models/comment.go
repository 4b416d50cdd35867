package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	Post      Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UserID    uint      `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Author    string    `json:"author" gorm:"->;-:migration"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Likes     int       `json:"likes" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) TimeSince() string {
	return Humanize(c.CreatedAt, time.Now())
}
