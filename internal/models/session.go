package models

import "time"

// Session is the database row backing a browser session when Redis is not configured.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Data      string    `gorm:"type:text;not null"` // JSON-encoded session payload
	UpdatedAt time.Time `gorm:"index"`
}
