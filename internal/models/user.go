package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a registered forum member. Users are never updated or deleted.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"` // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest defines the form submitted to /register
type RegisterRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email,max=120"`
	Username string `form:"username" json:"username" validate:"required,min=1,max=50"`
	Password string `form:"password" json:"password" validate:"required,max=72"`
}

// LoginRequest defines the form submitted to /login
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
