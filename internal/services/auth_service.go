// Package services holds the forum logic that sits between handlers and repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/review-forum/internal/models"
	"github.com/anonto42/review-forum/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Authentication failures. The messages double as the error codes the login
// and register pages understand.
var (
	ErrEmailExists     = errors.New("email_exists")
	ErrUsernameExists  = errors.New("username_exists")
	ErrEmailNotFound   = errors.New("email_not_found")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidInput    = errors.New("invalid_input")
)

const tokenTTL = 72 * time.Hour

// AuthService registers users, checks credentials and issues API tokens.
type AuthService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	cost      int
}

func NewAuthService(users repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(jwtSecret), cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register creates a user. The email is checked before the username, and a
// unique-index race is reported the same way as a lookup hit.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if email == "" || username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	if exists, err := s.exists(s.users.GetUserByEmail(ctx, email)); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrEmailExists
	}
	if exists, err := s.exists(s.users.GetUserByUsername(ctx, username)); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, Username: username, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateCause(ctx, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns the matching user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmailNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// GenerateToken signs an HS256 token for API clients.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken validates a token produced by GenerateToken.
func (s *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *AuthService) exists(_ *models.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *AuthService) duplicateCause(ctx context.Context, email string) error {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return ErrEmailExists
	}
	return ErrUsernameExists
}
