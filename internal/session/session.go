// Package session keeps the per-request login state and flash messages for a
// browser, backed by Redis or the SQL database.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// Flash categories used by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the request-scoped view of who is logged in. It is loaded by the
// session middleware and passed to handlers on the echo context.
type Session struct {
	ID       string  `json:"-"`
	UserID   uint    `json:"user_id,omitempty"`
	Username string  `json:"username,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`

	dirty     bool
	transient bool // identity comes from a request credential, never saved
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != 0
}

// Login records the authenticated user.
func (s *Session) Login(userID uint, username string) {
	s.UserID = userID
	s.Username = username
	s.dirty = true
	s.transient = false
}

// AuthenticateRequest attaches a user for the current request only. The
// session is no longer persisted, so no cookie or stored row carries it.
func (s *Session) AuthenticateRequest(userID uint, username string) {
	s.UserID = userID
	s.Username = username
	s.transient = true
}

// Transient reports whether the session is request-scoped.
func (s *Session) Transient() bool {
	return s.transient
}

// AddFlash queues a message for the next page render.
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns and clears the queued messages.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return flashes
}

// Dirty reports whether the session changed since it was loaded. Tests use it
// to check which operations need a Save.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Store persists sessions by id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
