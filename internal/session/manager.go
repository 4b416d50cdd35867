package session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName is the cookie carrying the session id.
const CookieName = "session_id"

// Manager binds sessions to requests through a cookie.
type Manager struct {
	store  Store
	secure bool
}

func NewManager(store Store, secureCookie bool) *Manager {
	return &Manager{store: store, secure: secureCookie}
}

// Load returns the session named by the request cookie, or a fresh unsaved
// session when the cookie is missing or refers to nothing.
func (m *Manager) Load(c echo.Context) (*Session, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}, nil
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return &Session{}, nil
	}

	sess, err := m.store.Get(c.Request().Context(), cookie.Value)
	if errors.Is(err, ErrNotFound) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Save persists a changed session, assigning an id and cookie on first save.
// Transient sessions are skipped. It must run before the response body is written.
func (m *Manager) Save(c echo.Context, sess *Session) error {
	if !sess.dirty || sess.transient {
		return nil
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
		c.SetCookie(&http.Cookie{
			Name:     CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if err := m.store.Save(c.Request().Context(), sess); err != nil {
		return err
	}
	sess.dirty = false
	return nil
}

// Renew drops the stored session under its current id so the next Save issues
// a new id. Called on login so a pre-login cookie cannot be reused.
func (m *Manager) Renew(c echo.Context, sess *Session) error {
	if sess.ID != "" {
		if err := m.store.Delete(c.Request().Context(), sess.ID); err != nil {
			return err
		}
		sess.ID = ""
	}
	sess.dirty = true
	return nil
}

// Destroy deletes the stored session and expires the cookie.
func (m *Manager) Destroy(c echo.Context, sess *Session) error {
	if sess.ID != "" {
		if err := m.store.Delete(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	*sess = Session{}
	return nil
}
