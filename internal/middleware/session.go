package middleware

import (
	"net/http"

	"github.com/anonto42/review-forum/internal/session"
	"github.com/labstack/echo/v4"
)

const sessionContextKey = "session"

// SessionMiddleware loads the caller's session and stores it on the context.
func SessionMiddleware(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := m.Load(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load session").SetInternal(err)
			}
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// CurrentSession returns the request's session. Outside SessionMiddleware it
// returns an empty, unauthenticated session.
func CurrentSession(c echo.Context) *session.Session {
	if sess, ok := c.Get(sessionContextKey).(*session.Session); ok {
		return sess
	}
	sess := &session.Session{}
	c.Set(sessionContextKey, sess)
	return sess
}
