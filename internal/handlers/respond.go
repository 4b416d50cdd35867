package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/review-forum/internal/middleware"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/labstack/echo/v4"
)

// WantsJSON reports whether the caller is a script expecting JSON back
// rather than a browser expecting a page or redirect.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if req.Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"status": "error", "message": message})
}

// pathID parses a numeric route parameter. Anything else is a 404, the same
// as an id that does not exist.
func pathID(c echo.Context, name, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, what+" not found")
	}
	return uint(id), nil
}

// flashRedirect queues a flash message and redirects. The session is saved
// here because the redirect writes the response.
func flashRedirect(c echo.Context, sessions *session.Manager, category, message, to string) error {
	sess := middleware.CurrentSession(c)
	sess.AddFlash(category, message)
	if err := sessions.Save(c, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return c.Redirect(http.StatusFound, to)
}

// rejectAnonymous answers a request that needs a logged in user.
func rejectAnonymous(c echo.Context, sessions *session.Manager, message string) error {
	if WantsJSON(c) {
		return jsonError(c, http.StatusUnauthorized, message)
	}
	return flashRedirect(c, sessions, session.FlashError, message, "/login")
}

// render writes a page, or the same data as JSON for script callers. Pending
// flashes are consumed by the page that shows them.
func render(c echo.Context, sessions *session.Manager, status int, name string, data echo.Map) error {
	sess := middleware.CurrentSession(c)
	if data == nil {
		data = echo.Map{}
	}
	data["flashes"] = sess.PopFlashes()
	if err := sessions.Save(c, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if WantsJSON(c) {
		return c.JSON(status, data)
	}
	data["session"] = sess
	return c.Render(status, name, data)
}
