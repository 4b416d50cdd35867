package router

import (
	"errors"
	"net/http"

	"github.com/anonto42/review-forum/internal/handlers"
	"github.com/anonto42/review-forum/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler answers failed requests with JSON for script callers and
// the error page otherwise. Server errors are logged with their cause.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Int("status", code),
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		var werr error
		switch {
		case c.Request().Method == http.MethodHead:
			werr = c.NoContent(code)
		case handlers.WantsJSON(c):
			werr = c.JSON(code, echo.Map{"status": "error", "message": message})
		default:
			werr = c.Render(code, "error.html", echo.Map{
				"code":    code,
				"message": message,
				"session": middleware.CurrentSession(c),
			})
			if werr != nil {
				werr = c.String(code, message)
			}
		}
		if werr != nil {
			log.Error("failed to write error response", zap.Error(werr))
		}
	}
}
