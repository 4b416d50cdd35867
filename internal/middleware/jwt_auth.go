package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/review-forum/internal/models"
	"github.com/labstack/echo/v4"
)

// TokenParser validates API bearer tokens.
type TokenParser interface {
	ParseToken(token string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware authenticates API clients that send "Authorization: Bearer <token>"
// and carry no logged-in session. Requests without a bearer header pass through
// untouched; the token identity lasts for the request only.
func JWTAuthMiddleware(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := CurrentSession(c)
			authHeader := c.Request().Header.Get("Authorization")
			if sess.IsAuthenticated() || authHeader == "" {
				return next(c)
			}

			// other schemes (e.g. Basic from a proxy) are not ours
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") {
				return next(c)
			}

			claims, err := parser.ParseToken(strings.TrimSpace(token))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			sess.AuthenticateRequest(claims.UserID, claims.Username)
			return next(c)
		}
	}
}
