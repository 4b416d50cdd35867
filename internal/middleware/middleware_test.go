package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/review-forum/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct{}

func (stubParser) ParseToken(token string) (*models.JwtCustomClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &models.JwtCustomClaims{UserID: 5, Username: "eve"}, nil
}

func whoAmI(c echo.Context) error {
	sess := CurrentSession(c)
	return c.JSON(http.StatusOK, echo.Map{"user_id": sess.UserID, "username": sess.Username, "transient": sess.Transient()})
}

func TestJWTAuthMiddleware(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoAmI, JWTAuthMiddleware(stubParser{}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header is anonymous", "", http.StatusOK, `"user_id":0`},
		{"valid bearer", "Bearer good", http.StatusOK, `"user_id":5`},
		{"bearer identity is request-scoped", "Bearer good", http.StatusOK, `"transient":true`},
		{"lowercase scheme", "bearer good", http.StatusOK, `"username":"eve"`},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"other scheme passes through", "Basic abc", http.StatusOK, `"user_id":0`},
		{"scheme without token passes through", "Bearer", http.StatusOK, `"user_id":0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestJWTAuthMiddleware_SessionWins(t *testing.T) {
	e := echo.New()
	withSession := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			CurrentSession(c).Login(1, "alice")
			return next(c)
		}
	}
	e.GET("/me", whoAmI, withSession, JWTAuthMiddleware(stubParser{}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestMetrics_RecordsRequestsAndToggles(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/post/:id", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound) })

	for _, path := range []string{"/post/1", "/post/2", "/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	m.RecordLikeToggle("post", true)
	m.RecordLikeToggle("comment", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `forum_http_requests_total{method="GET",path="/post/:id",status="200"} 2`)
	assert.Contains(t, out, `forum_http_requests_total{method="GET",path="/missing",status="404"} 1`)
	assert.Contains(t, out, `forum_like_toggles_total{action="like",target="post"} 1`)
	assert.Contains(t, out, `forum_like_toggles_total{action="unlike",target="comment"} 1`)
}

func TestCredentialRateLimiter(t *testing.T) {
	e := echo.New()
	limiter := CredentialRateLimiter(1) // burst of 2
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/login", ok, limiter)
	e.POST("/login", ok, limiter)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(""))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
