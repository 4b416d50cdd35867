package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/review-forum/internal/models"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/anonto42/review-forum/internal/validators"
	"github.com/anonto42/review-forum/internal/views"
	"github.com/anonto42/review-forum/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func newEcho(t *testing.T, log *zap.Logger) *echo.Echo {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)
	e := echo.New()
	e.Validator = validators.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = HTTPErrorHandler(log)
	return e
}

func openDB(t *testing.T) *config.DB {
	t.Helper()
	sqlDB, err := config.OpenSQL("sqlite", ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if raw, err := sqlDB.DB(); err == nil {
			_ = raw.Close()
		}
	})
	return &config.DB{SQL: sqlDB}
}

func TestSetupRoutes_SeedsEstablishments(t *testing.T) {
	db := openDB(t)
	e := newEcho(t, zap.NewNop())
	metrics, err := SetupRoutes(e, db, Options{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, metrics)

	// a second setup must not duplicate the seed rows
	_, err = SetupRoutes(newEcho(t, zap.NewNop()), db, Options{}, zap.NewNop())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.SQL.Model(&models.Establishment{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultEstablishments)), count)
}

func TestSetupRoutes_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := openDB(t)
	db.Redis = rdb
	e := newEcho(t, zap.NewNop())
	_, err := SetupRoutes(e, db, Options{JWTSecret: "s", HashCost: bcrypt.MinCost}, zap.NewNop())
	require.NoError(t, err)

	form := url.Values{"email": {"a@x.com"}, "username": {"alice"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, mr.Exists("session:"+cookie.Value))
	assert.Zero(t, mr.TTL("session:"+cookie.Value))

	var rows int64
	require.NoError(t, db.SQL.Model(&models.Session{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestSetupRoutes_RateLimitsCredentialPosts(t *testing.T) {
	e := newEcho(t, zap.NewNop())
	_, err := SetupRoutes(e, openDB(t), Options{LoginRateLimit: 1, HashCost: bcrypt.MinCost}, zap.NewNop())
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		form := url.Values{"email": {"a@x.com"}, "password": {"pw"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := newEcho(t, zap.New(core))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post").SetInternal(errors.New("disk on fire"))
	})
	e.GET("/gone", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Failed to load post"}`, rec.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)

	req = httptest.NewRequest(http.MethodGet, "/gone", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Equal(t, 1, logs.Len())

	req = httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set(echo.HeaderXRequestedWith, "XMLHttpRequest")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Not Found"}`, rec.Body.String())
}
