package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/anonto42/review-forum/internal/router"
	"github.com/anonto42/review-forum/internal/validators"
	"github.com/anonto42/review-forum/internal/views"
	"github.com/anonto42/review-forum/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// newTestServer builds the full application on an in-memory SQLite database
// seeded with the default establishments.
func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := config.OpenSQL("sqlite", ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	renderer, err := views.New()
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = router.HTTPErrorHandler(zap.NewNop())

	_, err = router.SetupRoutes(e, &config.DB{SQL: db}, router.Options{
		JWTSecret: "test-secret",
		HashCost:  bcrypt.MinCost,
	}, zap.NewNop())
	require.NoError(t, err)
	return e, db
}

// client is a cookie-keeping browser stand-in.
type client struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, e *echo.Echo) *client {
	return &client{t: t, e: e, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck
	}
	return rec
}

func (cl *client) get(target string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (cl *client) getJSON(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	return cl.do(req)
}

func (cl *client) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return cl.do(req)
}

// ajax posts a form the way the page scripts do.
func (cl *client) ajax(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderXRequestedWith, "XMLHttpRequest")
	return cl.do(req)
}

func (cl *client) postJSON(target string, body interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(cl.t, err)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(raw)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	return cl.do(req)
}

// signUp registers and logs in a user through the forms.
func (cl *client) signUp(email, username, password string) {
	cl.t.Helper()
	rec := cl.postForm("/register", url.Values{"email": {email}, "username": {username}, "password": {password}})
	require.Equal(cl.t, http.StatusFound, rec.Code, rec.Body.String())
	rec = cl.postForm("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(cl.t, http.StatusFound, rec.Code, rec.Body.String())
}

// createPost posts a review to establishment 1 and returns its id.
func (cl *client) createPost(content string) uint {
	cl.t.Helper()
	rec := cl.postJSON("/establishment/1/new_post", map[string]interface{}{"content": content, "rating": 4})
	require.Equal(cl.t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Post struct {
			ID uint `json:"id"`
		} `json:"post"`
	}
	decode(cl.t, rec.Body, &body)
	return body.Post.ID
}

func decode(t *testing.T, r io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func postURL(id uint, suffix string) string {
	return fmt.Sprintf("/post/%d%s", id, suffix)
}
