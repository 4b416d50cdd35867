package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/review-forum/internal/middleware"
	"github.com/anonto42/review-forum/internal/models"
	"github.com/anonto42/review-forum/internal/services"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// RegisterAuthRoutes registers authentication routes. limit guards the
// credential-accepting POSTs.
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo, limit echo.MiddlewareFunc) {
	e.GET("/register", h.ShowRegister)
	e.POST("/register", h.Register, limit)
	e.GET("/login", h.ShowLogin)
	e.POST("/login", h.Login, limit)
	e.GET("/logout", h.Logout)
}

func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return render(c, h.sessions, http.StatusOK, "register.html", nil)
}

// Register creates an account and sends the user on to the login page
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return h.registerFailed(c, http.StatusBadRequest, services.ErrInvalidInput, req.Email, req.Username)
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return h.registerFailed(c, http.StatusBadRequest, services.ErrInvalidInput, req.Email, req.Username)
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrEmailExists), errors.Is(err, services.ErrUsernameExists):
		return h.registerFailed(c, http.StatusConflict, err, req.Email, req.Username)
	case errors.Is(err, services.ErrInvalidInput):
		return h.registerFailed(c, http.StatusBadRequest, err, req.Email, req.Username)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user").SetInternal(err)
	}

	const msg = "Registration successful! You can now log in."
	if WantsJSON(c) {
		return c.JSON(http.StatusCreated, echo.Map{"status": "success", "message": msg, "user": user})
	}
	return flashRedirect(c, h.sessions, session.FlashSuccess, msg, "/login")
}

func (h *AuthHandler) registerFailed(c echo.Context, status int, cause error, email, username string) error {
	if WantsJSON(c) {
		return jsonError(c, status, cause.Error())
	}
	return render(c, h.sessions, status, "register.html", echo.Map{
		"error":    cause.Error(),
		"email":    email,
		"username": username,
	})
}

func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return render(c, h.sessions, http.StatusOK, "login.html", nil)
}

// Login checks credentials and binds the user to the session. JSON callers
// also get a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, services.ErrInvalidInput, req.Email)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, services.ErrInvalidInput, req.Email)
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrEmailNotFound), errors.Is(err, services.ErrInvalidPassword):
		return h.loginFailed(c, http.StatusUnauthorized, err, req.Email)
	case errors.Is(err, services.ErrInvalidInput):
		return h.loginFailed(c, http.StatusBadRequest, err, req.Email)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log in").SetInternal(err)
	}

	sess := middleware.CurrentSession(c)
	if err := h.sessions.Renew(c, sess); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session").SetInternal(err)
	}
	sess.Login(user.ID, user.Username)
	if err := h.sessions.Save(c, sess); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session").SetInternal(err)
	}

	if WantsJSON(c) {
		token, err := h.authService.GenerateToken(user)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token").SetInternal(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "success", "token": token})
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) loginFailed(c echo.Context, status int, cause error, email string) error {
	if WantsJSON(c) {
		return jsonError(c, status, cause.Error())
	}
	return render(c, h.sessions, status, "login.html", echo.Map{
		"error": cause.Error(),
		"email": email,
	})
}

// Logout forgets the session and goes home
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c, middleware.CurrentSession(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log out").SetInternal(err)
	}
	return c.Redirect(http.StatusFound, "/")
}
