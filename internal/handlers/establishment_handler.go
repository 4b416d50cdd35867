package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/review-forum/internal/repositories"
	"github.com/anonto42/review-forum/internal/services"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// EstablishmentHandler serves the home page and the establishment pages
type EstablishmentHandler struct {
	establishmentRepository repositories.EstablishmentRepository
	postRepository          repositories.PostRepository
	sessions                *session.Manager
}

// NewEstablishmentHandler creates a new EstablishmentHandler
func NewEstablishmentHandler(establishmentRepo repositories.EstablishmentRepository, postRepo repositories.PostRepository, sessions *session.Manager) *EstablishmentHandler {
	return &EstablishmentHandler{
		establishmentRepository: establishmentRepo,
		postRepository:          postRepo,
		sessions:                sessions,
	}
}

// RegisterEstablishmentRoutes registers establishment routes
func (h *EstablishmentHandler) RegisterEstablishmentRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/establishments", h.ListEstablishments)
	e.GET("/establishment/:id", h.ShowEstablishment)
}

func (h *EstablishmentHandler) Home(c echo.Context) error {
	return render(c, h.sessions, http.StatusOK, "index.html", nil)
}

// ListEstablishments lists establishments whose name contains ?search=
func (h *EstablishmentHandler) ListEstablishments(c echo.Context) error {
	search := c.QueryParam("search")
	establishments, err := h.establishmentRepository.ListEstablishments(c.Request().Context(), search)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list establishments").SetInternal(err)
	}
	return render(c, h.sessions, http.StatusOK, "establishments.html", echo.Map{
		"establishments": establishments,
		"search_query":   search,
	})
}

// ShowEstablishment shows an establishment with its posts, most liked first.
// ?search= narrows the posts by content.
func (h *EstablishmentHandler) ShowEstablishment(c echo.Context) error {
	id, err := pathID(c, "id", "Establishment")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	establishment, err := h.establishmentRepository.GetEstablishmentByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Establishment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load establishment").SetInternal(err)
	}

	posts, err := h.postRepository.GetPostsByEstablishmentID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load posts").SetInternal(err)
	}

	search := c.QueryParam("search")
	return render(c, h.sessions, http.StatusOK, "establishment.html", echo.Map{
		"establishment": establishment,
		"posts":         services.FilterPostsByContent(posts, search),
		"search_query":  search,
	})
}
