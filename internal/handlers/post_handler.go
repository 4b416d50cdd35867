package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/review-forum/internal/middleware"
	"github.com/anonto42/review-forum/internal/models"
	"github.com/anonto42/review-forum/internal/repositories"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository          repositories.PostRepository
	establishmentRepository repositories.EstablishmentRepository
	commentRepository       repositories.CommentRepository
	likeRepository          repositories.LikeRepository
	commentLikeRepository   repositories.CommentLikeRepository
	sessions                *session.Manager
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	establishmentRepo repositories.EstablishmentRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	sessions *session.Manager,
) *PostHandler {
	return &PostHandler{
		postRepository:          postRepo,
		establishmentRepository: establishmentRepo,
		commentRepository:       commentRepo,
		likeRepository:          likeRepo,
		commentLikeRepository:   commentLikeRepo,
		sessions:                sessions,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo) {
	e.POST("/establishment/:id/new_post", h.CreatePost)
	e.GET("/post/:id", h.ShowPost)
}

// CreatePost stores a review posted as JSON by the establishment page
func (h *PostHandler) CreatePost(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if !sess.IsAuthenticated() {
		return jsonError(c, http.StatusUnauthorized, "You must be logged in to post")
	}
	establishmentID, err := pathID(c, "id", "Establishment")
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return jsonError(c, http.StatusBadRequest, "Content cannot be empty!")
	}
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Rating must be between 0 and 5 and the title at most 200 characters")
	}

	ctx := c.Request().Context()
	if _, err := h.establishmentRepository.GetEstablishmentByID(ctx, establishmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, "Establishment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load establishment").SetInternal(err)
	}

	post := &models.Post{
		EstablishmentID: establishmentID,
		UserID:          sess.UserID,
		Title:           req.Title,
		Content:         req.Content,
		Rating:          req.Rating,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post").SetInternal(err)
	}
	post.Author = sess.Username

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "success",
		"message": "Posted successfully!",
		"post":    post,
	})
}

// ShowPost shows a post with its comments and the viewer's likes
func (h *PostHandler) ShowPost(c echo.Context) error {
	id, err := pathID(c, "id", "Post")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post").SetInternal(err)
	}

	comments, err := h.commentRepository.GetCommentsByPostID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load comments").SetInternal(err)
	}

	sess := middleware.CurrentSession(c)
	userLikedPost := false
	if sess.IsAuthenticated() {
		if userLikedPost, err = h.likeRepository.HasUserLikedPost(ctx, sess.UserID, id); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load likes").SetInternal(err)
		}
	}

	commentIDs := make([]uint, len(comments))
	for i := range comments {
		commentIDs[i] = comments[i].ID
	}
	userLikedComments, err := h.commentLikeRepository.GetLikedCommentIDs(ctx, sess.UserID, commentIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load likes").SetInternal(err)
	}

	return render(c, h.sessions, http.StatusOK, "post.html", echo.Map{
		"post":                post,
		"comments":            comments,
		"user_liked_post":     userLikedPost,
		"user_liked_comments": userLikedComments,
	})
}
