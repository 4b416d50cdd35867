package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anonto42/review-forum/internal/middleware"
	"github.com/anonto42/review-forum/internal/models"
	"github.com/anonto42/review-forum/internal/repositories"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	sessions          *session.Manager
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, sessions *session.Manager) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		sessions:          sessions,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo) {
	e.POST("/post/:id/comment", h.CreateComment)
}

// CreateComment adds the form field "comment" to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if !sess.IsAuthenticated() {
		return rejectAnonymous(c, h.sessions, "You must be logged in to comment")
	}
	postID, err := pathID(c, "id", "Post")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.postRepository.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post").SetInternal(err)
	}

	postURL := fmt.Sprintf("/post/%d", postID)
	content := strings.TrimSpace(c.FormValue("comment"))
	if content == "" {
		if WantsJSON(c) {
			return jsonError(c, http.StatusBadRequest, "Comment cannot be empty!")
		}
		return flashRedirect(c, h.sessions, session.FlashError, "Comment cannot be empty!", postURL)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  sess.UserID,
		Content: content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment").SetInternal(err)
	}
	comment.Author = sess.Username

	if WantsJSON(c) {
		return c.JSON(http.StatusCreated, echo.Map{"status": "success", "comment": comment})
	}
	return flashRedirect(c, h.sessions, session.FlashSuccess, "Comment added!", postURL)
}
