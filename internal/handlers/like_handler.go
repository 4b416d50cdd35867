package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/review-forum/internal/middleware"
	"github.com/anonto42/review-forum/internal/models"
	"github.com/anonto42/review-forum/internal/repositories"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// LikeRecorder counts like toggles. *middleware.Metrics satisfies it.
type LikeRecorder interface {
	RecordLikeToggle(target string, liked bool)
}

// LikeHandler handles like toggles on posts and comments
type LikeHandler struct {
	likeRepository        repositories.LikeRepository
	postRepository        repositories.PostRepository
	commentLikeRepository repositories.CommentLikeRepository
	commentRepository     repositories.CommentRepository
	sessions              *session.Manager
	recorder              LikeRecorder
}

// NewLikeHandler creates a new LikeHandler. recorder may be nil.
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	commentRepo repositories.CommentRepository,
	sessions *session.Manager,
	recorder LikeRecorder,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:        likeRepo,
		postRepository:        postRepo,
		commentLikeRepository: commentLikeRepo,
		commentRepository:     commentRepo,
		sessions:              sessions,
		recorder:              recorder,
	}
}

// RegisterLikeRoutes registers like routes
func (h *LikeHandler) RegisterLikeRoutes(e *echo.Echo) {
	e.POST("/post/:id/like", h.LikePost)
	e.POST("/post/:id/comment/:comment_id/like", h.LikeComment)
}

// LikePost likes the post, or unlikes it if the user already did
func (h *LikeHandler) LikePost(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if !sess.IsAuthenticated() {
		return rejectAnonymous(c, h.sessions, "You must be logged in to like posts")
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

	result, err := h.likeRepository.TogglePostLike(ctx, sess.UserID, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update like").SetInternal(err)
	}
	h.record("post", result)

	return h.respond(c, result, fmt.Sprintf("/post/%d", postID))
}

// LikeComment toggles the user's like on a comment of the post in the URL
func (h *LikeHandler) LikeComment(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	if !sess.IsAuthenticated() {
		return rejectAnonymous(c, h.sessions, "You must be logged in to like comments")
	}
	postID, err := pathID(c, "id", "Post")
	if err != nil {
		return err
	}
	commentID, err := pathID(c, "comment_id", "Comment")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	postURL := fmt.Sprintf("/post/%d", postID)

	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load comment").SetInternal(err)
	}
	if comment.PostID != postID {
		const msg = "Error: comment does not belong to this post"
		if WantsJSON(c) {
			return jsonError(c, http.StatusBadRequest, msg)
		}
		return flashRedirect(c, h.sessions, session.FlashError, msg, postURL)
	}

	result, err := h.commentLikeRepository.ToggleCommentLike(ctx, sess.UserID, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update like").SetInternal(err)
	}
	h.record("comment", result)

	return h.respond(c, result, postURL)
}

func (h *LikeHandler) record(target string, result *models.LikeResult) {
	if h.recorder != nil {
		h.recorder.RecordLikeToggle(target, result.Liked)
	}
}

func (h *LikeHandler) respond(c echo.Context, result *models.LikeResult, redirectTo string) error {
	if WantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{
			"status": "success",
			"likes":  result.Likes,
			"liked":  result.Liked,
		})
	}
	return c.Redirect(http.StatusFound, redirectTo)
}
