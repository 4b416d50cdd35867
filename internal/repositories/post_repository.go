package repositories

import (
	"context"

	"github.com/anonto42/review-forum/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostsByEstablishmentID(ctx context.Context, establishmentID uint) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post with a zero like counter
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.Likes = 0
	return r.db.WithContext(ctx).Omit("Establishment").Create(post).Error
}

// GetPostByID retrieves a post with its author name and comment count
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withDetails(ctx).Where("posts.id = ?", id).Take(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostsByEstablishmentID lists an establishment's posts, most liked first
func (r *PostgresPostRepository) GetPostsByEstablishmentID(ctx context.Context, establishmentID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.withDetails(ctx).
		Where("posts.establishment_id = ?", establishmentID).
		Order("posts.likes DESC, posts.id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// withDetails selects the computed author and comment_count columns in one query.
func (r *PostgresPostRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Select("posts.*, users.username AS author, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Joins("LEFT JOIN users ON users.id = posts.user_id")
}
