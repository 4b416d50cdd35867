package services

import (
	"strings"

	"github.com/anonto42/review-forum/internal/models"
)

// FilterPostsByContent keeps the posts whose content contains query, ignoring
// case. Order is preserved; an empty query keeps everything.
func FilterPostsByContent(posts []models.Post, query string) []models.Post {
	if query == "" {
		return posts
	}
	q := strings.ToLower(query)
	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Content), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
