package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anonto42/review-forum/internal/models"
	"github.com/anonto42/review-forum/pkg/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQL("sqlite", ":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for SQL-shape tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gormDB, mock
}

type fixture struct {
	users []models.User
	est   models.Establishment
	post  models.Post
}

func seedFixture(t *testing.T, db *gorm.DB, userCount int) fixture {
	t.Helper()
	f := fixture{est: models.Establishment{Name: "Blue Bottle"}}
	require.NoError(t, db.Create(&f.est).Error)
	for i := 0; i < userCount; i++ {
		u := models.User{
			Email:        string(rune('a'+i)) + "@x.com",
			Username:     "user" + string(rune('a'+i)),
			PasswordHash: "hash",
		}
		require.NoError(t, db.Create(&u).Error)
		f.users = append(f.users, u)
	}
	f.post = models.Post{EstablishmentID: f.est.ID, Content: "Great flat white"}
	if userCount > 0 {
		f.post.UserID = f.users[0].ID
	}
	require.NoError(t, NewPostgresPostRepository(db).CreatePost(context.Background(), &f.post))
	return f
}
