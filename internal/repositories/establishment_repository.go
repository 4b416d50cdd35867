package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/review-forum/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EstablishmentRepository defines the interface for establishment data operations
type EstablishmentRepository interface {
	ListEstablishments(ctx context.Context, search string) ([]models.Establishment, error)
	GetEstablishmentByID(ctx context.Context, id uint) (*models.Establishment, error)
	SeedDefaults(ctx context.Context) error
}

type postgresEstablishmentRepository struct {
	db *gorm.DB
}

func NewPostgresEstablishmentRepository(db *gorm.DB) EstablishmentRepository {
	return &postgresEstablishmentRepository{db: db}
}

// ListEstablishments returns every establishment whose name contains search,
// ignoring case. An empty search returns all rows.
func (r *postgresEstablishmentRepository) ListEstablishments(ctx context.Context, search string) ([]models.Establishment, error) {
	var establishments []models.Establishment
	q := r.db.WithContext(ctx).Order("id")
	if search != "" {
		q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(search))
	}
	if err := q.Find(&establishments).Error; err != nil {
		return nil, err
	}
	return establishments, nil
}

func (r *postgresEstablishmentRepository) GetEstablishmentByID(ctx context.Context, id uint) (*models.Establishment, error) {
	var est models.Establishment
	if err := r.db.WithContext(ctx).First(&est, id).Error; err != nil {
		return nil, err
	}
	return &est, nil
}

// SeedDefaults inserts the sample establishments when the table is empty.
func (r *postgresEstablishmentRepository) SeedDefaults(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Establishment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows := make([]models.Establishment, 0, len(models.DefaultEstablishments))
	for _, name := range models.DefaultEstablishments {
		rows = append(rows, models.Establishment{Name: name})
	}
	// another instance may seed concurrently
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// containsPattern builds a LIKE pattern matching s anywhere, with wildcards in s escaped.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
