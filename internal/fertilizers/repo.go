package fertilizers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
)

// Repository exposes fertilizer catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a fertilizers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a catalog entry and returns the persisted model.
func (r *Repository) Create(ctx context.Context, fertilizer *models.Fertilizer) (*models.Fertilizer, error) {
	if err := r.db.WithContext(ctx).Create(fertilizer).Error; err != nil {
		return nil, err
	}
	return fertilizer, nil
}

// FindByID loads a catalog entry by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Fertilizer, error) {
	var fertilizer models.Fertilizer
	if err := r.db.WithContext(ctx).First(&fertilizer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &fertilizer, nil
}

// FindByName retrieves a catalog entry by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Fertilizer, error) {
	var fertilizer models.Fertilizer
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&fertilizer).Error; err != nil {
		return nil, err
	}
	return &fertilizer, nil
}

// ListActive returns active catalog entries ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Fertilizer, error) {
	var items []models.Fertilizer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// ListAll returns every catalog entry, active or not, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Fertilizer, error) {
	var items []models.Fertilizer
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

// Update applies the provided column set to an entry. Returns the number of
// rows touched so callers can distinguish a missing entry.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Fertilizer{}).
		Where("id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}
