package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	"github.com/agrilinkhq/agrilink-backend/pkg/pagination"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order snapshot and returns the persisted model.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByFarmer returns a farmer's orders, newest first.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Order, error) {
	var items []models.Order
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// ListPaged returns one page of orders, newest first, with the total count
// for the same filter. A nil status matches every order.
func (r *Repository) ListPaged(ctx context.Context, status *enums.OrderStatus, page pagination.Params) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := page.Normalize()
	var items []models.Order
	err := query.
		Order("created_at DESC").
		Limit(normalized.Limit).
		Offset(page.Offset()).
		Find(&items).Error
	return items, total, err
}

// TransitionFromPending moves a pending order to the target status. The
// predicate on the current status makes concurrent decisions safe: whichever
// update runs second matches zero rows. Returns the number of rows touched.
func (r *Repository) TransitionFromPending(ctx context.Context, id uuid.UUID, status enums.OrderStatus, remarks string, adminID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":         status,
			"remarks":        remarks,
			"approved_by_id": adminID,
			"approved_at":    at,
		})
	return res.RowsAffected, res.Error
}

// CountByStatus tallies orders per status in a single grouped query.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountCreatedSince counts orders created at or after the cutoff.
func (r *Repository) CountCreatedSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ?", cutoff).
		Count(&count).Error
	return count, err
}
