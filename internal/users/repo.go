package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByPhone retrieves the user matching the provided phone number.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetOTP installs a fresh one-time-code envelope on the user row and resets
// the attempt counter.
func (r *Repository) SetOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"otp_code":       code,
			"otp_expires_at": expiresAt,
			"otp_attempts":   0,
		}).Error
}

// IncrementOTPAttempts bumps the attempt counter with a single atomic update,
// so concurrent mismatches cannot lose increments.
func (r *Repository) IncrementOTPAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + 1")).Error
}

// MarkVerified flags the user verified and clears the code envelope, making a
// replay of the consumed code fail.
func (r *Repository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_verified":    true,
			"otp_code":       "",
			"otp_expires_at": at,
			"otp_attempts":   0,
		}).Error
}

// ClearExpiredOTPs empties envelopes whose expiry passed before the cutoff.
// Returns the number of rows touched.
func (r *Repository) ClearExpiredOTPs(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("otp_code <> '' AND otp_expires_at < ?", cutoff).
		Updates(map[string]any{
			"otp_code":     "",
			"otp_attempts": 0,
		})
	return res.RowsAffected, res.Error
}
