package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

// User represents the canonical identity entity. Farmers and admins share
// the table; the one-time-code envelope lives inline on the row so issue and
// verify cycles are single-row writes.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PhoneNumber  string           `gorm:"column:phone_number;type:text;not null;uniqueIndex"`
	FullName     string           `gorm:"column:full_name;not null"`
	Role         enums.UserRole   `gorm:"column:role;type:text;not null"`
	Email        *string          `gorm:"column:email"`
	LandArea     *decimal.Decimal `gorm:"column:land_area;type:numeric(12,2)"`
	IsVerified   bool             `gorm:"column:is_verified;not null;default:false"`
	OTPCode      string           `gorm:"column:otp_code;not null;default:''"`
	OTPExpiresAt *time.Time       `gorm:"column:otp_expires_at"`
	OTPAttempts  int              `gorm:"column:otp_attempts;not null;default:0"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
