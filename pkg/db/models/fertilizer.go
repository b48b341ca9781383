package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fertilizer is a rate catalog entry. Entries are never physically deleted;
// retiring one flips IsActive off so historical orders stay resolvable.
type Fertilizer struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string          `gorm:"column:name;type:text;not null;uniqueIndex"`
	RatePerHectare   decimal.Decimal `gorm:"column:rate_per_hectare;type:numeric(12,2);not null"`
	Unit             string          `gorm:"column:unit;not null;default:'kg'"`
	Description      string          `gorm:"column:description;not null;default:''"`
	IsActive         bool            `gorm:"column:is_active;not null;default:true"`
	UpdatedByAdminID *uuid.UUID      `gorm:"column:updated_by_admin_id;type:uuid"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
