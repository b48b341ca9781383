package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

// Order is a farmer's fertilizer request, snapshotted at submission time.
// Farmer name, land area, fertilizer name and rate are denormalized so later
// catalog edits never rewrite history; QuantityRequired is frozen at creation.
type Order struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FarmerID         uuid.UUID         `gorm:"column:farmer_id;type:uuid;not null;index"`
	FarmerName       string            `gorm:"column:farmer_name;not null"`
	LandArea         decimal.Decimal   `gorm:"column:land_area;type:numeric(12,2);not null"`
	FertilizerID     uuid.UUID         `gorm:"column:fertilizer_id;type:uuid;not null"`
	FertilizerName   string            `gorm:"column:fertilizer_name;not null"`
	RatePerUnit      decimal.Decimal   `gorm:"column:rate_per_unit;type:numeric(12,2);not null"`
	QuantityRequired decimal.Decimal   `gorm:"column:quantity_required;type:numeric(14,2);not null"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Remarks          string            `gorm:"column:remarks;not null;default:''"`
	ApprovedByID     *uuid.UUID        `gorm:"column:approved_by_id;type:uuid"`
	ApprovedAt       *time.Time        `gorm:"column:approved_at"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
