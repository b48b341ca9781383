package fertilizers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
)

// FertilizerDTO is the catalog entry shape served to clients.
type FertilizerDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	RatePerHectare decimal.Decimal `json:"ratePerHectare"`
	Unit           string          `json:"unit"`
	Description    string          `json:"description,omitempty"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CreateFertilizerRequest is the admin payload for adding a catalog entry.
type CreateFertilizerRequest struct {
	Name           string          `json:"name" validate:"required"`
	RatePerHectare decimal.Decimal `json:"ratePerHectare" validate:"required"`
	Unit           string          `json:"unit,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// UpdateFertilizerRequest carries a partial catalog update; nil fields are
// left untouched.
type UpdateFertilizerRequest struct {
	Name           *string          `json:"name,omitempty"`
	RatePerHectare *decimal.Decimal `json:"ratePerHectare,omitempty"`
	Unit           *string          `json:"unit,omitempty"`
	Description    *string          `json:"description,omitempty"`
	IsActive       *bool            `json:"isActive,omitempty"`
}

func FromModel(f *models.Fertilizer) *FertilizerDTO {
	if f == nil {
		return nil
	}

	return &FertilizerDTO{
		ID:             f.ID,
		Name:           f.Name,
		RatePerHectare: f.RatePerHectare,
		Unit:           f.Unit,
		Description:    f.Description,
		IsActive:       f.IsActive,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func FromModels(items []models.Fertilizer) []FertilizerDTO {
	out := make([]FertilizerDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
