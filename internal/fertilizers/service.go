package fertilizers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db"
	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
)

const defaultUnit = "kg"

// Service covers the fertilizer catalog: farmer-facing listing plus admin
// create and update.
type Service interface {
	ListActive(ctx context.Context) ([]FertilizerDTO, error)
	ListAll(ctx context.Context) ([]FertilizerDTO, error)
	Create(ctx context.Context, adminID uuid.UUID, req CreateFertilizerRequest) (*FertilizerDTO, error)
	Update(ctx context.Context, adminID, id uuid.UUID, req UpdateFertilizerRequest) (*FertilizerDTO, error)
}

type fertilizerRepository interface {
	Create(ctx context.Context, fertilizer *models.Fertilizer) (*models.Fertilizer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Fertilizer, error)
	FindByName(ctx context.Context, name string) (*models.Fertilizer, error)
	ListActive(ctx context.Context) ([]models.Fertilizer, error)
	ListAll(ctx context.Context) ([]models.Fertilizer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
}

type service struct {
	repo fertilizerRepository
}

// NewService constructs the catalog service with the provided repository.
func NewService(repo fertilizerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("fertilizer repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListActive(ctx context.Context) ([]FertilizerDTO, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fertilizers")
	}
	return FromModels(items), nil
}

func (s *service) ListAll(ctx context.Context) ([]FertilizerDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fertilizers")
	}
	return FromModels(items), nil
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, req CreateFertilizerRequest) (*FertilizerDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !req.RatePerHectare.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate per hectare must be positive")
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "fertilizer name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup name")
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	fertilizer := &models.Fertilizer{
		Name:             name,
		RatePerHectare:   req.RatePerHectare,
		Unit:             unit,
		Description:      req.Description,
		IsActive:         true,
		UpdatedByAdminID: &adminID,
	}
	created, err := s.repo.Create(ctx, fertilizer)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "fertilizer name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create fertilizer")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, adminID, id uuid.UUID, req UpdateFertilizerRequest) (*FertilizerDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if req.RatePerHectare != nil {
		if !req.RatePerHectare.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate per hectare must be positive")
		}
		updates["rate_per_hectare"] = *req.RatePerHectare
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cannot be empty")
		}
		updates["unit"] = unit
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	updates["updated_by_admin_id"] = adminID
	updates["updated_at"] = time.Now().UTC()

	touched, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "fertilizer name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update fertilizer")
	}
	if touched == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fertilizer not found")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload fertilizer")
	}
	return FromModel(updated), nil
}
