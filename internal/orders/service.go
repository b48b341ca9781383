package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
	"github.com/agrilinkhq/agrilink-backend/pkg/pagination"
)

// quantityScale is the decimal precision quantities and percentage rates are
// rounded to.
const quantityScale = 2

// weeklyWindow is the trailing period covered by the ordersThisWeek metric.
const weeklyWindow = 7 * 24 * time.Hour

// Service covers order submission, the admin decision workflow, listings and
// dashboard metrics.
type Service interface {
	Submit(ctx context.Context, farmerID uuid.UUID, req SubmitOrderRequest) (*OrderDTO, error)
	Transition(ctx context.Context, adminID, orderID uuid.UUID, status enums.OrderStatus, req TransitionRequest) (*OrderDTO, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]OrderDTO, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) (*AdminListResult, error)
	Metrics(ctx context.Context) (*MetricsDTO, error)
}

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Order, error)
	ListPaged(ctx context.Context, status *enums.OrderStatus, page pagination.Params) ([]models.Order, int64, error)
	TransitionFromPending(ctx context.Context, id uuid.UUID, status enums.OrderStatus, remarks string, adminID uuid.UUID, at time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	CountCreatedSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type farmerReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type fertilizerReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Fertilizer, error)
}

type service struct {
	orders      orderRepository
	farmers     farmerReader
	fertilizers fertilizerReader
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	OrderRepo      orderRepository
	FarmerRepo     farmerReader
	FertilizerRepo fertilizerReader
	Now            func() time.Time
}

// NewService constructs the orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.FarmerRepo == nil {
		return nil, fmt.Errorf("farmer repository is required")
	}
	if params.FertilizerRepo == nil {
		return nil, fmt.Errorf("fertilizer repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		orders:      params.OrderRepo,
		farmers:     params.FarmerRepo,
		fertilizers: params.FertilizerRepo,
		now:         now,
	}, nil
}

func (s *service) Submit(ctx context.Context, farmerID uuid.UUID, req SubmitOrderRequest) (*OrderDTO, error) {
	farmer, err := s.farmers.FindByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup farmer")
	}
	if farmer.LandArea == nil || !farmer.LandArea.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer profile has no usable land area")
	}

	fertilizer, err := s.fertilizers.FindByID(ctx, req.FertilizerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fertilizer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup fertilizer")
	}
	// Existence is the only gate. A retired catalog entry stays orderable by
	// id; the farmer-facing listing is where IsActive filters.
	quantity := farmer.LandArea.Mul(fertilizer.RatePerHectare).Round(quantityScale)

	order := &models.Order{
		FarmerID:         farmer.ID,
		FarmerName:       farmer.FullName,
		LandArea:         *farmer.LandArea,
		FertilizerID:     fertilizer.ID,
		FertilizerName:   fertilizer.Name,
		RatePerUnit:      fertilizer.RatePerHectare,
		QuantityRequired: quantity,
		Status:           enums.OrderStatusPending,
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return FromModel(created), nil
}

func (s *service) Transition(ctx context.Context, adminID, orderID uuid.UUID, status enums.OrderStatus, req TransitionRequest) (*OrderDTO, error) {
	if !status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders can only be approved or declined")
	}
	remarks := strings.TrimSpace(req.Remarks)
	if status == enums.OrderStatusDeclined && remarks == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "remarks are required when declining an order")
	}

	touched, err := s.orders.TransitionFromPending(ctx, orderID, status, remarks, adminID, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order")
	}
	if touched == 0 {
		// Zero rows means either a missing order or one already decided;
		// a second read tells them apart.
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is already %s", order.Status))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return FromModel(order), nil
}

func (s *service) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]OrderDTO, error) {
	items, err := s.orders.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer orders")
	}
	return FromModels(items), nil
}

func (s *service) ListAdmin(ctx context.Context, filter AdminListFilter) (*AdminListResult, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	items, total, err := s.orders.ListPaged(ctx, filter.Status, filter.Page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return &AdminListResult{
		Orders:     FromModels(items),
		Pagination: pagination.BuildMeta(filter.Page, total),
	}, nil
}

func (s *service) Metrics(ctx context.Context) (*MetricsDTO, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	weekly, err := s.orders.CountCreatedSince(ctx, s.now().Add(-weeklyWindow))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count weekly orders")
	}

	pending := counts[enums.OrderStatusPending]
	approved := counts[enums.OrderStatusApproved]
	declined := counts[enums.OrderStatusDeclined]
	total := pending + approved + declined

	return &MetricsDTO{
		TotalOrders:    total,
		PendingOrders:  pending,
		ApprovedOrders: approved,
		DeclinedOrders: declined,
		OrdersThisWeek: weekly,
		ApprovalRate:   percentage(approved, total),
		DeclineRate:    percentage(declined, total),
		PendingRate:    percentage(pending, total),
	}, nil
}

// percentage renders count/total as a fixed two-decimal percentage string,
// "0.00" when there are no orders at all.
func percentage(count, total int64) string {
	if total == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(count).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(quantityScale).
		StringFixed(quantityScale)
}
