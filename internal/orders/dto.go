package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	"github.com/agrilinkhq/agrilink-backend/pkg/pagination"
)

// SubmitOrderRequest is the farmer payload for placing an order. The land
// area comes from the farmer's profile, not the request.
type SubmitOrderRequest struct {
	FertilizerID uuid.UUID `json:"fertilizerId" validate:"required"`
}

// TransitionRequest carries the admin decision payload. Remarks are required
// when declining.
type TransitionRequest struct {
	Remarks string `json:"remarks,omitempty"`
}

// OrderDTO is the order shape served to both farmers and admins. Snapshot
// fields reflect the catalog at submission time.
type OrderDTO struct {
	ID               uuid.UUID         `json:"id"`
	FarmerID         uuid.UUID         `json:"farmerId"`
	FarmerName       string            `json:"farmerName"`
	LandArea         decimal.Decimal   `json:"landArea"`
	FertilizerID     uuid.UUID         `json:"fertilizerId"`
	FertilizerName   string            `json:"fertilizerName"`
	RatePerUnit      decimal.Decimal   `json:"ratePerUnit"`
	QuantityRequired decimal.Decimal   `json:"quantityRequired"`
	Status           enums.OrderStatus `json:"status"`
	Remarks          string            `json:"remarks,omitempty"`
	ApprovedAt       *time.Time        `json:"approvedAt,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// AdminListFilter narrows the admin order listing.
type AdminListFilter struct {
	Status *enums.OrderStatus
	Page   pagination.Params
}

// AdminListResult pairs a page of orders with pagination metadata.
type AdminListResult struct {
	Orders     []OrderDTO      `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}

// MetricsDTO summarizes order volume and outcome percentages for the admin
// dashboard. Rates are percentage strings fixed to two decimals.
type MetricsDTO struct {
	TotalOrders    int64  `json:"totalOrders"`
	PendingOrders  int64  `json:"pendingOrders"`
	ApprovedOrders int64  `json:"approvedOrders"`
	DeclinedOrders int64  `json:"declinedOrders"`
	OrdersThisWeek int64  `json:"ordersThisWeek"`
	ApprovalRate   string `json:"approvalRate"`
	DeclineRate    string `json:"declineRate"`
	PendingRate    string `json:"pendingRate"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	return &OrderDTO{
		ID:               o.ID,
		FarmerID:         o.FarmerID,
		FarmerName:       o.FarmerName,
		LandArea:         o.LandArea,
		FertilizerID:     o.FertilizerID,
		FertilizerName:   o.FertilizerName,
		RatePerUnit:      o.RatePerUnit,
		QuantityRequired: o.QuantityRequired,
		Status:           o.Status,
		Remarks:          o.Remarks,
		ApprovedAt:       o.ApprovedAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func FromModels(items []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
