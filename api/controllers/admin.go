package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrilinkhq/agrilink-backend/api/responses"
	"github.com/agrilinkhq/agrilink-backend/api/validators"
	"github.com/agrilinkhq/agrilink-backend/internal/fertilizers"
	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
	"github.com/agrilinkhq/agrilink-backend/pkg/logger"
	"github.com/agrilinkhq/agrilink-backend/pkg/pagination"
)

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").
			WithDetails(map[string]any{"field": param})
	}
	return id, nil
}

// AdminOrders lists all orders with page/limit pagination and an optional
// status filter.
func AdminOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := orders.AdminListFilter{Page: pagination.Params{Page: page, Limit: limit}}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "unknown order status"))
				return
			}
			filter.Status = &status
		}

		result, err := svc.ListAdmin(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ApproveOrder moves a pending order to approved.
func ApproveOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderDecision(svc, logg, enums.OrderStatusApproved)
}

// DeclineOrder moves a pending order to declined; remarks are mandatory.
func DeclineOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderDecision(svc, logg, enums.OrderStatusDeclined)
}

func orderDecision(svc orders.Service, logg *logger.Logger, status enums.OrderStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.TransitionRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		order, err := svc.Transition(r.Context(), adminID, orderID, status, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}

// AdminMetrics serves the dashboard counters and rates.
func AdminMetrics(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		metrics, err := svc.Metrics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, metrics)
	}
}

// AdminFertilizers lists the whole catalog including inactive entries.
func AdminFertilizers(svc fertilizers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fertilizers service unavailable"))
			return
		}

		list, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"fertilizers": list})
	}
}

// CreateFertilizer adds a catalog entry.
func CreateFertilizer(svc fertilizers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fertilizers service unavailable"))
			return
		}

		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body fertilizers.CreateFertilizerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), adminID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"fertilizer": created})
	}
}

// UpdateFertilizer applies a partial catalog update.
func UpdateFertilizer(svc fertilizers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fertilizers service unavailable"))
			return
		}

		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fertilizerID, err := pathUUID(r, "fertilizerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body fertilizers.UpdateFertilizerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), adminID, fertilizerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"fertilizer": updated})
	}
}
