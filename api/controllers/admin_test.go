package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrilinkhq/agrilink-backend/api/middleware"
	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
)

type stubOrdersService struct {
	submitResult     *orders.OrderDTO
	transitionResult *orders.OrderDTO
	listResult       []orders.OrderDTO
	adminResult      *orders.AdminListResult
	metricsResult    *orders.MetricsDTO
	err              error

	gotStatus  enums.OrderStatus
	gotRemarks string
	gotFilter  orders.AdminListFilter
}

func (s *stubOrdersService) Submit(context.Context, uuid.UUID, orders.SubmitOrderRequest) (*orders.OrderDTO, error) {
	return s.submitResult, s.err
}

func (s *stubOrdersService) Transition(_ context.Context, _, _ uuid.UUID, status enums.OrderStatus, req orders.TransitionRequest) (*orders.OrderDTO, error) {
	s.gotStatus = status
	s.gotRemarks = req.Remarks
	return s.transitionResult, s.err
}

func (s *stubOrdersService) ListByFarmer(context.Context, uuid.UUID) ([]orders.OrderDTO, error) {
	return s.listResult, s.err
}

func (s *stubOrdersService) ListAdmin(_ context.Context, filter orders.AdminListFilter) (*orders.AdminListResult, error) {
	s.gotFilter = filter
	return s.adminResult, s.err
}

func (s *stubOrdersService) Metrics(context.Context) (*orders.MetricsDTO, error) {
	return s.metricsResult, s.err
}

func adminRequest(t *testing.T, method, target, orderID string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	if orderID != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("orderId", orderID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return req.WithContext(ctx)
}

func TestApproveOrderPassesStatusAndRemarks(t *testing.T) {
	svc := &stubOrdersService{transitionResult: &orders.OrderDTO{Status: enums.OrderStatusApproved}}
	handler := ApproveOrder(svc, nil)

	orderID := uuid.NewString()
	req := adminRequest(t, http.MethodPost, "/admin/approve-order/"+orderID, orderID, []byte(`{"remarks":"stock available"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotStatus != enums.OrderStatusApproved {
		t.Fatalf("status %q, want approved", svc.gotStatus)
	}
	if svc.gotRemarks != "stock available" {
		t.Fatalf("remarks %q", svc.gotRemarks)
	}
}

func TestApproveOrderAcceptsEmptyBody(t *testing.T) {
	svc := &stubOrdersService{transitionResult: &orders.OrderDTO{Status: enums.OrderStatusApproved}}
	handler := ApproveOrder(svc, nil)

	orderID := uuid.NewString()
	req := adminRequest(t, http.MethodPost, "/admin/approve-order/"+orderID, orderID, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeclineOrderMapsStateConflict(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order is already approved")}
	handler := DeclineOrder(svc, nil)

	orderID := uuid.NewString()
	req := adminRequest(t, http.MethodPost, "/admin/decline-order/"+orderID, orderID, []byte(`{"remarks":"out of stock"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestOrderDecisionRejectsBadOrderID(t *testing.T) {
	handler := ApproveOrder(&stubOrdersService{}, nil)

	req := adminRequest(t, http.MethodPost, "/admin/approve-order/not-a-uuid", "not-a-uuid", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrdersParsesFilters(t *testing.T) {
	svc := &stubOrdersService{adminResult: &orders.AdminListResult{}}
	handler := AdminOrders(svc, nil)

	req := adminRequest(t, http.MethodGet, "/admin/orders?status=pending&page=2&limit=25", "", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotFilter.Status == nil || *svc.gotFilter.Status != enums.OrderStatusPending {
		t.Fatalf("status filter %+v", svc.gotFilter.Status)
	}
	if svc.gotFilter.Page.Page != 2 || svc.gotFilter.Page.Limit != 25 {
		t.Fatalf("page params %+v", svc.gotFilter.Page)
	}
}

func TestAdminOrdersRejectsUnknownStatus(t *testing.T) {
	handler := AdminOrders(&stubOrdersService{}, nil)

	req := adminRequest(t, http.MethodGet, "/admin/orders?status=shipped", "", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminMetricsServesDashboard(t *testing.T) {
	handler := AdminMetrics(&stubOrdersService{metricsResult: &orders.MetricsDTO{
		TotalOrders:  4,
		ApprovalRate: "50.00",
	}}, nil)

	req := adminRequest(t, http.MethodGet, "/admin/metrics", "", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var metrics struct {
		TotalOrders  int64  `json:"totalOrders"`
		ApprovalRate string `json:"approvalRate"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if metrics.TotalOrders != 4 || metrics.ApprovalRate != "50.00" {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}
