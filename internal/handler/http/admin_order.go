package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rhankbrguw/rumah-kosim-api/pkg/httputil"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/validator"

	"github.com/rhankbrguw/rumah-kosim-api/internal/service"
)

// AdminOrderHandler handles the admin order management endpoints.
type AdminOrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewAdminOrderHandler creates a new admin order HTTP handler.
func NewAdminOrderHandler(svc *service.OrderService, logger *slog.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{service: svc, logger: logger}
}

// UpdateOrderStatusRequest is the JSON request body for setting an order's
// status.
type UpdateOrderStatusRequest struct {
	OrderID int64  `json:"orderId" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required"`
}

// ListOrders handles GET /admin/orders
func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /admin/orders
func (h *AdminOrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), req.OrderID, req.Status); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
