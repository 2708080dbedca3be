package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rhankbrguw/rumah-kosim-api/pkg/httputil"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/middleware"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/validator"

	"github.com/rhankbrguw/rumah-kosim-api/internal/service"
)

// CartHandler handles the authenticated cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// AddToCartRequest is the JSON request body for adding or adjusting a cart
// line. Quantity may be negative to reduce a line.
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required"`
}

// RemoveFromCartRequest is the JSON request body for removing a cart line.
type RemoveFromCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

// --- Handlers ---

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	lines, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, lines)
}

// AddToCart handles POST /cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req AddToCartRequest
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

	if err := h.service.Add(r.Context(), identity.UserID, req.ProductID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// RemoveFromCart handles DELETE /cart
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req RemoveFromCartRequest
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

	if err := h.service.Remove(r.Context(), identity.UserID, req.ProductID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
