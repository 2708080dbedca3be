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

// CheckoutHandler handles the authenticated checkout endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// SaveAddressRequest is the JSON request body for saving a shipping address.
type SaveAddressRequest struct {
	Address string `json:"address" validate:"required"`
}

// CartItemPayload is one line of the client-submitted cart snapshot.
type CartItemPayload struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

// PaymentRequest is the JSON request body for placing an order. The price on
// each item is trusted as the order's price snapshot; there is no external
// settlement.
type PaymentRequest struct {
	CartItems       []CartItemPayload `json:"cartItems" validate:"required,min=1,dive"`
	Total           float64           `json:"total" validate:"required,gt=0"`
	ShippingAddress string            `json:"shippingAddress" validate:"required"`
	ShippingPrice   float64           `json:"shippingPrice" validate:"gte=0"`
	ShippingMethod  string            `json:"shippingMethod" validate:"required"`
}

// --- Handlers ---

// GetAddress handles GET /checkout/address
func (h *CheckoutHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	address, err := h.service.GetAddress(r.Context(), identity.UserID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"address": address})
}

// SaveAddress handles POST /checkout/address
func (h *CheckoutHandler) SaveAddress(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SaveAddressRequest
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

	if err := h.service.SaveAddress(r.Context(), identity.UserID, req.Address); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Payment handles POST /checkout/payment
func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req PaymentRequest
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

	input := service.PlaceOrderInput{
		Items:           make([]service.PlaceOrderItemInput, len(req.CartItems)),
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		ShippingPrice:   req.ShippingPrice,
		ShippingMethod:  req.ShippingMethod,
	}
	for i, item := range req.CartItems {
		input.Items[i] = service.PlaceOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	order, err := h.service.PlaceOrder(r.Context(), identity.UserID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":        true,
		"orderId":        order.ID,
		"trackingNumber": order.TrackingNumber,
	})
}
