package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rhankbrguw/rumah-kosim-api/pkg/httputil"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/validator"

	"github.com/rhankbrguw/rumah-kosim-api/internal/service"
)

// AdminProductHandler handles the admin product management endpoints.
type AdminProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewAdminProductHandler creates a new admin product HTTP handler.
func NewAdminProductHandler(svc *service.CatalogService, logger *slog.Logger) *AdminProductHandler {
	return &AdminProductHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"required"`
	Description string  `json:"description" validate:"required,max=255"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

// UpdateProductImageRequest is the JSON request body for replacing a
// product's image.
type UpdateProductImageRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	Image     string `json:"image" validate:"required"`
}

// DeleteProductRequest is the JSON request body for deleting a product.
type DeleteProductRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

// SetStockRequest is the JSON request body for setting absolute stock.
type SetStockRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=0"`
}

// --- Handlers ---

// ListProducts handles GET /admin/products
// Returns full product rows including stock quantities.
func (h *AdminProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /admin/products
func (h *AdminProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateProductRequest
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

	product, err := h.service.CreateProduct(r.Context(), service.CreateProductInput{
		Title:       req.Title,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, product)
}

// UpdateProductImage handles PATCH /admin/products
func (h *AdminProductHandler) UpdateProductImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateProductImageRequest
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

	if err := h.service.UpdateProductImage(r.Context(), req.ProductID, req.Image); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteProduct handles DELETE /admin/products
func (h *AdminProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req DeleteProductRequest
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

	if err := h.service.DeleteProduct(r.Context(), req.ProductID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// SetStock handles PATCH /admin/products/stock
func (h *AdminProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SetStockRequest
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

	if err := h.service.SetStock(r.Context(), req.ProductID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
