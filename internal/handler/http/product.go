package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vendly/marketplace/pkg/httputil"
	"github.com/vendly/marketplace/pkg/pagination"
	"github.com/vendly/marketplace/pkg/validator"

	"github.com/vendly/marketplace/internal/domain"
	"github.com/vendly/marketplace/internal/service"
)

// ProductHandler handles product HTTP requests.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logger}
}

// priceValue accepts a JSON string or number, keeping the literal digits so
// the two-decimal constraint survives either encoding.
type priceValue string

// UnmarshalJSON implements json.Unmarshaler.
func (p *priceValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = priceValue(n)
	return nil
}

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Name        string     `json:"name" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"required"`
	Price       priceValue `json:"price" validate:"required"`
	ImageURL    string     `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest is the payload for updating a product. All fields are
// optional.
type UpdateProductRequest struct {
	Name        *string     `json:"name" validate:"omitempty,min=3,max=200"`
	Description *string     `json:"description"`
	Price       *priceValue `json:"price"`
	ImageURL    *string     `json:"image_url" validate:"omitempty,url"`
}

// ListStoreProducts handles GET /api/v1/stores/{storeId}/products
// @Summary List a store's products
// @Description Returns a paginated product list for a store, with optional price filters and sorting
// @Tags products
// @Produce json
// @Param storeId path string true "Store UUID"
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Param sort_by query string false "Sort order: newest, price_asc, price_desc, name_asc, name_desc"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/stores/{storeId}/products [get]
func (h *ProductHandler) ListStoreProducts(w http.ResponseWriter, r *http.Request) {
	storeID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "storeId"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)
	filter := domain.ProductFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	}

	if v := r.URL.Query().Get("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must be a valid decimal number"},
			})
			return
		}
		filter.MinPrice = &price
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "max_price must be a valid decimal number"},
			})
			return
		}
		filter.MaxPrice = &price
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must not exceed max_price"},
		})
		return
	}

	if v := r.URL.Query().Get("sort_by"); v != "" {
		if !domain.IsValidSortBy(v) {
			httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "sort_by must be one of: newest, price_asc, price_desc, name_asc, name_desc"},
			})
			return
		}
		filter.SortBy = v
	}

	products, total, err := h.service.ListProductsByStore(r.Context(), storeID.String(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.NewPaginatedResponse(products, int(total), params.Page, params.PerPage))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/stores/{storeId}/products
// @Summary Create a product
// @Description Creates a product in a store. Only the store's vendor may create.
// @Tags products
// @Accept json
// @Produce json
// @Param storeId path string true "Store UUID"
// @Param request body CreateProductRequest true "Product to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/stores/{storeId}/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	storeID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "storeId"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	price, err := decimal.NewFromString(string(req.Price))
	if err != nil {
		httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "price must be a valid decimal number"},
		})
		return
	}

	product, err := h.service.CreateProduct(r.Context(), requesterID(r), storeID.String(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
// @Summary Update a product
// @Description Updates name, description, price or image. Ownership flows through the store's vendor.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body UpdateProductRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	input := service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(string(*req.Price))
		if err != nil {
			httputil.Write(w, r, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "price must be a valid decimal number"},
			})
			return
		}
		input.Price = &price
	}

	product, err := h.service.UpdateProduct(r.Context(), requesterID(r), id.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
// @Summary Delete a product
// @Description Deletes a product together with its reviews. Ownership flows through the store's vendor.
// @Tags products
// @Param id path string true "Product UUID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), requesterID(r), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
