package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendly/marketplace/pkg/httputil"
	"github.com/vendly/marketplace/pkg/pagination"
	"github.com/vendly/marketplace/pkg/validator"

	"github.com/vendly/marketplace/internal/domain"
	"github.com/vendly/marketplace/internal/service"
)

// StoreHandler handles store HTTP requests.
type StoreHandler struct {
	service *service.StoreService
	logger  *slog.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(service *service.StoreService, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{service: service, logger: logger}
}

// CreateStoreRequest is the payload for creating a store.
type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
}

// UpdateStoreRequest is the payload for updating a store. All fields are
// optional.
type UpdateStoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
}

// ListStores handles GET /api/v1/stores
// @Summary List stores
// @Description Returns a paginated list of all stores, newest first
// @Tags stores
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Items per page (default 20, max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/stores [get]
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	stores, total, err := h.service.ListStores(r.Context(), domain.StoreFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.NewPaginatedResponse(stores, int(total), params.Page, params.PerPage))
}

// ListVendorStores handles GET /api/v1/vendors/{vendorId}/stores
// @Summary List a vendor's stores
// @Description Returns the stores owned by a vendor; empty list when the vendor owns none
// @Tags stores
// @Produce json
// @Param vendorId path string true "Vendor UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/vendors/{vendorId}/stores [get]
func (h *StoreHandler) ListVendorStores(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "vendorId"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)

	stores, total, err := h.service.ListStoresByVendor(r.Context(), vendorID.String(), domain.StoreFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.NewPaginatedResponse(stores, int(total), params.Page, params.PerPage))
}

// GetStore handles GET /api/v1/stores/{id}
func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	store, err := h.service.GetStore(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.Response{Data: store})
}

// CreateStore handles POST /api/v1/stores
// @Summary Create a store
// @Description Creates a store owned by the authenticated vendor
// @Tags stores
// @Accept json
// @Produce json
// @Param request body CreateStoreRequest true "Store to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/stores [post]
func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateStoreRequest
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

	store, err := h.service.CreateStore(r.Context(), requesterID(r), service.CreateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusCreated, httputil.Response{Data: store})
}

// UpdateStore handles PUT /api/v1/stores/{id}
// @Summary Update a store
// @Description Updates name, description or logo. Only the owning vendor may update.
// @Tags stores
// @Accept json
// @Produce json
// @Param id path string true "Store UUID"
// @Param request body UpdateStoreRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/stores/{id} [put]
func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateStoreRequest
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

	store, err := h.service.UpdateStore(r.Context(), requesterID(r), id.String(), service.UpdateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.Response{Data: store})
}

// DeleteStore handles DELETE /api/v1/stores/{id}
// @Summary Delete a store
// @Description Deletes a store with all of its products and reviews. Only the owning vendor may delete.
// @Tags stores
// @Param id path string true "Store UUID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/stores/{id} [delete]
func (h *StoreHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteStore(r.Context(), requesterID(r), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
