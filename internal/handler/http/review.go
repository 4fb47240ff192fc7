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

// ReviewHandler handles review HTTP requests.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: service, logger: logger}
}

// CreateReviewRequest is the payload for posting a review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// ListProductReviews handles GET /api/v1/products/{productId}/reviews
// @Summary List a product's reviews
// @Description Returns a paginated list of reviews for a product
// @Tags reviews
// @Produce json
// @Param productId path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{productId}/reviews [get]
func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)

	reviews, total, err := h.service.ListReviewsByProduct(r.Context(), productID.String(), domain.ReviewFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.NewPaginatedResponse(reviews, int(total), params.Page, params.PerPage))
}

// ListStoreReviews handles GET /api/v1/stores/{storeId}/reviews
// @Summary List reviews across a store
// @Description Returns reviews for every product of a store. Restricted to the owning vendor.
// @Tags reviews
// @Produce json
// @Param storeId path string true "Store UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/stores/{storeId}/reviews [get]
func (h *ReviewHandler) ListStoreReviews(w http.ResponseWriter, r *http.Request) {
	storeID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "storeId"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)

	reviews, total, err := h.service.ListReviewsByStore(r.Context(), requesterID(r), storeID.String(), domain.ReviewFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusOK, httputil.NewPaginatedResponse(reviews, int(total), params.Page, params.PerPage))
}

// CreateReview handles POST /api/v1/products/{productId}/reviews
// @Summary Post a review
// @Description Creates a review for a product. One review per user per product.
// @Tags reviews
// @Accept json
// @Produce json
// @Param productId path string true "Product UUID"
// @Param request body CreateReviewRequest true "Review to post"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/products/{productId}/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReviewRequest
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

	review, err := h.service.CreateReview(r.Context(), requesterID(r), productID.String(), service.CreateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.Write(w, r, http.StatusCreated, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
// @Summary Delete a review
// @Description Deletes a review. Allowed to its author and to the vendor owning the reviewed product's store.
// @Tags reviews
// @Param id path string true "Review UUID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), requesterID(r), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
