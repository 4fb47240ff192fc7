package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/vendly/marketplace/pkg/errors"

	"github.com/vendly/marketplace/internal/domain"
	"github.com/vendly/marketplace/internal/event"
	"github.com/vendly/marketplace/internal/policy"
	"github.com/vendly/marketplace/internal/repository"
)

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	stores   repository.StoreRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	stores repository.StoreRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		stores:   stores,
		producer: producer,
		logger:   logger,
	}
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	Rating  int
	Comment string
}

// CreateReview posts a review for a product. Any authenticated user may
// review, but at most once per product.
func (s *ReviewService) CreateReview(ctx context.Context, requesterID, productID string, input CreateReviewInput) (*domain.Review, error) {
	if err := policy.RequireAuthenticated(requesterID); err != nil {
		return nil, err
	}

	if _, err := s.getProduct(ctx, productID); err != nil {
		return nil, err
	}

	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, apperrors.InvalidInput("review comment is required")
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    requesterID,
		Rating:    input.Rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	return review, nil
}

// ListReviewsByProduct returns a page of reviews for an existing product.
func (s *ReviewService) ListReviewsByProduct(ctx context.Context, productID string, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	if _, err := s.getProduct(ctx, productID); err != nil {
		return nil, 0, err
	}

	return s.reviews.ListByProduct(ctx, productID, filter)
}

// ListReviewsByStore returns a page of reviews across all products of a
// store. Only the store's vendor may see this feed.
func (s *ReviewService) ListReviewsByStore(ctx context.Context, requesterID, storeID string, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, 0, apperrors.NotFound("store", storeID)
		}
		return nil, 0, err
	}

	if err := policy.CanListStoreReviews(requesterID, store); err != nil {
		return nil, 0, err
	}

	return s.reviews.ListByStore(ctx, storeID, filter)
}

// DeleteReview removes a review. Allowed to the review's author and to the
// vendor owning the reviewed product's store.
func (s *ReviewService) DeleteReview(ctx context.Context, requesterID, id string) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("review", id)
		}
		return err
	}

	product, err := s.getProduct(ctx, review.ProductID)
	if err != nil {
		return err
	}

	store, err := s.stores.GetByID(ctx, product.StoreID)
	if err != nil {
		return err
	}

	if err := policy.CanDeleteReview(requesterID, review, store); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.producer.PublishReviewDeleted(ctx, id, review.ProductID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (s *ReviewService) getProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, err
	}
	return product, nil
}
