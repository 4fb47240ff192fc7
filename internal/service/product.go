package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/vendly/marketplace/pkg/errors"

	"github.com/vendly/marketplace/internal/domain"
	"github.com/vendly/marketplace/internal/event"
	"github.com/vendly/marketplace/internal/notify"
	"github.com/vendly/marketplace/internal/policy"
	"github.com/vendly/marketplace/internal/repository"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	products  repository.ProductRepository
	stores    repository.StoreRepository
	announcer notify.Announcer
	producer  *event.Producer
	logger    *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	stores repository.StoreRepository,
	announcer notify.Announcer,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:  products,
		stores:    stores,
		announcer: announcer,
		producer:  producer,
		logger:    logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged; the owning store is immutable.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
}

// CreateProduct creates a new product under the given store. Only the store's
// vendor may create products in it.
func (s *ProductService) CreateProduct(ctx context.Context, requesterID, storeID string, input CreateProductInput) (*domain.Product, error) {
	store, err := s.getStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanManageProduct(requesterID, store); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.InvalidInput("product description is required")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		Name:        name,
		Description: description,
		Price:       input.Price,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	// Persistence is durable; the announcement and event are best-effort.
	if err := s.announcer.Announce(ctx, notify.Announcement{
		Kind:        notify.KindProductCreated,
		StoreName:   store.Name,
		ProductName: product.Name,
		Price:       product.Price.StringFixed(2),
		Description: product.Description,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to announce product creation",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// GetProduct returns a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, err
	}
	return product, nil
}

// ListProductsByStore returns a page of products for an existing store.
func (s *ProductService) ListProductsByStore(ctx context.Context, storeID string, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	if _, err := s.getStore(ctx, storeID); err != nil {
		return nil, 0, err
	}

	filter.StoreID = storeID
	return s.products.List(ctx, filter)
}

// UpdateProduct applies the given changes to a product. Ownership flows
// through the product's store.
func (s *ProductService) UpdateProduct(ctx context.Context, requesterID, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	store, err := s.getStore(ctx, product.StoreID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanManageProduct(requesterID, store); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateProductName(name); err != nil {
			return nil, err
		}
		product.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperrors.InvalidInput("product description is required")
		}
		product.Description = description
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = *input.Price
	}
	if input.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// DeleteProduct removes a product and its reviews. Ownership flows through
// the product's store.
func (s *ProductService) DeleteProduct(ctx context.Context, requesterID, id string) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	store, err := s.getStore(ctx, product.StoreID)
	if err != nil {
		return err
	}

	if err := policy.CanManageProduct(requesterID, store); err != nil {
		return err
	}

	if err := s.products.DeleteCascade(ctx, id); err != nil {
		return err
	}

	if err := s.producer.PublishProductDeleted(ctx, id, product.StoreID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (s *ProductService) getStore(ctx context.Context, storeID string) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("store", storeID)
		}
		return nil, err
	}
	return store, nil
}

func validateProductName(name string) error {
	if len(name) < 3 {
		return apperrors.InvalidInput("product name must be at least 3 characters")
	}
	if len(name) > 200 {
		return apperrors.InvalidInput("product name must be at most 200 characters")
	}
	return nil
}

// validatePrice enforces a non-negative decimal with at most two fractional
// digits.
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperrors.InvalidInput("price must not be negative")
	}
	if price.Exponent() < -2 {
		return apperrors.InvalidInput("price must have at most 2 fractional digits")
	}
	return nil
}
