package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/vendly/marketplace/pkg/errors"

	"github.com/vendly/marketplace/internal/domain"
	"github.com/vendly/marketplace/internal/event"
	"github.com/vendly/marketplace/internal/notify"
	"github.com/vendly/marketplace/internal/policy"
	"github.com/vendly/marketplace/internal/repository"
)

// StoreService implements the business logic for store operations.
type StoreService struct {
	stores    repository.StoreRepository
	users     repository.UserRepository
	announcer notify.Announcer
	producer  *event.Producer
	logger    *slog.Logger
}

// NewStoreService creates a new store service.
func NewStoreService(
	stores repository.StoreRepository,
	users repository.UserRepository,
	announcer notify.Announcer,
	producer *event.Producer,
	logger *slog.Logger,
) *StoreService {
	return &StoreService{
		stores:    stores,
		users:     users,
		announcer: announcer,
		producer:  producer,
		logger:    logger,
	}
}

// CreateStoreInput holds the parameters for creating a store.
type CreateStoreInput struct {
	Name        string
	Description string
	LogoURL     string
}

// UpdateStoreInput holds the parameters for updating a store. Nil fields are
// left unchanged; the vendor and creation timestamp are immutable.
type UpdateStoreInput struct {
	Name        *string
	Description *string
	LogoURL     *string
}

// CreateStore creates a new store owned by the requester and announces it.
func (s *StoreService) CreateStore(ctx context.Context, requesterID string, input CreateStoreInput) (*domain.Store, error) {
	if err := policy.RequireAuthenticated(requesterID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := validateStoreName(name); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.InvalidInput("store description is required")
	}

	now := time.Now().UTC()
	store := &domain.Store{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		LogoURL:     strings.TrimSpace(input.LogoURL),
		VendorID:    requesterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}

	// The store is durable at this point. Announcement and event publishing
	// are best-effort and must not fail the request.
	if err := s.announcer.Announce(ctx, notify.Announcement{
		Kind:        notify.KindStoreCreated,
		StoreName:   store.Name,
		Description: store.Description,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to announce store creation",
			slog.String("store_id", store.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishStoreCreated(ctx, store); err != nil {
		s.logger.WarnContext(ctx, "failed to publish store.created event",
			slog.String("store_id", store.ID),
			slog.String("error", err.Error()),
		)
	}

	return store, nil
}

// GetStore returns a store by ID.
func (s *StoreService) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("store", id)
		}
		return nil, err
	}
	return store, nil
}

// ListStores returns a page of stores.
func (s *StoreService) ListStores(ctx context.Context, filter domain.StoreFilter) ([]*domain.Store, int64, error) {
	return s.stores.List(ctx, filter)
}

// ListStoresByVendor returns a page of stores owned by the given vendor.
// The vendor must exist; a vendor with no stores yields an empty page.
func (s *StoreService) ListStoresByVendor(ctx context.Context, vendorID string, filter domain.StoreFilter) ([]*domain.Store, int64, error) {
	if _, err := s.users.GetByID(ctx, vendorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, 0, apperrors.NotFound("vendor", vendorID)
		}
		return nil, 0, err
	}

	filter.VendorID = vendorID
	return s.stores.List(ctx, filter)
}

// UpdateStore applies the given changes to a store owned by the requester.
func (s *StoreService) UpdateStore(ctx context.Context, requesterID, id string, input UpdateStoreInput) (*domain.Store, error) {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.CanManageStore(requesterID, store); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateStoreName(name); err != nil {
			return nil, err
		}
		store.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperrors.InvalidInput("store description is required")
		}
		store.Description = description
	}
	if input.LogoURL != nil {
		store.LogoURL = strings.TrimSpace(*input.LogoURL)
	}

	store.UpdatedAt = time.Now().UTC()

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}

	if err := s.producer.PublishStoreUpdated(ctx, store); err != nil {
		s.logger.WarnContext(ctx, "failed to publish store.updated event",
			slog.String("store_id", store.ID),
			slog.String("error", err.Error()),
		)
	}

	return store, nil
}

// DeleteStore removes a store owned by the requester together with all of
// its products and their reviews.
func (s *StoreService) DeleteStore(ctx context.Context, requesterID, id string) error {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanManageStore(requesterID, store); err != nil {
		return err
	}

	if err := s.stores.DeleteCascade(ctx, id); err != nil {
		return err
	}

	if err := s.producer.PublishStoreDeleted(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to publish store.deleted event",
			slog.String("store_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func validateStoreName(name string) error {
	if len(name) < 3 {
		return apperrors.InvalidInput("store name must be at least 3 characters")
	}
	if len(name) > 200 {
		return apperrors.InvalidInput("store name must be at most 200 characters")
	}
	return nil
}
