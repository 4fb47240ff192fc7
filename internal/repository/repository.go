// Package repository defines the persistence interfaces for the marketplace
// catalog. Implementations live in the postgres subpackage.
package repository

import (
	"context"

	"github.com/vendly/marketplace/internal/domain"
)

// UserRepository manages user accounts.
type UserRepository interface {
	// Create persists a new user. Returns AlreadyExists when the username
	// or email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns the user with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername returns the user with the given username or ErrNotFound.
	// Used by the authentication middleware on every authenticated request.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// StoreRepository manages vendor storefronts. Store names are not unique;
// different vendors may run stores under the same name.
type StoreRepository interface {
	// Create persists a new store.
	Create(ctx context.Context, store *domain.Store) error

	// GetByID returns the store with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Store, error)

	// List returns a page of stores matching the filter together with the
	// total match count.
	List(ctx context.Context, filter domain.StoreFilter) ([]*domain.Store, int64, error)

	// Update persists changes to an existing store. Returns ErrNotFound
	// when the store does not exist.
	Update(ctx context.Context, store *domain.Store) error

	// DeleteCascade removes the store together with all of its products and
	// their reviews in a single transaction. Returns ErrNotFound when the
	// store does not exist.
	DeleteCascade(ctx context.Context, id string) error
}

// ProductRepository manages catalog products.
type ProductRepository interface {
	// Create persists a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID returns the product with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns a page of products matching the filter together with the
	// total match count.
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error)

	// Update persists changes to an existing product. Returns ErrNotFound
	// when the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// DeleteCascade removes the product together with its reviews in a
	// single transaction. Returns ErrNotFound when the product does not
	// exist.
	DeleteCascade(ctx context.Context, id string) error
}

// ReviewRepository manages product reviews.
type ReviewRepository interface {
	// Create persists a new review. Returns AlreadyExists when the user has
	// already reviewed the product.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID returns the review with the given ID or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProduct returns a page of reviews for one product together with
	// the total match count.
	ListByProduct(ctx context.Context, productID string, filter domain.ReviewFilter) ([]*domain.Review, int64, error)

	// ListByStore returns a page of reviews across all products of one
	// store together with the total match count.
	ListByStore(ctx context.Context, storeID string, filter domain.ReviewFilter) ([]*domain.Review, int64, error)

	// Delete removes a review. Returns ErrNotFound when the review does not
	// exist.
	Delete(ctx context.Context, id string) error
}
