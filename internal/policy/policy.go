// Package policy centralizes ownership and access decisions for the
// marketplace catalog. Every mutating operation asks this package before
// touching storage, so the rules live in exactly one place.
//
// All functions are pure: they inspect the requester and the affected
// records and return nil, a 401 error (no authenticated requester), or a
// 403 error (authenticated but not the owner).
package policy

import (
	apperrors "github.com/vendly/marketplace/pkg/errors"

	"github.com/vendly/marketplace/internal/domain"
)

// RequireAuthenticated is the gate for operations any signed-in user may
// perform, such as creating a store or posting a review.
func RequireAuthenticated(requesterID string) error {
	if requesterID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	return nil
}

// CanManageStore decides whether the requester may update or delete the
// store. Only the owning vendor may.
func CanManageStore(requesterID string, store *domain.Store) error {
	if requesterID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	if requesterID != store.VendorID {
		return apperrors.Forbidden("only the store owner may modify this store")
	}
	return nil
}

// CanManageProduct decides whether the requester may create, update or
// delete a product under the given store. Product ownership flows through
// the store's vendor.
func CanManageProduct(requesterID string, store *domain.Store) error {
	if requesterID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	if requesterID != store.VendorID {
		return apperrors.Forbidden("only the store owner may manage its products")
	}
	return nil
}

// CanListStoreReviews decides whether the requester may see the aggregated
// review feed for a store. The feed is a vendor-facing view, so it is
// restricted to the owner.
func CanListStoreReviews(requesterID string, store *domain.Store) error {
	if requesterID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	if requesterID != store.VendorID {
		return apperrors.Forbidden("only the store owner may list its reviews")
	}
	return nil
}

// CanDeleteReview decides whether the requester may delete a review.
// The review's author may, and so may the vendor owning the store the
// reviewed product belongs to.
func CanDeleteReview(requesterID string, review *domain.Review, store *domain.Store) error {
	if requesterID == "" {
		return apperrors.Unauthorized("authentication required")
	}
	if requesterID == review.UserID || requesterID == store.VendorID {
		return nil
	}
	return apperrors.Forbidden("only the review author or the store owner may delete this review")
}
