package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/vendly/marketplace/pkg/errors"

	"github.com/vendly/marketplace/internal/domain"
)

func TestRequireAuthenticated(t *testing.T) {
	assert.NoError(t, RequireAuthenticated("user-1"))

	err := RequireAuthenticated("")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestCanManageStore(t *testing.T) {
	store := &domain.Store{ID: "store-1", VendorID: "vendor-1"}

	tests := []struct {
		name      string
		requester string
		wantErr   error
	}{
		{name: "owner allowed", requester: "vendor-1", wantErr: nil},
		{name: "other user forbidden", requester: "vendor-2", wantErr: apperrors.ErrForbidden},
		{name: "anonymous unauthorized", requester: "", wantErr: apperrors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanManageStore(tt.requester, store)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestCanManageProduct(t *testing.T) {
	store := &domain.Store{ID: "store-1", VendorID: "vendor-1"}

	assert.NoError(t, CanManageProduct("vendor-1", store))

	err := CanManageProduct("vendor-2", store)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	err = CanManageProduct("", store)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestCanListStoreReviews(t *testing.T) {
	store := &domain.Store{ID: "store-1", VendorID: "vendor-1"}

	assert.NoError(t, CanListStoreReviews("vendor-1", store))

	err := CanListStoreReviews("buyer-1", store)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	err = CanListStoreReviews("", store)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestCanDeleteReview(t *testing.T) {
	store := &domain.Store{ID: "store-1", VendorID: "vendor-1"}
	review := &domain.Review{ID: "review-1", UserID: "buyer-1"}

	tests := []struct {
		name      string
		requester string
		wantErr   error
	}{
		{name: "author allowed", requester: "buyer-1", wantErr: nil},
		{name: "store owner allowed", requester: "vendor-1", wantErr: nil},
		{name: "third party forbidden", requester: "buyer-2", wantErr: apperrors.ErrForbidden},
		{name: "anonymous unauthorized", requester: "", wantErr: apperrors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDeleteReview(tt.requester, review, store)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}
