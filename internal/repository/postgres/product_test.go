package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vendly/marketplace/pkg/errors"

	"github.com/vendly/marketplace/internal/domain"
)

var productColumns = []string{
	"id", "store_id", "name", "description", "price", "image_url", "created_at", "updated_at",
}

var productColumnsWithCount = []string{
	"id", "store_id", "name", "description", "price", "image_url", "created_at", "updated_at",
	"total_count",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		StoreID:     "store-1",
		Name:        "Amber Tumbler",
		Description: "Hand-blown amber glass tumbler",
		Price:       decimal.RequireFromString("24.50"),
		ImageURL:    "https://cdn.example.com/tumbler.jpg",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product) []any {
	return []any{p.ID, p.StoreID, p.Name, p.Description, p.Price, p.ImageURL, p.CreatedAt, p.UpdatedAt}
}

func TestProductRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.StoreID, p.Name, p.Description, p.Price, p.ImageURL, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productColumns).AddRow(productRow(p)...))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.StoreID, result.StoreID)
	assert.True(t, p.Price.Equal(result.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_ByStore(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), int64(1)) // total_count = 1

	mock.ExpectQuery("SELECT .+ FROM products WHERE store_id").
		WithArgs("store-1", 20, 0).
		WillReturnRows(pgxmock.NewRows(productColumnsWithCount).AddRow(row...))

	products, total, err := repo.List(context.Background(), domain.ProductFilter{
		StoreID: "store-1",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(1), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_PriceRange(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), int64(1))

	minPrice := decimal.RequireFromString("10.00")
	maxPrice := decimal.RequireFromString("50.00")

	mock.ExpectQuery("SELECT .+ FROM products WHERE price >= .+ AND price <=").
		WithArgs(minPrice, maxPrice, 20, 0).
		WillReturnRows(pgxmock.NewRows(productColumnsWithCount).AddRow(row...))

	products, total, err := repo.List(context.Background(), domain.ProductFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Page:     1,
		PerPage:  20,
	})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(1), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_SortByPrice(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), int64(1))

	mock.ExpectQuery("SELECT .+ FROM products .*ORDER BY price ASC").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(productColumnsWithCount).AddRow(row...))

	_, _, err := repo.List(context.Background(), domain.ProductFilter{
		SortBy:  domain.SortPriceAsc,
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_DeleteCascade_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := repo.DeleteCascade(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_DeleteCascade_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reviews").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "missing-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
