package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vendly/marketplace/pkg/database"
	apperrors "github.com/vendly/marketplace/pkg/errors"

	"github.com/vendly/marketplace/internal/domain"
)

// StoreRepository implements repository.StoreRepository using PostgreSQL.
type StoreRepository struct {
	pool database.DBTX
}

// NewStoreRepository creates a new PostgreSQL-backed store repository.
func NewStoreRepository(pool database.DBTX) *StoreRepository {
	return &StoreRepository{pool: pool}
}

// Create inserts a new store into the database.
func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (id, name, description, logo_url, vendor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		store.ID,
		store.Name,
		store.Description,
		store.LogoURL,
		store.VendorID,
		store.CreatedAt,
		store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}

	return nil
}

// GetByID retrieves a store by its ID.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	query := `
		SELECT id, name, description, logo_url, vendor_id, created_at, updated_at
		FROM stores
		WHERE id = $1`

	var s domain.Store

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.LogoURL,
		&s.VendorID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan store: %w", err)
	}

	return &s, nil
}

// List returns stores matching the given filter with the total count.
func (r *StoreRepository) List(ctx context.Context, filter domain.StoreFilter) ([]*domain.Store, int64, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.VendorID != "" {
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", argIndex))
		args = append(args, filter.VendorID)
		argIndex++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, logo_url, vendor_id, created_at, updated_at,
		       count(*) OVER() AS total_count
		FROM stores
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var (
		stores     []*domain.Store
		totalCount int64
	)

	for rows.Next() {
		var s domain.Store

		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.LogoURL,
			&s.VendorID,
			&s.CreatedAt,
			&s.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan store row: %w", err)
		}

		stores = append(stores, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate store rows: %w", err)
	}

	if stores == nil {
		stores = []*domain.Store{}
	}

	return stores, totalCount, nil
}

// Update persists changes to an existing store.
func (r *StoreRepository) Update(ctx context.Context, store *domain.Store) error {
	query := `
		UPDATE stores
		SET name = $2, description = $3, logo_url = $4, updated_at = $5
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query,
		store.ID,
		store.Name,
		store.Description,
		store.LogoURL,
		store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("store", store.ID)
	}

	return nil
}

// DeleteCascade removes the store, its products, and all reviews of those
// products in a single transaction.
func (r *StoreRepository) DeleteCascade(ctx context.Context, id string) (err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteStoreCascade", "DELETE FROM stores WHERE id = $1")
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete store: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `
		DELETE FROM reviews
		WHERE product_id IN (SELECT id FROM products WHERE store_id = $1)`, id); err != nil {
		return fmt.Errorf("delete store reviews: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE store_id = $1`, id); err != nil {
		return fmt.Errorf("delete store products: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("store", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete store: %w", err)
	}

	return nil
}
