package domain

import (
	"encoding/xml"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item offered by a store. The price is a fixed-point
// decimal with two fractional digits and must never be negative.
type Product struct {
	XMLName     xml.Name        `json:"-" xml:"product"`
	ID          string          `json:"id" xml:"id"`
	StoreID     string          `json:"store_id" xml:"store_id"`
	Name        string          `json:"name" xml:"name"`
	Description string          `json:"description" xml:"description"`
	Price       decimal.Decimal `json:"price" xml:"price"`
	ImageURL    string          `json:"image_url,omitempty" xml:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at" xml:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" xml:"updated_at"`
}

// ProductFilter carries pagination and optional filters for product listings.
type ProductFilter struct {
	StoreID  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
	Page     int
	PerPage  int
}

// Valid product sort orders.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

// IsValidSortBy reports whether s is a supported product sort order.
func IsValidSortBy(s string) bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return true
	}
	return false
}
