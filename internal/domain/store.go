package domain

import (
	"encoding/xml"
	"time"
)

// Store is a vendor storefront. Products live under exactly one store, and
// the owning vendor is fixed at creation time.
type Store struct {
	XMLName     xml.Name  `json:"-" xml:"store"`
	ID          string    `json:"id" xml:"id"`
	Name        string    `json:"name" xml:"name"`
	Description string    `json:"description" xml:"description"`
	LogoURL     string    `json:"logo_url,omitempty" xml:"logo_url,omitempty"`
	VendorID    string    `json:"vendor_id" xml:"vendor_id"`
	CreatedAt   time.Time `json:"created_at" xml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" xml:"updated_at"`
}

// StoreFilter carries pagination and optional filters for store listings.
type StoreFilter struct {
	VendorID string
	Page     int
	PerPage  int
}
