package domain

import (
	"encoding/xml"
	"time"
)

// Review rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of a product. A user may review a given product
// at most once.
type Review struct {
	XMLName   xml.Name  `json:"-" xml:"review"`
	ID        string    `json:"id" xml:"id"`
	ProductID string    `json:"product_id" xml:"product_id"`
	UserID    string    `json:"user_id" xml:"user_id"`
	Rating    int       `json:"rating" xml:"rating"`
	Comment   string    `json:"comment" xml:"comment"`
	CreatedAt time.Time `json:"created_at" xml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" xml:"updated_at"`
}

// ReviewFilter carries pagination for review listings. The listing scope
// (product or store) is an explicit repository argument.
type ReviewFilter struct {
	Page    int
	PerPage int
}
