package domain

import "time"

// User is a registered account. Any user may read public catalog data and
// write reviews; a user becomes a vendor the moment they create a store.
type User struct {
	ID           string    `json:"id" xml:"id"`
	Username     string    `json:"username" xml:"username"`
	Email        string    `json:"email" xml:"email"`
	PasswordHash string    `json:"-" xml:"-"`
	CreatedAt    time.Time `json:"created_at" xml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" xml:"updated_at"`
}
