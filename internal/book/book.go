package book

import (
	"errors"
	"time"
)

const (
	// MaxListBooks caps how many books a listing returns.
	MaxListBooks = 100
	// MaxFieldLength is the maximum title/author length in Unicode code points.
	MaxFieldLength = 200
)

var (
	// ErrUnauthorized is returned when a write is attempted without a signed-in caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned when the caller exhausted the creation window.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnknownOwner means a book references an owner the identity directory
	// did not return. The listing fails as a whole rather than hiding the book.
	ErrUnknownOwner = errors.New("unknown owner for book")
)

// Book is a registered book. FirstOwnerID is the user who registered it and
// never changes.
type Book struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	FirstOwnerID string    `json:"first_owner_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewBook is the caller-supplied part of a book.
type NewBook struct {
	Title  string `json:"title" validate:"required,max=200"`
	Author string `json:"author" validate:"required,max=200"`
}

// OwnerSummary is the public slice of an identity shown next to a book.
type OwnerSummary struct {
	ID              string  `json:"id"`
	Username        *string `json:"username"`
	FirstName       *string `json:"firstname"`
	LastName        *string `json:"lastname"`
	ProfileImageURL string  `json:"profile_image_url"`
}

// EnrichedBook pairs a book with its first owner.
type EnrichedBook struct {
	Book       Book         `json:"book"`
	FirstOwner OwnerSummary `json:"first_owner"`
}
