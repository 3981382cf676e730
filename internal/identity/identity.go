// Package identity describes user records held by an identity directory and
// provides a client for a remote directory API.
package identity

import "time"

// Identity is a directory user record. Only a subset of it is exposed to
// clients of the book API; see book.OwnerSummary.
type Identity struct {
	ID              string     `json:"id"`
	Username        *string    `json:"username"`
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	ProfileImageURL string     `json:"profile_image_url"`
	EmailAddresses  []Email    `json:"email_addresses,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastSignInAt    *time.Time `json:"last_sign_in_at,omitempty"`
}

type Email struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}
