package user

import (
	"errors"
	"time"

	"bookshare/internal/identity"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	ProfileImageURL string     `json:"profile_image_url"`
	PasswordHash    string     `json:"-"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Identity renders the user the way the identity directory describes users.
func (u User) Identity() identity.Identity {
	username := u.Username
	return identity.Identity{
		ID:              u.ID,
		Username:        &username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		EmailAddresses:  []identity.Email{{ID: u.ID, EmailAddress: u.Email}},
		CreatedAt:       u.CreatedAt,
		LastSignInAt:    u.LastLoginAt,
	}
}
