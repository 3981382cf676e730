package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshare/internal/platform/crypto"
	"bookshare/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

// UserStore is the part of the user service login needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// Token is an issued access token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Service struct {
	secret string
	ttl    time.Duration
	users  UserStore
}

func NewService(secret string, ttl time.Duration, users UserStore) *Service {
	return &Service{secret: secret, ttl: ttl, users: users}
}

// Login checks the credentials and issues a bearer token whose subject is the
// user id.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Token{}, ErrUnauthorized
		}
		return Token{}, fmt.Errorf("lookup user: %w", err)
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Token{}, ErrUnauthorized
	}

	access, err := crypto.GenerateToken(s.secret, u.ID, u.Username, s.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		return Token{}, fmt.Errorf("touch last login: %w", err)
	}

	return Token{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
	}, nil
}
