package book

import (
	"context"
	"errors"
	"fmt"
)

const createLimitKeyPrefix = "book:create:"

// Service provides book-related business logic. It holds no mutable state;
// ids, durability and rate-limit counters live in its collaborators.
type Service struct {
	repo      Repository
	directory Directory
	limiter   Limiter
}

// NewService creates a new book service.
func NewService(repo Repository, directory Directory, limiter Limiter) *Service {
	return &Service{repo: repo, directory: directory, limiter: limiter}
}

// ListAll returns up to MaxListBooks books, oldest first, each with its
// first owner resolved through one batched directory lookup.
func (s *Service) ListAll(ctx context.Context) ([]EnrichedBook, error) {
	books, err := s.repo.FindMany(ctx, MaxListBooks)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	if len(books) > MaxListBooks {
		books = books[:MaxListBooks]
	}
	if len(books) == 0 {
		return []EnrichedBook{}, nil
	}

	users, err := s.directory.GetUserList(ctx, DistinctOwnerIDs(books))
	if err != nil {
		return nil, fmt.Errorf("get user list: %w", err)
	}

	enriched, err := JoinOwners(books, users)
	if err != nil {
		unknownOwners.Inc()
		return nil, err
	}
	return enriched, nil
}

// Create registers a book owned by callerID. The checks run in order:
// signed in, valid input, rate limit admission; nothing is written unless all
// of them pass.
func (s *Service) Create(ctx context.Context, callerID string, in NewBook) (Book, error) {
	if callerID == "" {
		createRejected.WithLabelValues("unauthorized").Inc()
		return Book{}, ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			createRejected.WithLabelValues("invalid").Inc()
		}
		return Book{}, err
	}

	admitted, err := s.limiter.Admit(ctx, createLimitKeyPrefix+callerID)
	if err != nil {
		return Book{}, fmt.Errorf("rate limiter: %w", err)
	}
	if !admitted {
		createRejected.WithLabelValues("rate_limited").Inc()
		return Book{}, ErrRateLimited
	}

	b := &Book{
		Title:        in.Title,
		Author:       in.Author,
		FirstOwnerID: callerID,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}

	booksCreated.Inc()
	return *b, nil
}
