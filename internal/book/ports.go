package book

import (
	"context"

	"bookshare/internal/identity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	// FindMany returns at most limit books in creation order, oldest first.
	FindMany(ctx context.Context, limit int) ([]Book, error)
	// Create inserts b and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, b *Book) error
}

// Directory resolves user ids to identities in one batched call. Results come
// back in any order and ids the directory does not know are left out.
type Directory interface {
	GetUserList(ctx context.Context, ids []string) ([]identity.Identity, error)
}

// Limiter admits or rejects an action for key, recording admitted ones.
type Limiter interface {
	Admit(ctx context.Context, key string) (bool, error)
}
