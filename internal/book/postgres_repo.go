package book

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) FindMany(ctx context.Context, limit int) ([]Book, error) {
	const query = `
		SELECT id, title, author, first_owner_id, created_at
		FROM books
		ORDER BY created_at ASC, id ASC
		LIMIT $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Book, error) {
		var b Book
		err := row.Scan(&b.ID, &b.Title, &b.Author, &b.FirstOwnerID, &b.CreatedAt)
		return b, err
	})
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author, first_owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.FirstOwnerID).Scan(&b.ID, &b.CreatedAt)
}
