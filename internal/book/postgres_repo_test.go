package book_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshare/internal/book"
	"bookshare/internal/testutil"
)

func TestPostgresRepo(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	t.Run("create assigns id and timestamp", func(t *testing.T) {
		b := &book.Book{Title: "Dune", Author: "Frank Herbert", FirstOwnerID: "user_1"}
		require.NoError(t, repo.Create(ctx, b))
		assert.NotEmpty(t, b.ID)
		assert.False(t, b.CreatedAt.IsZero())
		assert.Equal(t, "user_1", b.FirstOwnerID)
	})

	t.Run("find many is oldest first and capped", func(t *testing.T) {
		_, err := pool.Exec(ctx, "TRUNCATE books")
		require.NoError(t, err)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			_, err := pool.Exec(ctx,
				`INSERT INTO books (title, author, first_owner_id, created_at) VALUES ($1, 'A', 'user_1', $2)`,
				fmt.Sprintf("T%d", i), base.Add(time.Duration(4-i)*time.Hour))
			require.NoError(t, err)
		}

		got, err := repo.FindMany(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"T4", "T3", "T2"}, []string{got[0].Title, got[1].Title, got[2].Title})
	})

	t.Run("title length is enforced by the table too", func(t *testing.T) {
		b := &book.Book{Title: "", Author: "x", FirstOwnerID: "user_1"}
		assert.Error(t, repo.Create(ctx, b))
	})
}
