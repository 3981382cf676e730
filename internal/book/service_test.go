package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshare/internal/identity"
	"bookshare/internal/ratelimit"
)

type serviceDeps struct {
	repo      *MockRepository
	directory *MockDirectory
	limiter   *MockLimiter
}

func newTestService(t *testing.T) (*Service, serviceDeps) {
	ctrl := gomock.NewController(t)
	deps := serviceDeps{
		repo:      NewMockRepository(ctrl),
		directory: NewMockDirectory(ctrl),
		limiter:   NewMockLimiter(ctrl),
	}
	return NewService(deps.repo, deps.directory, deps.limiter), deps
}

func makeBooks(n int, owners ...string) []Book {
	books := make([]Book, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range books {
		books[i] = Book{
			ID:           fmt.Sprintf("b%03d", i),
			Title:        fmt.Sprintf("Title %d", i),
			Author:       "Author",
			FirstOwnerID: owners[i%len(owners)],
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	return books
}

func TestService_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("joins owners with one batched lookup", func(t *testing.T) {
		svc, deps := newTestService(t)
		books := makeBooks(5, "u1", "u2")

		deps.repo.EXPECT().FindMany(ctx, MaxListBooks).Return(books, nil)
		deps.directory.EXPECT().
			GetUserList(ctx, []string{"u1", "u2"}).
			Return([]identity.Identity{
				{ID: "u2", Username: strPtr("bob")},
				{ID: "u1", Username: strPtr("alice")},
			}, nil).
			Times(1)

		got, err := svc.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i, eb := range got {
			assert.Equal(t, books[i].ID, eb.Book.ID)
			assert.Equal(t, books[i].FirstOwnerID, eb.FirstOwner.ID)
		}
	})

	t.Run("never returns more than the cap", func(t *testing.T) {
		svc, deps := newTestService(t)

		deps.repo.EXPECT().FindMany(ctx, MaxListBooks).Return(makeBooks(150, "u1"), nil)
		deps.directory.EXPECT().GetUserList(ctx, []string{"u1"}).Return([]identity.Identity{{ID: "u1"}}, nil)

		got, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, got, MaxListBooks)
	})

	t.Run("empty store skips the directory", func(t *testing.T) {
		svc, deps := newTestService(t)

		deps.repo.EXPECT().FindMany(ctx, MaxListBooks).Return(nil, nil)

		got, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unknown owner fails the listing", func(t *testing.T) {
		svc, deps := newTestService(t)

		deps.repo.EXPECT().FindMany(ctx, MaxListBooks).Return(makeBooks(3, "u1", "ghost"), nil)
		deps.directory.EXPECT().GetUserList(ctx, gomock.Any()).Return([]identity.Identity{{ID: "u1"}}, nil)

		got, err := svc.ListAll(ctx)
		assert.ErrorIs(t, err, ErrUnknownOwner)
		assert.Nil(t, got)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, deps := newTestService(t)
		dbErr := errors.New("connection refused")

		deps.repo.EXPECT().FindMany(ctx, MaxListBooks).Return(nil, dbErr)

		got, err := svc.ListAll(ctx)
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, got)
	})

	t.Run("directory failure", func(t *testing.T) {
		svc, deps := newTestService(t)
		dirErr := errors.New("directory unavailable")

		deps.repo.EXPECT().FindMany(ctx, MaxListBooks).Return(makeBooks(1, "u1"), nil)
		deps.directory.EXPECT().GetUserList(ctx, []string{"u1"}).Return(nil, dirErr)

		got, err := svc.ListAll(ctx)
		assert.ErrorIs(t, err, dirErr)
		assert.Nil(t, got)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	valid := NewBook{Title: "Dune", Author: "Frank Herbert"}

	t.Run("persists with the caller as first owner", func(t *testing.T) {
		svc, deps := newTestService(t)
		createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		deps.limiter.EXPECT().Admit(ctx, "book:create:u1").Return(true, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, "u1", b.FirstOwnerID)
			b.ID = "b1"
			b.CreatedAt = createdAt
			return nil
		})

		got, err := svc.Create(ctx, "u1", valid)
		require.NoError(t, err)
		assert.Equal(t, Book{
			ID:           "b1",
			Title:        "Dune",
			Author:       "Frank Herbert",
			FirstOwnerID: "u1",
			CreatedAt:    createdAt,
		}, got)
	})

	t.Run("anonymous caller is rejected before anything else", func(t *testing.T) {
		svc, _ := newTestService(t)

		for _, in := range []NewBook{valid, {}, {Title: strings.Repeat("x", 500)}} {
			_, err := svc.Create(ctx, "", in)
			assert.ErrorIs(t, err, ErrUnauthorized)
		}
	})

	t.Run("invalid input never reaches the limiter", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, "u1", NewBook{Title: strings.Repeat("a", 201), Author: "x"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Fields[0].Field)

		_, err = svc.Create(ctx, "u1", NewBook{Title: "x"})
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "author", verr.Fields[0].Field)
	})

	t.Run("200 code points is accepted", func(t *testing.T) {
		svc, deps := newTestService(t)
		in := NewBook{Title: strings.Repeat("ß", 200), Author: strings.Repeat("ß", 200)}

		deps.limiter.EXPECT().Admit(ctx, gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		_, err := svc.Create(ctx, "u1", in)
		assert.NoError(t, err)
	})

	t.Run("rate limited caller writes nothing", func(t *testing.T) {
		svc, deps := newTestService(t)

		deps.limiter.EXPECT().Admit(ctx, "book:create:u1").Return(false, nil)

		_, err := svc.Create(ctx, "u1", valid)
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("limiter failure writes nothing", func(t *testing.T) {
		svc, deps := newTestService(t)
		limErr := errors.New("redis down")

		deps.limiter.EXPECT().Admit(ctx, gomock.Any()).Return(false, limErr)

		_, err := svc.Create(ctx, "u1", valid)
		assert.ErrorIs(t, err, limErr)
		assert.NotErrorIs(t, err, ErrRateLimited)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, deps := newTestService(t)
		dbErr := errors.New("insert failed")

		deps.limiter.EXPECT().Admit(ctx, gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(dbErr)

		_, err := svc.Create(ctx, "u1", valid)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_CreateSlidingWindow(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewSlidingWindow(3, time.Minute, ratelimit.WithClock(func() time.Time { return now }))
	svc := NewService(repo, NewMockDirectory(ctrl), limiter)
	in := NewBook{Title: "Dune", Author: "Frank Herbert"}

	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(3)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "u1", in)
		require.NoError(t, err, "create %d", i+1)
		now = now.Add(time.Second)
	}

	_, err := svc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, ErrRateLimited)

	// other callers have their own window
	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	_, err = svc.Create(ctx, "u2", in)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	_, err = svc.Create(ctx, "u1", in)
	assert.NoError(t, err)
}
