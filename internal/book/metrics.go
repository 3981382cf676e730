package book

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	booksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshare_books_created_total",
		Help: "Books successfully registered",
	})
	createRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshare_book_create_rejected_total",
		Help: "Book creation attempts rejected before the write, by reason",
	}, []string{"reason"})
	unknownOwners = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshare_book_list_unknown_owner_total",
		Help: "Listings that failed because a book owner was missing from the identity directory",
	})
)
