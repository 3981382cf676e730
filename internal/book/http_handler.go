package book

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"bookshare/internal/httpx"
)

const rateLimitedMessage = "You are creating books too fast, please wait a minute and try again"

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListAll(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list books")
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"count": len(books)})
}

type createBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := httpx.UserIDFrom(r)
	if callerID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req createBookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	created, err := h.service.Create(r.Context(), callerID, NewBook{Title: req.Title, Author: req.Author})
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, ErrUnauthorized):
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		case errors.As(err, &verr):
			details := make([]httpx.ErrorDetail, len(verr.Fields))
			for i, f := range verr.Fields {
				details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
			}
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book", details)
		case errors.Is(err, ErrRateLimited):
			httpx.JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", rateLimitedMessage, nil)
		default:
			h.internalError(w, r, err, "create book")
		}
		return
	}

	h.log.Info().
		Str("request_id", httpx.RequestIDFrom(r)).
		Str("book_id", created.ID).
		Str("user_id", callerID).
		Msg("book created")
	httpx.JSONSuccessCreated(w, r, created)
}

// Search handles GET /api/search. Book search is not offered yet.
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Search is not available yet", nil)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error, op string) {
	h.log.Error().
		Err(err).
		Str("request_id", httpx.RequestIDFrom(r)).
		Msg(op)
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
