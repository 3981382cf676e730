package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bookshare/internal/auth"
	"bookshare/internal/book"
	"bookshare/internal/config"
	"bookshare/internal/httpx"
	"bookshare/internal/user"
)

type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

type routerDeps struct {
	cfg    config.Config
	log    zerolog.Logger
	books  *book.HTTPHandler
	users  *user.HTTPHandler
	auth   *auth.HTTPHandler
	checks []readinessCheck
}

// newRouter wires the HTTP surface. The returned func stops background work
// owned by the middleware.
func newRouter(d routerDeps) (http.Handler, func()) {
	throttle := httpx.NewRateLimitMiddleware(d.cfg.RateLimit.RPS, d.cfg.RateLimit.Burst)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLogMiddleware(d.log))
	r.Use(httpx.RecoveryMiddleware(d.log))
	r.Use(httpx.MetricsMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(false))
	r.Use(httpx.CORSMiddleware(d.cfg.Server.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyHandler(d.checks, d.log))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(httpx.RequestSizeLimitMiddleware(d.cfg.Server.MaxBodyBytes))
		r.Use(throttle.Middleware)
		r.Use(httpx.Authenticate(d.cfg.JWT.Secret))

		r.Get("/books", d.books.List)
		r.With(httpx.RequireAuth).Post("/books", d.books.Create)
		r.Get("/search", d.books.Search)

		r.Post("/users/register", d.users.RegisterUser)
		r.Post("/auth/login", d.auth.Login)
		r.With(httpx.RequireAuth).Get("/me", d.users.GetCurrentUser)
	})

	return r, throttle.Stop
}

// readyHandler runs every check concurrently and reports the first failure.
func readyHandler(checks []readinessCheck, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for _, c := range checks {
			c := c
			g.Go(func() error {
				if err := c.check(gctx); err != nil {
					return fmt.Errorf("%s not ready: %w", c.name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
