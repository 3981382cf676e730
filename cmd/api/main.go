package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bookshare/internal/auth"
	"bookshare/internal/book"
	"bookshare/internal/config"
	"bookshare/internal/identity"
	"bookshare/internal/platform/database"
	"bookshare/internal/platform/logger"
	"bookshare/internal/ratelimit"
	"bookshare/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.Database.DSN)
	cancel()
	if err != nil {
		return fmt.Errorf("database %s: %w", redactDSN(cfg.Database.DSN), err)
	}
	defer pool.Close()
	log.Info().Msg("database connection OK")

	checks := []readinessCheck{{name: "database", check: pool.Ping}}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		checks = append(checks, readinessCheck{name: "redis", check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	userRepo := user.NewPostgresRepo(pool, cfg.Database.Timeout)
	userService := user.NewService(userRepo)

	bookService := book.NewService(
		book.NewPostgresRepo(pool, cfg.Database.Timeout),
		newDirectory(cfg.Identity, userRepo, log),
		newCreateLimiter(cfg.RateLimit, rdb, log),
	)

	authService := auth.NewService(cfg.JWT.Secret, cfg.JWT.TTL, userService)

	router, stopRouter := newRouter(routerDeps{
		cfg:    cfg,
		log:    log,
		books:  book.NewHTTPHandler(bookService, log),
		users:  user.NewHTTPHandler(userService, log),
		auth:   auth.NewHTTPHandler(authService, log),
		checks: checks,
	})
	defer stopRouter()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newDirectory picks the remote identity API when one is configured and the
// local users table otherwise.
func newDirectory(cfg config.IdentityConfig, local book.Directory, log zerolog.Logger) book.Directory {
	if cfg.BaseURL == "" {
		log.Info().Msg("identity directory: local users table")
		return local
	}
	log.Info().Str("url", cfg.BaseURL).Msg("identity directory: remote")
	return identity.NewClient(cfg.BaseURL, cfg.APIKey, cfg.RPS, cfg.MaxRetries)
}

func newCreateLimiter(cfg config.RateLimitConfig, rdb *redis.Client, log zerolog.Logger) book.Limiter {
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set, book creation limit is per instance")
		return ratelimit.NewSlidingWindow(cfg.CreateLimit, cfg.CreateWindow)
	}
	return ratelimit.NewRedisSlidingWindow(rdb, cfg.CreateLimit, cfg.CreateWindow, ratelimit.WithPrefix("bookshare:ratelimit:"))
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
