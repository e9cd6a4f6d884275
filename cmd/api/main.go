// Command api serves the library catalog and loan workflow over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"locallibrary/internal/author"
	"locallibrary/internal/book"
	"locallibrary/internal/bookinstance"
	"locallibrary/internal/genre"
	"locallibrary/internal/httpx"
	"locallibrary/internal/ingest"
	"locallibrary/internal/language"
	"locallibrary/internal/platform/clock"
	"locallibrary/internal/platform/openlibrary"
	"locallibrary/internal/user"
)

func main() {
	loadEnvFiles()
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.logLevel}))
	slog.SetDefault(logger)

	dbPool := mustOpenDB(cfg.dsn)
	defer dbPool.Close()

	bookService := book.NewService(book.NewPostgresRepo(dbPool, cfg.dbTimeout))
	olClient := openlibrary.NewClient(cfg.openLibraryURL, cfg.openLibraryUserAgent, cfg.openLibraryRPS, 3)

	h := handlers{
		genres:    genre.NewHTTPHandler(genre.NewService(genre.NewPostgresRepo(dbPool, cfg.dbTimeout))),
		languages: language.NewHTTPHandler(language.NewService(language.NewPostgresRepo(dbPool, cfg.dbTimeout))),
		authors:   author.NewHTTPHandler(author.NewService(author.NewPostgresRepo(dbPool, cfg.dbTimeout))),
		books:     book.NewHTTPHandler(bookService),
		imports:   ingest.NewHTTPHandler(ingest.NewService(olClient, ingest.NewPostgresRepo(dbPool, cfg.dbTimeout), bookService)),
		instances: bookinstance.NewHTTPHandler(bookinstance.NewService(bookinstance.NewPostgresRepo(dbPool, cfg.dbTimeout), clock.System)),
		users:     user.NewHTTPHandler(user.NewService(user.NewPostgresRepo(dbPool, cfg.dbTimeout), cfg.jwtSecret, cfg.tokenTTL)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := httpx.NewRateLimitMiddleware(cfg.rateRPS, cfg.rateBurst)
	go limiter.RunCleanup(ctx)

	httpServer := &http.Server{
		Addr:         cfg.addr,
		Handler:      newRouter(h, dbPool, cfg, logger, limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	slog.Info("database connection OK")
	return pool
}
