package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"locallibrary/internal/access"
	"locallibrary/internal/author"
	"locallibrary/internal/book"
	"locallibrary/internal/bookinstance"
	"locallibrary/internal/genre"
	"locallibrary/internal/httpx"
	"locallibrary/internal/ingest"
	"locallibrary/internal/language"
	"locallibrary/internal/user"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	genres    *genre.HTTPHandler
	languages *language.HTTPHandler
	authors   *author.HTTPHandler
	books     *book.HTTPHandler
	instances *bookinstance.HTTPHandler
	users     *user.HTTPHandler
	imports   *ingest.HTTPHandler
}

func newRouter(h handlers, db pinger, cfg config, logger *slog.Logger, limiter *httpx.RateLimitMiddleware) http.Handler {
	authed := httpx.AuthMiddleware(cfg.jwtSecret)
	guard := func(p access.Permission, fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, authed, httpx.RequirePermission(p))
	}
	catalog := func(fn http.HandlerFunc) http.Handler { return guard(access.PermManageCatalog, fn) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("POST /users/register", h.users.RegisterUser)
	mux.HandleFunc("POST /users/login", h.users.Login)
	mux.Handle("GET /me", httpx.Chain(http.HandlerFunc(h.users.GetCurrentUser), authed))
	mux.Handle("GET /me/loans", httpx.Chain(http.HandlerFunc(h.instances.MyLoans), authed))
	mux.Handle("PUT /users/{id}/role", guard(access.PermManageCatalog, h.users.SetRole))

	mux.HandleFunc("GET /genres", h.genres.List)
	mux.HandleFunc("GET /genres/{id}", h.genres.Get)
	mux.Handle("POST /genres", catalog(h.genres.Create))
	mux.Handle("PUT /genres/{id}", catalog(h.genres.Update))
	mux.Handle("DELETE /genres/{id}", catalog(h.genres.Delete))

	mux.HandleFunc("GET /languages", h.languages.List)
	mux.HandleFunc("GET /languages/{id}", h.languages.Get)
	mux.Handle("POST /languages", catalog(h.languages.Create))
	mux.Handle("PUT /languages/{id}", catalog(h.languages.Update))
	mux.Handle("DELETE /languages/{id}", catalog(h.languages.Delete))

	mux.HandleFunc("GET /authors", h.authors.List)
	mux.HandleFunc("GET /authors/{id}", h.authors.Get)
	mux.Handle("POST /authors", catalog(h.authors.Create))
	mux.Handle("PUT /authors/{id}", catalog(h.authors.Update))
	mux.Handle("DELETE /authors/{id}", catalog(h.authors.Delete))

	mux.HandleFunc("GET /books", h.books.List)
	mux.HandleFunc("GET /books/{id}", h.books.Get)
	mux.Handle("POST /books", catalog(h.books.Create))
	mux.Handle("POST /books/import", catalog(h.imports.Import))
	mux.Handle("PUT /books/{id}", catalog(h.books.Update))
	mux.Handle("DELETE /books/{id}", catalog(h.books.Delete))

	mux.HandleFunc("GET /instances", h.instances.List)
	mux.HandleFunc("GET /instances/{id}", h.instances.Get)
	mux.Handle("GET /instances/on-loan", guard(access.PermManageLoans, h.instances.OnLoan))
	mux.Handle("POST /instances", catalog(h.instances.Create))
	mux.Handle("PUT /instances/{id}", catalog(h.instances.Update))
	mux.Handle("DELETE /instances/{id}", catalog(h.instances.Delete))
	mux.Handle("GET /instances/{id}/renew", guard(access.PermManageLoans, h.instances.RenewForm))
	mux.Handle("POST /instances/{id}/renew", guard(access.PermManageLoans, h.instances.Renew))
	mux.Handle("POST /instances/{id}/lend", guard(access.PermManageLoans, h.instances.Lend))
	mux.Handle("POST /instances/{id}/return", guard(access.PermMarkReturned, h.instances.Return))

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(logger),
		httpx.AccessLogMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.enableHSTS),
		httpx.CORSMiddleware(cfg.corsOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.maxBodyBytes),
	)
}
