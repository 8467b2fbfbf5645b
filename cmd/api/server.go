package main

import (
	"context"
	"net/http"
	"time"

	"bookjourney/internal/book"
	"bookjourney/internal/config"
	"bookjourney/internal/httpx"
	"bookjourney/internal/isbn"
	"bookjourney/internal/journey"
	"bookjourney/internal/ledger"
	"bookjourney/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type dependencies struct {
	books    book.Repository
	events   ledger.Repository
	metadata book.MetadataClient
	db       pinger
	registry *prometheus.Registry
}

// newHandler wires the API. Background work started here stops when ctx is done.
func newHandler(ctx context.Context, cfg config.Config, deps dependencies) http.Handler {
	m := metrics.New(deps.registry)

	bookService := book.NewService(deps.books, deps.metadata, isbn.Validator{Formats: cfg.ISBNFormats}, m).
		WithPublicURL(cfg.PublicBaseURL)
	ledgerService := ledger.NewService(deps.events, bookService, m)
	journeyService := journey.NewService(ledgerService)

	bookHandler := book.NewHTTPHandler(bookService)
	ledgerHandler := ledger.NewHTTPHandler(ledgerService)
	journeyHandler := journey.NewHTTPHandler(journeyService)

	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy)
	write := func(h http.HandlerFunc) http.Handler {
		return limiter.Middleware(httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes)(h))
	}

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := deps.db.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	router.Handle("POST /books", write(bookHandler.Create))
	router.HandleFunc("GET /books", bookHandler.List)
	router.HandleFunc("GET /books/{id}", bookHandler.Get)
	router.HandleFunc("GET /books/{id}/qr", bookHandler.Label)
	router.HandleFunc("GET /labels/{code}", bookHandler.ResolveLabel)
	router.HandleFunc("GET /metadata/{isbn}", bookHandler.Lookup)

	router.Handle("POST /books/{id}/events", write(ledgerHandler.Report))
	router.HandleFunc("GET /books/{id}/events", ledgerHandler.List)
	router.HandleFunc("GET /books/{id}/status", ledgerHandler.Status)
	router.HandleFunc("GET /actors/{name}/events", ledgerHandler.ListByActor)

	router.HandleFunc("GET /books/{id}/journey", journeyHandler.Get)

	var handler http.Handler = router
	handler = httpx.IdentityMiddleware(cfg.JWTSecret)(handler)
	handler = m.Middleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.SecurityHeadersMiddleware(cfg.EnableHSTS)(handler)
	handler = httpx.CORSMiddleware(cfg.CORSAllowedOrigins)(handler)
	handler = httpx.RequestIDMiddleware(handler)
	return handler
}
