package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bookjourney/internal/book"
	"bookjourney/internal/config"
	"bookjourney/internal/ledger"
	"bookjourney/internal/platform/openlibrary"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET not set; all callers are treated as guests")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := dependencies{
		metadata: openlibrary.NewClient(cfg.OpenLibraryUserAgent, cfg.OpenLibraryRPS, cfg.OpenLibraryRetries),
		registry: registry,
	}

	if cfg.UsesPostgres() {
		dbPool := mustOpenDB(cfg.DSN)
		defer dbPool.Close()
		deps.books = book.NewPostgresRepo(dbPool, cfg.DBTimeout)
		deps.events = ledger.NewPostgresRepo(dbPool, cfg.DBTimeout)
		deps.db = dbPool
	} else {
		log.Println("DB_DSN not set; using in-memory store")
		deps.books = book.NewMemoryRepo()
		deps.events = ledger.NewMemoryRepo()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newHandler(ctx, cfg, deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
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
		log.Fatalf("cannot ping database (%s): %v", config.RedactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}
