package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshare/internal/catalog"
	"bookshare/internal/httpx"
	"bookshare/internal/platform/config"
	"bookshare/internal/render"
	"bookshare/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	src, closeSource, err := catalog.NewSource(ctx, cfg.CatalogSource, catalog.SourceOptions{
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.CatalogHTTPRPS,
		MaxRetries: cfg.CatalogHTTPRetries,
	})
	if err != nil {
		return err
	}
	defer closeSource()

	store := catalog.NewStore(src)
	// A failed first load is not fatal: pages report the catalog as
	// unavailable and SIGHUP retries.
	loadCatalog(ctx, store, cfg.CatalogLoadTimeout)
	go reloadOnHangup(ctx, store, cfg.CatalogLoadTimeout)

	renderer, err := render.NewHTML()
	if err != nil {
		return err
	}

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxyHeaders)
	handler := httpx.Chain(
		web.NewHandler(store, renderer).Routes(),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		rateLimiter.Middleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func loadCatalog(ctx context.Context, store *catalog.Store, timeout time.Duration) {
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	books, err := store.Load(loadCtx)
	if err != nil {
		log.Printf("catalog load failed: %v", err)
		return
	}
	log.Printf("catalog loaded: books=%d", len(books))
}

func reloadOnHangup(ctx context.Context, store *catalog.Store, timeout time.Duration) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			log.Println("SIGHUP received, reloading catalog")
			loadCatalog(ctx, store, timeout)
		}
	}
}
