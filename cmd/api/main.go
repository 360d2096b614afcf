package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"booksearch/internal/app"
	"booksearch/internal/book"
	"booksearch/internal/config"
	"booksearch/internal/httpx"
	"booksearch/internal/platform/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	a, err := app.New(startCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("cannot wire application", zap.Error(err))
	}
	defer a.Close()

	limiter := httpx.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	defer limiter.Stop()

	bookHandler := book.NewHTTPHandler(a.Service, logger.Named("http"))
	router := newRouter(bookHandler, cfg.StaticDir, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           withMiddleware(router, cfg.HTTP, limiter, logger),
		ReadHeaderTimeout: 5 * time.Second,
		// enrichment waits on the summarizer, which is slow
		WriteTimeout: cfg.LLM.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func newRouter(books *book.HTTPHandler, staticDir string, logger *zap.Logger) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.HandleFunc("GET /search", books.Search)
	router.HandleFunc("GET /book", books.GetBooks)

	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		index := filepath.Join(staticDir, "index.html")
		router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, index)
		})
		router.Handle("GET /", http.FileServer(http.Dir(staticDir)))
	} else if staticDir != "" {
		logger.Warn("static directory not found, web UI disabled", zap.String("dir", staticDir))
	}

	return router
}

func withMiddleware(h http.Handler, cfg config.HTTPEnv, limiter *httpx.RateLimiter, logger *zap.Logger) http.Handler {
	return httpx.Chain(h,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger.Named("access")),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		limiter.Middleware,
	)
}
