// Package app wires the book service from configuration.
package app

import (
	"context"
	"fmt"

	"booksearch/internal/book"
	"booksearch/internal/config"
	"booksearch/internal/platform/openlibrary"
	"booksearch/internal/platform/summarizer"
	"booksearch/internal/searchcache"

	"go.uber.org/zap"
)

// App holds the wired components shared by the server and the CLI.
type App struct {
	Cache    *book.Cache
	Enricher *book.Enricher
	Service  *book.Service

	closers []func() error
}

// New connects the catalog, the summarizer and the search cache.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{}

	ol := openlibrary.NewClient(openlibrary.Config{
		BaseURL:    cfg.OpenLibrary.URL,
		UserAgent:  cfg.OpenLibrary.UserAgent,
		Timeout:    cfg.OpenLibrary.Timeout,
		RPS:        cfg.OpenLibrary.RPS,
		MaxRetries: cfg.OpenLibrary.Retries,
		RetryDelay: cfg.OpenLibrary.RetryDelay,
	}, log.Named("openlibrary"))

	store, err := a.searchStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	catalog := searchcache.Wrap(ol, store, log.Named("searchcache"))

	llm := summarizer.NewClient(summarizer.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Timeout: cfg.LLM.Timeout,
	}, log.Named("summarizer"))

	a.Cache = book.NewCache()
	a.Enricher = book.NewEnricher(catalog, llm, cfg.Model, log.Named("enricher"))
	a.Service = book.NewService(catalog, a.Cache, a.Enricher, book.ServiceConfig{
		PageSize:         cfg.BooksPerPage,
		PrefetchNextPage: cfg.PrefetchNextPage,
	}, log.Named("book"))
	return a, nil
}

func (a *App) searchStore(ctx context.Context, cfg config.Config, log *zap.Logger) (searchcache.Store, error) {
	if cfg.Redis.Addr == "" {
		return searchcache.NewLRU(cfg.SearchCache.Size)
	}

	client, err := searchcache.NewRedisClient(ctx, searchcache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	log.Info("search cache backed by redis", zap.String("addr", cfg.Redis.Addr))
	return searchcache.NewRedis(client, cfg.Redis.Prefix, cfg.Redis.TTL), nil
}

// Close releases connections opened by New.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
