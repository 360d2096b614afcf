// Package searchcache keeps recent catalog search pages so that repeated and
// prefetched searches skip the network.
package searchcache

import (
	"context"
	"fmt"
	"strings"

	"booksearch/internal/book"

	"go.uber.org/zap"
)

// Page is one cached page of search results.
type Page struct {
	Docs  []book.Fields `json:"docs"`
	Total int           `json:"total"`
}

// Store holds pages by key.
type Store interface {
	Get(ctx context.Context, key string) (Page, bool, error)
	Set(ctx context.Context, key string, page Page) error
}

// Key identifies a search page.
func Key(query string, page, limit int) string {
	return fmt.Sprintf("search:%s:%d:%d", strings.ToLower(strings.TrimSpace(query)), page, limit)
}

// Catalog serves Search from a Store and passes cover lookups through.
type Catalog struct {
	book.Catalog
	store Store
	log   *zap.Logger
}

var _ book.Catalog = (*Catalog)(nil)

// Wrap caches the search pages of next in store.
func Wrap(next book.Catalog, store Store, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{Catalog: next, store: store, log: log}
}

// Search returns the cached page when there is one. Store failures count as misses.
func (c *Catalog) Search(ctx context.Context, query string, page, limit int) ([]book.Fields, int, error) {
	key := Key(query, page, limit)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		c.log.Debug("search cache hit", zap.String("key", key))
		return cached.Docs, cached.Total, nil
	}

	docs, total, err := c.Catalog.Search(ctx, query, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if err := c.store.Set(ctx, key, Page{Docs: docs, Total: total}); err != nil {
		c.log.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
	return docs, total, nil
}
