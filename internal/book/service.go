package book

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// ServiceConfig tunes the book service.
type ServiceConfig struct {
	PageSize int
	// PrefetchNextPage fetches page+1 in the background after every search.
	PrefetchNextPage bool
}

// SearchResult is one page of search results.
type SearchResult struct {
	Books []*Book
	Total int
}

// Service provides book search and enrichment.
type Service struct {
	catalog  Catalog
	cache    *Cache
	enricher *Enricher
	cfg      ServiceConfig
	log      *zap.Logger
}

// NewService creates a new book service.
func NewService(catalog Catalog, cache *Cache, enricher *Enricher, cfg ServiceConfig, log *zap.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog:  catalog,
		cache:    cache,
		enricher: enricher,
		cfg:      cfg,
		log:      log,
	}
}

// Search returns one page of books matching query. Books already in the cache are
// returned as cached, with whatever enrichment they carry.
func (s *Service) Search(ctx context.Context, query string, page int) (SearchResult, error) {
	if page < 1 {
		page = 1
	}
	docs, total, err := s.catalog.Search(ctx, query, page, s.cfg.PageSize)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search %q page %d: %w", query, page, err)
	}

	books := make([]*Book, 0, len(docs))
	for _, doc := range docs {
		books = append(books, s.cache.Resolve(doc))
	}

	s.log.Debug("search page resolved",
		zap.String("query", query),
		zap.Int("page", page),
		zap.Int("books", len(books)),
		zap.Int("cached_books", s.cache.Len()))

	if s.cfg.PrefetchNextPage && page*s.cfg.PageSize < total {
		go s.prefetch(context.WithoutCancel(ctx), query, page+1)
	}

	return SearchResult{Books: books, Total: total}, nil
}

func (s *Service) prefetch(ctx context.Context, query string, page int) {
	if _, _, err := s.catalog.Search(ctx, query, page, s.cfg.PageSize); err != nil {
		s.log.Warn("prefetch next page failed",
			zap.String("query", query),
			zap.Int("page", page),
			zap.Error(err))
	}
}

// Get returns the cached books for isbns with fields enriched. Every ISBN must
// have been seen by an earlier search. A single requested field is fetched with
// one batched call; anything else goes through EnrichBatch.
func (s *Service) Get(ctx context.Context, isbns []string, fields []string) ([]*Book, error) {
	books := make([]*Book, 0, len(isbns))
	for _, isbn := range isbns {
		b, ok := s.cache.Lookup(isbn)
		if !ok {
			return nil, &NotFoundError{ISBN: isbn}
		}
		books = append(books, b)
	}

	if len(fields) == 0 {
		fields = DefaultFields
	}
	switch {
	case slices.Equal(fields, []string{FieldCoverURL}):
		s.enricher.AddCovers(ctx, books)
		return books, nil
	case slices.Equal(fields, []string{FieldSummary}):
		if err := s.enricher.AddSummaries(ctx, books); err != nil {
			return nil, fmt.Errorf("summarize books: %w", err)
		}
		return books, nil
	}
	if err := s.enricher.EnrichBatch(ctx, books, fields); err != nil {
		return nil, fmt.Errorf("enrich books: %w", err)
	}
	return books, nil
}
