package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Catalog searches the book catalog and looks up cover images.
type Catalog interface {
	// Search returns one page of raw search docs and the total number of matches.
	Search(ctx context.Context, query string, page, limit int) ([]Fields, int, error)
	// CoverURL returns "" when no cover can be found. It never fails.
	CoverURL(ctx context.Context, isbn string) string
	// CoverURLs returns one entry per isbn, in the same order.
	CoverURLs(ctx context.Context, isbns []string) []string
}

// Summarizer turns a JSON book description into prose.
type Summarizer interface {
	// Summarize returns "" when no summary could be produced. It never fails.
	Summarize(ctx context.Context, payload, model string) string
	// SummarizeMany returns one entry per payload, in the same order.
	SummarizeMany(ctx context.Context, payloads []string, model string) []string
}
