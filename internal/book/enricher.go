package book

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Enricher fills missing cover URLs and summaries from the catalog and the summarizer.
// It only ever writes empty fields, so concurrent enrichments of one Book are safe.
//
// Both dependencies are I/O bound, so every fetch runs at once and a batch waits for
// the slowest call. An enrichment backed by local computation should be fed through
// one record at a time instead, so that results come back as each one finishes.
type Enricher struct {
	catalog    Catalog
	summarizer Summarizer
	model      string
	log        *zap.Logger
}

// NewEnricher creates an Enricher that asks model for summaries.
func NewEnricher(catalog Catalog, summarizer Summarizer, model string, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{
		catalog:    catalog,
		summarizer: summarizer,
		model:      model,
		log:        log,
	}
}

// Enrich fetches the requested fields that b is missing, concurrently, and fills them in.
// A field that cannot be fetched stays empty; only a failing task (a bug, not an
// unavailable dependency) is returned as an error.
func (e *Enricher) Enrich(ctx context.Context, b *Book, fields []string) error {
	var cover, summary string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(b, func() error {
		if !slices.Contains(fields, FieldCoverURL) || b.CoverURL() != "" || b.ISBN == "" {
			return nil
		}
		cover = e.catalog.CoverURL(gctx, b.ISBN)
		return nil
	}))
	g.Go(recovered(b, func() error {
		if !slices.Contains(fields, FieldSummary) || b.Summary() != "" {
			return nil
		}
		payload, err := b.SummaryPayload()
		if err != nil {
			return err
		}
		summary = e.summarizer.Summarize(gctx, payload, e.model)
		return nil
	}))
	if err := g.Wait(); err != nil {
		return err
	}

	b.FillCoverURL(cover)
	b.FillSummary(summary)
	b.markEnriched(fields, cover != "", summary != "")

	e.log.Debug("book enriched",
		zap.String("isbn", b.ISBN),
		zap.Bool("cover", cover != ""),
		zap.Bool("summary", summary != ""),
		zap.Bool("fully_enriched", b.FullyEnriched()))
	return nil
}

// EnrichBatch enriches every book concurrently, without a cap. The first task failure
// cancels the others; it is returned once all of them have stopped.
func (e *Enricher) EnrichBatch(ctx context.Context, books []*Book, fields []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, b := range books {
		g.Go(func() error {
			return e.Enrich(gctx, b, fields)
		})
	}
	return g.Wait()
}

// AddCovers looks up the covers of all books lacking one with a single batched call,
// then recomputes fully_enriched for every book.
func (e *Enricher) AddCovers(ctx context.Context, books []*Book) {
	var missing []*Book
	var isbns []string
	for _, b := range books {
		if b.CoverURL() == "" && b.ISBN != "" {
			missing = append(missing, b)
			isbns = append(isbns, b.ISBN)
		}
	}

	if len(missing) > 0 {
		urls := e.catalog.CoverURLs(ctx, isbns)
		for i, url := range urls {
			if i >= len(missing) {
				break
			}
			// another request may have filled it while this one was in flight
			missing[i].FillCoverURL(url)
		}
	}
	markAll(books, FieldCoverURL)
}

// AddSummaries summarizes all books lacking a summary with one concurrent batch,
// then recomputes fully_enriched for every book.
func (e *Enricher) AddSummaries(ctx context.Context, books []*Book) error {
	var missing []*Book
	var payloads []string
	for _, b := range books {
		if b.Summary() != "" {
			continue
		}
		payload, err := b.SummaryPayload()
		if err != nil {
			return err
		}
		missing = append(missing, b)
		payloads = append(payloads, payload)
	}

	if len(missing) > 0 {
		summaries := e.summarizer.SummarizeMany(ctx, payloads, e.model)
		for i, summary := range summaries {
			if i >= len(missing) {
				break
			}
			missing[i].FillSummary(summary)
		}
	}
	markAll(books, FieldSummary)
	return nil
}

// markAll recomputes fully_enriched after a single-field pass.
func markAll(books []*Book, field string) {
	fields := []string{field}
	for _, b := range books {
		b.markEnriched(fields, false, false)
	}
}

// recovered turns a panic inside an enrichment task into an error for the group.
func recovered(b *Book, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("enrich book %q: panic: %v", b.ISBN, r)
			}
		}()
		return fn()
	}
}
