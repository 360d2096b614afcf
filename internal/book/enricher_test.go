package book_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"booksearch/internal/book"
	"booksearch/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "llama3.2"

func newTestEnricher(t *testing.T) (*book.Enricher, *book.MockCatalog, *book.MockSummarizer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := book.NewMockCatalog(ctrl)
	summarizer := book.NewMockSummarizer(ctrl)
	return book.NewEnricher(catalog, summarizer, testModel, nil), catalog, summarizer
}

func TestEnricher_SearchThenEnrich(t *testing.T) {
	enricher, catalog, summarizer := newTestEnricher(t)
	cache := book.NewCache()
	service := book.NewService(catalog, cache, enricher, book.ServiceConfig{PageSize: 10}, nil)
	ctx := context.Background()

	catalog.EXPECT().Search(gomock.Any(), "dune", 1, 10).Return([]book.Fields{{
		"title":       "Dune",
		"isbn":        []any{testutil.DuneISBN},
		"author_name": []any{"Frank Herbert"},
	}}, 1, nil)
	catalog.EXPECT().CoverURL(gomock.Any(), testutil.DuneISBN).Return("http://covers/x.jpg")
	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).Return("Dune is...")

	result, err := service.Search(ctx, "dune", 1)
	require.NoError(t, err)
	require.Len(t, result.Books, 1)

	b := result.Books[0]
	require.NoError(t, enricher.Enrich(ctx, b, book.DefaultFields))

	assert.Equal(t, map[string]any{
		"title":          "Dune",
		"authors":        []string{"Frank Herbert"},
		"isbn":           testutil.DuneISBN,
		"cover_url":      "http://covers/x.jpg",
		"summary":        "Dune is...",
		"fully_enriched": true,
	}, b.ToMap())

	cached, ok := cache.Lookup(testutil.DuneISBN)
	require.True(t, ok)
	assert.Same(t, b, cached)
}

func TestEnricher_FetchesRunConcurrently(t *testing.T) {
	enricher, catalog, summarizer := newTestEnricher(t)
	b := book.New(testutil.DuneDoc())

	catalog.EXPECT().CoverURL(gomock.Any(), testutil.DuneISBN).DoAndReturn(
		func(context.Context, string) string {
			time.Sleep(100 * time.Millisecond)
			return "http://covers/x.jpg"
		})
	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).DoAndReturn(
		func(context.Context, string, string) string {
			time.Sleep(200 * time.Millisecond)
			return "Dune is..."
		})

	start := time.Now()
	require.NoError(t, enricher.Enrich(context.Background(), b, book.DefaultFields))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 280*time.Millisecond, "fetches should overlap")
	assert.True(t, b.FullyEnriched())
}

func TestEnricher_PartialFailure(t *testing.T) {
	enricher, catalog, summarizer := newTestEnricher(t)
	b := book.New(testutil.DuneDoc())

	catalog.EXPECT().CoverURL(gomock.Any(), testutil.DuneISBN).Return("")
	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).Return("Dune is...")

	require.NoError(t, enricher.Enrich(context.Background(), b, book.DefaultFields))

	assert.Empty(t, b.CoverURL())
	assert.Equal(t, "Dune is...", b.Summary())
	assert.False(t, b.FullyEnriched())
	assert.NotContains(t, b.ToMap(), "cover_url")
}

func TestEnricher_IdempotentWhenEnriched(t *testing.T) {
	enricher, _, _ := newTestEnricher(t)
	doc := testutil.DuneDoc()
	doc["cover_url"] = "http://covers/x.jpg"
	doc["summary"] = "Dune is..."
	b := book.New(doc)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, enricher.Enrich(context.Background(), b, book.DefaultFields))
		}()
	}
	wg.Wait()

	assert.Equal(t, "http://covers/x.jpg", b.CoverURL())
	assert.Equal(t, "Dune is...", b.Summary())
	assert.True(t, b.FullyEnriched())
}

func TestEnricher_OnlyRequestedFields(t *testing.T) {
	enricher, _, summarizer := newTestEnricher(t)
	b := book.New(testutil.DuneDoc())

	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).Return("Dune is...")

	require.NoError(t, enricher.Enrich(context.Background(), b, []string{book.FieldSummary}))

	assert.Empty(t, b.CoverURL())
	assert.Equal(t, "Dune is...", b.Summary())
	assert.False(t, b.FullyEnriched())
}

func TestEnricher_SingleFieldCompletesRecord(t *testing.T) {
	enricher, _, summarizer := newTestEnricher(t)
	doc := testutil.DuneDoc()
	doc["cover_url"] = "http://covers/x.jpg"
	b := book.New(doc)

	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).Return("Dune is...")

	require.NoError(t, enricher.Enrich(context.Background(), b, []string{book.FieldSummary}))

	assert.True(t, b.FullyEnriched())
}

func TestEnricher_SkipsCoverWithoutISBN(t *testing.T) {
	enricher, _, summarizer := newTestEnricher(t)
	b := book.New(book.Fields{"title": "Anonymous pamphlet"})

	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).Return("A pamphlet.")

	require.NoError(t, enricher.Enrich(context.Background(), b, book.DefaultFields))

	assert.Empty(t, b.CoverURL())
	assert.Equal(t, "A pamphlet.", b.Summary())
}

func TestEnricher_KeepsValueWrittenDuringFetch(t *testing.T) {
	enricher, catalog, summarizer := newTestEnricher(t)
	b := book.New(testutil.DuneDoc())

	catalog.EXPECT().CoverURL(gomock.Any(), testutil.DuneISBN).DoAndReturn(
		func(context.Context, string) string {
			b.FillCoverURL("http://covers/first.jpg")
			return "http://covers/late.jpg"
		})
	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).Return("Dune is...")

	require.NoError(t, enricher.Enrich(context.Background(), b, book.DefaultFields))

	assert.Equal(t, "http://covers/first.jpg", b.CoverURL())
}

func TestEnricher_SummaryPayload(t *testing.T) {
	enricher, _, summarizer := newTestEnricher(t)
	doc := testutil.DuneDoc()
	doc["cover_url"] = "http://covers/x.jpg"
	b := book.New(doc)

	summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).DoAndReturn(
		func(_ context.Context, payload, _ string) string {
			assert.Contains(t, payload, `"title": "Dune"`)
			assert.NotContains(t, payload, "isbn")
			assert.NotContains(t, payload, "cover_url")
			return "Dune is..."
		})

	require.NoError(t, enricher.Enrich(context.Background(), b, []string{book.FieldSummary}))
}

func TestEnricher_EnrichBatch(t *testing.T) {
	t.Run("enriches every book", func(t *testing.T) {
		enricher, catalog, summarizer := newTestEnricher(t)
		books := []*book.Book{
			book.New(testutil.Doc("A", "1111111111")),
			book.New(testutil.Doc("B", "2222222222")),
			book.New(testutil.Doc("C", "3333333333")),
		}

		catalog.EXPECT().CoverURL(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, isbn string) string {
				return "http://covers/" + isbn + ".jpg"
			}).Times(3)
		summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).Return("summary").Times(3)

		require.NoError(t, enricher.EnrichBatch(context.Background(), books, book.DefaultFields))

		for _, b := range books {
			assert.Equal(t, "http://covers/"+b.ISBN+".jpg", b.CoverURL())
			assert.Equal(t, "summary", b.Summary())
			assert.True(t, b.FullyEnriched())
		}
	})

	t.Run("task failure cancels siblings", func(t *testing.T) {
		enricher, _, summarizer := newTestEnricher(t)
		books := []*book.Book{
			book.New(testutil.Doc("Bad", "1111111111")),
			book.New(testutil.Doc("Good", "2222222222")),
		}

		summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), testModel).DoAndReturn(
			func(ctx context.Context, payload, _ string) string {
				if strings.Contains(payload, "Bad") {
					panic("summarizer exploded")
				}
				<-ctx.Done()
				return ""
			}).Times(2)

		done := make(chan error, 1)
		go func() {
			done <- enricher.EnrichBatch(context.Background(), books, []string{book.FieldSummary})
		}()

		select {
		case err := <-done:
			require.Error(t, err)
			assert.Contains(t, err.Error(), "summarizer exploded")
		case <-time.After(2 * time.Second):
			t.Fatal("batch did not stop after a task failure")
		}
		assert.Empty(t, books[1].Summary())
	})
}

func TestEnricher_AddCovers(t *testing.T) {
	t.Run("one call for the missing covers", func(t *testing.T) {
		enricher, catalog, _ := newTestEnricher(t)
		withCover := testutil.Doc("B", "2222222222")
		withCover["cover_url"] = "http://covers/existing.jpg"
		books := []*book.Book{
			book.New(testutil.Doc("A", "1111111111")),
			book.New(withCover),
			book.New(testutil.Doc("C", "3333333333")),
		}

		catalog.EXPECT().CoverURLs(gomock.Any(), []string{"1111111111", "3333333333"}).
			Return([]string{"http://covers/a.jpg", "http://covers/c.jpg"}).
			Times(1)

		enricher.AddCovers(context.Background(), books)

		assert.Equal(t, "http://covers/a.jpg", books[0].CoverURL())
		assert.Equal(t, "http://covers/existing.jpg", books[1].CoverURL())
		assert.Equal(t, "http://covers/c.jpg", books[2].CoverURL())
	})

	t.Run("no call when nothing is missing", func(t *testing.T) {
		enricher, _, _ := newTestEnricher(t)
		doc := testutil.DuneDoc()
		doc["cover_url"] = "http://covers/x.jpg"

		enricher.AddCovers(context.Background(), []*book.Book{book.New(doc)})
	})

	t.Run("lookup failures leave covers empty", func(t *testing.T) {
		enricher, catalog, _ := newTestEnricher(t)
		books := []*book.Book{
			book.New(testutil.Doc("A", "1111111111")),
			book.New(testutil.Doc("B", "2222222222")),
		}

		catalog.EXPECT().CoverURLs(gomock.Any(), gomock.Any()).Return([]string{"", "http://covers/b.jpg"})

		enricher.AddCovers(context.Background(), books)

		assert.Empty(t, books[0].CoverURL())
		assert.Equal(t, "http://covers/b.jpg", books[1].CoverURL())
	})
}

func TestEnricher_AddSummaries(t *testing.T) {
	enricher, _, summarizer := newTestEnricher(t)
	summarized := testutil.Doc("B", "2222222222")
	summarized["summary"] = "existing"
	books := []*book.Book{
		book.New(testutil.Doc("A", "1111111111")),
		book.New(summarized),
	}

	summarizer.EXPECT().SummarizeMany(gomock.Any(), gomock.Any(), testModel).DoAndReturn(
		func(_ context.Context, payloads []string, _ string) []string {
			require.Len(t, payloads, 1)
			assert.Contains(t, payloads[0], `"title": "A"`)
			return []string{"A is..."}
		}).Times(1)

	require.NoError(t, enricher.AddSummaries(context.Background(), books))

	assert.Equal(t, "A is...", books[0].Summary())
	assert.Equal(t, "existing", books[1].Summary())
}

func TestEnricher_SingleFieldBatchesCompleteRecords(t *testing.T) {
	t.Run("cover completes a summarized book", func(t *testing.T) {
		enricher, catalog, _ := newTestEnricher(t)
		doc := testutil.DuneDoc()
		doc["summary"] = "Dune is..."
		b := book.New(doc)

		catalog.EXPECT().CoverURLs(gomock.Any(), []string{testutil.DuneISBN}).Return([]string{"http://covers/x.jpg"})

		enricher.AddCovers(context.Background(), []*book.Book{b})

		assert.True(t, b.FullyEnriched())
		assert.Equal(t, true, b.ToMap()["fully_enriched"])
	})

	t.Run("summary completes a book with a cover", func(t *testing.T) {
		enricher, _, summarizer := newTestEnricher(t)
		doc := testutil.DuneDoc()
		doc["cover_url"] = "http://covers/x.jpg"
		b := book.New(doc)

		summarizer.EXPECT().SummarizeMany(gomock.Any(), gomock.Any(), testModel).Return([]string{"Dune is..."})

		require.NoError(t, enricher.AddSummaries(context.Background(), []*book.Book{b}))

		assert.True(t, b.FullyEnriched())
	})

	t.Run("already complete book is marked without a call", func(t *testing.T) {
		enricher, _, _ := newTestEnricher(t)
		doc := testutil.DuneDoc()
		doc["cover_url"] = "http://covers/x.jpg"
		doc["summary"] = "Dune is..."
		b := book.New(doc)

		enricher.AddCovers(context.Background(), []*book.Book{b})

		assert.True(t, b.FullyEnriched())
	})

	t.Run("failed lookup leaves the book incomplete", func(t *testing.T) {
		enricher, catalog, _ := newTestEnricher(t)
		doc := testutil.DuneDoc()
		doc["summary"] = "Dune is..."
		b := book.New(doc)

		catalog.EXPECT().CoverURLs(gomock.Any(), gomock.Any()).Return([]string{""})

		enricher.AddCovers(context.Background(), []*book.Book{b})

		assert.False(t, b.FullyEnriched())
	})
}
