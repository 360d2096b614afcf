package main

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"booksearch/internal/book"
	"booksearch/internal/config"
	"booksearch/internal/httpx"
	"booksearch/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, staticDir string) (http.Handler, *book.MockCatalog) {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := book.NewMockCatalog(ctrl)
	summarizer := book.NewMockSummarizer(ctrl)

	cache := book.NewCache()
	enricher := book.NewEnricher(catalog, summarizer, "llama3.2", nil)
	service := book.NewService(catalog, cache, enricher, book.ServiceConfig{PageSize: 10}, nil)

	limiter := httpx.NewRateLimiter(1000, 1000)
	t.Cleanup(limiter.Stop)

	router := newRouter(book.NewHTTPHandler(service, nil), staticDir, zap.NewNop())
	return withMiddleware(router, config.HTTPEnv{CORSOrigins: []string{"*"}}, limiter, zap.NewNop()), catalog
}

func TestRouting(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>booksearch</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('hi')"), 0o644))

	handler, catalog := newTestHandler(t, staticDir)

	t.Run("healthz", func(t *testing.T) {
		w := testutil.MakeRequest(handler, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("search", func(t *testing.T) {
		catalog.EXPECT().Search(gomock.Any(), "dune", 1, 10).Return([]book.Fields{testutil.DuneDoc()}, 1, nil)

		w := testutil.MakeRequest(handler, http.MethodGet, "/search?title=dune", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("search rejects other methods", func(t *testing.T) {
		w := testutil.MakeRequest(handler, http.MethodPost, "/search?title=dune", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("book lookup before search", func(t *testing.T) {
		w := testutil.MakeRequest(handler, http.MethodGet, "/book?isbn=0441013597", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": "Unable to find a book with the isbn 0441013597."}`, w.Body.String())
	})

	t.Run("index", func(t *testing.T) {
		w := testutil.MakeRequest(handler, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "booksearch")
	})

	t.Run("static asset", func(t *testing.T) {
		w := testutil.MakeRequest(handler, http.MethodGet, "/app.js", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "console.log")
	})
}

func TestRouting_WithoutStaticDir(t *testing.T) {
	handler, _ := newTestHandler(t, filepath.Join(t.TempDir(), "missing"))

	w := testutil.MakeRequest(handler, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
