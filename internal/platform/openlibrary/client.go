package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"booksearch/internal/book"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://openlibrary.org"

// searchFields are the doc fields requested from search.json.
var searchFields = []string{"author_name", "format", "isbn", "first_publish_year", "title", "first_sentence"}

var _ book.Catalog = (*Client)(nil)

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RPS        float64
	MaxRetries int
	RetryDelay time.Duration
}

// Client talks to the OpenLibrary search and books APIs.
type Client struct {
	http       *resty.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	log        *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "booksearch/1.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:       httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), max(1, int(cfg.RPS))),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		log:        log,
	}
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int           `json:"numFound"`
	Docs     []book.Fields `json:"docs"`
}

// bookData is one entry of api/books?format=json
type bookData struct {
	BibKey       string `json:"bib_key"`
	InfoURL      string `json:"info_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// statusError is a non-2xx reply. 429 and 5xx are worth retrying.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Search returns one page of search docs and the total number of matches.
// Failures are returned to the caller after the configured retries.
func (c *Client) Search(ctx context.Context, query string, page, limit int) ([]book.Fields, int, error) {
	params := map[string]string{
		"q":      query,
		"page":   strconv.Itoa(page),
		"limit":  strconv.Itoa(limit),
		"fields": strings.Join(searchFields, ","),
	}

	var res SearchResponse
	err := retry.Do(
		func() error {
			err := c.get(ctx, "/search.json", params, &res)
			var se *statusError
			if errors.As(err, &se) && !se.retryable() {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("retrying openlibrary search",
				zap.String("query", query),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("openlibrary search: %w", err)
	}
	return res.Docs, res.NumFound, nil
}

// CoverURL returns the thumbnail URL for isbn, or "" if there is none or the
// lookup fails. Failures are logged, never returned.
func (c *Client) CoverURL(ctx context.Context, isbn string) string {
	key := "ISBN:" + isbn
	params := map[string]string{
		"bibkeys": key,
		"format":  "json",
	}

	var res map[string]bookData
	if err := c.get(ctx, "/api/books", params, &res); err != nil {
		c.log.Warn("unable to retrieve cover", zap.String("isbn", isbn), zap.Error(err))
		return ""
	}
	data, ok := res[key]
	if !ok {
		c.log.Warn("unable to retrieve cover", zap.String("isbn", isbn), zap.String("reason", "isbn not in response"))
		return ""
	}
	return data.ThumbnailURL
}

// CoverURLs looks up every cover concurrently. The result is aligned with isbns.
func (c *Client) CoverURLs(ctx context.Context, isbns []string) []string {
	urls := make([]string, len(isbns))
	var g errgroup.Group
	for i, isbn := range isbns {
		g.Go(func() error {
			urls[i] = c.CoverURL(ctx, isbn)
			return nil
		})
	}
	_ = g.Wait()
	return urls
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &statusError{code: resp.StatusCode()}
	}

	if err := json.Unmarshal(resp.Body(), target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
