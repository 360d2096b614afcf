// Package config provides application configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all environment-based configuration.
type Config struct {
	// Addr is the address the API server listens on.
	Addr string `envconfig:"APP_ADDR" default:":8080"`

	// Env selects production or development logging.
	Env string `envconfig:"ENV" default:"development"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// BooksPerPage is the search page size.
	BooksPerPage int `envconfig:"BOOKS_PER_PAGE" default:"10"`

	// Model is the chat model used for summaries.
	Model string `envconfig:"MODEL" default:"llama3.2"`

	// PrefetchNextPage warms the search cache with the following page.
	PrefetchNextPage bool `envconfig:"PREFETCH_NEXT_PAGE" default:"true"`

	OpenLibrary OpenLibraryEnv `envconfig:"OPENLIBRARY"`
	LLM         LLMEnv         `envconfig:"LLM"`
	SearchCache SearchCacheEnv `envconfig:"SEARCH_CACHE"`
	Redis       RedisEnv       `envconfig:"REDIS"`
	HTTP        HTTPEnv        `envconfig:"HTTP"`

	// StaticDir holds the web UI. Empty disables static file serving.
	StaticDir string `envconfig:"STATIC_DIR" default:"static"`
}

// OpenLibraryEnv configures the catalog client.
type OpenLibraryEnv struct {
	URL        string        `envconfig:"URL" default:"https://openlibrary.org"`
	UserAgent  string        `envconfig:"USER_AGENT" default:"booksearch/1.0"`
	RPS        float64       `envconfig:"RPS" default:"5"`
	Retries    int           `envconfig:"RETRIES" default:"2"`
	RetryDelay time.Duration `envconfig:"RETRY_DELAY" default:"1s"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

// LLMEnv configures the summarizer.
type LLMEnv struct {
	BaseURL string        `envconfig:"BASE_URL" default:"http://localhost:11434/v1"`
	APIKey  string        `envconfig:"API_KEY"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"120s"`
}

// SearchCacheEnv configures the in-process search page cache.
type SearchCacheEnv struct {
	Size int `envconfig:"SIZE" default:"1024"`
}

// RedisEnv switches the search page cache to Redis when Addr is set.
type RedisEnv struct {
	Addr     string        `envconfig:"ADDR"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	Prefix   string        `envconfig:"PREFIX" default:"booksearch"`
	TTL      time.Duration `envconfig:"TTL" default:"30m"`
}

// HTTPEnv configures the HTTP middleware stack.
type HTTPEnv struct {
	CORSOrigins    []string `envconfig:"CORS_ORIGINS"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"40"`
	EnableHSTS     bool     `envconfig:"ENABLE_HSTS" default:"false"`
}

// Load reads optional .env files, then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Config) validate() error {
	if c.BooksPerPage < 1 || c.BooksPerPage > 100 {
		return fmt.Errorf("BOOKS_PER_PAGE must be between 1 and 100, got %d", c.BooksPerPage)
	}
	if c.Model == "" {
		return fmt.Errorf("MODEL must not be empty")
	}
	if c.OpenLibrary.RPS <= 0 {
		return fmt.Errorf("OPENLIBRARY_RPS must be positive, got %v", c.OpenLibrary.RPS)
	}
	return nil
}
