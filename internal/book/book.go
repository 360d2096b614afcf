package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// NotFoundError reports an ISBN that has no cached book.
type NotFoundError struct {
	ISBN string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Unable to find a book with the isbn %s.", e.ISBN)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Enrichable field names.
const (
	FieldCoverURL = "cover_url"
	FieldSummary  = "summary"
)

// DefaultFields are enriched when a caller does not ask for specific fields.
var DefaultFields = []string{FieldCoverURL, FieldSummary}

// Fields is a loosely structured book description, as decoded from a catalog search doc.
type Fields map[string]any

// Book represents one book and its enrichment state.
// Title, Authors, ISBN, PublishYear and Formats are fixed at construction.
type Book struct {
	Title       string
	Authors     []string
	ISBN        string
	PublishYear int
	Formats     []string

	mu            sync.Mutex
	coverURL      string
	summary       string
	fullyEnriched bool
}

// New builds a Book from f. Absent or mistyped keys leave the field empty.
func New(f Fields) *Book {
	b := &Book{
		Title:       f.str("title"),
		Authors:     f.strings("author_name", "authors"),
		ISBN:        f.first("isbn"),
		PublishYear: f.int("first_publish_year", "publish_year"),
		Formats:     f.strings("format", "formats"),
		coverURL:    f.str(FieldCoverURL),
		summary:     f.str(FieldSummary),
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	return b
}

func (b *Book) CoverURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.coverURL
}

func (b *Book) Summary() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary
}

func (b *Book) FullyEnriched() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fullyEnriched
}

// FillCoverURL sets the cover URL only if it is still empty. It reports whether it wrote.
func (b *Book) FillCoverURL(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fillIfEmpty(&b.coverURL, url)
}

// FillSummary sets the summary only if it is still empty. It reports whether it wrote.
func (b *Book) FillSummary(summary string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fillIfEmpty(&b.summary, summary)
}

func fillIfEmpty(dst *string, v string) bool {
	if *dst != "" || v == "" {
		return false
	}
	*dst = v
	return true
}

// markEnriched recomputes fully_enriched after an enrichment pass over fields.
// A two-field pass that fetched both values counts even if a fill lost a race.
func (b *Book) markEnriched(fields []string, gotCover, gotSummary bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fullyEnriched = (b.coverURL != "" && b.summary != "") ||
		(len(fields) == 2 && gotCover && gotSummary)
}

// ToMap returns the non-empty fields of b, without the keys in omit.
func (b *Book) ToMap(omit ...string) map[string]any {
	b.mu.Lock()
	m := map[string]any{
		"title":          b.Title,
		"authors":        b.Authors,
		"isbn":           b.ISBN,
		"publish_year":   b.PublishYear,
		"formats":        b.Formats,
		FieldCoverURL:    b.coverURL,
		FieldSummary:     b.summary,
		"fully_enriched": b.fullyEnriched,
	}
	b.mu.Unlock()

	for k, v := range m {
		if isEmpty(v) {
			delete(m, k)
		}
	}
	for _, k := range omit {
		delete(m, k)
	}
	return m
}

// SummaryPayload is the JSON handed to the summarizer. Links and ids are left out
// because they only add noise to the generated text.
func (b *Book) SummaryPayload() (string, error) {
	data, err := json.MarshalIndent(b.ToMap(FieldCoverURL, FieldSummary, "isbn"), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary payload: %w", err)
	}
	return string(data), nil
}

// MarshalJSON encodes the same view as ToMap.
func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToMap())
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case int:
		return t == 0
	case bool:
		return !t
	}
	return v == nil
}

func (f Fields) str(key string) string {
	s, _ := f[key].(string)
	return s
}

// first returns key as a string, or the first element when it holds a list.
func (f Fields) first(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []any:
		if len(v) > 0 {
			s, _ := v[0].(string)
			return s
		}
	}
	return ""
}

func (f Fields) strings(keys ...string) []string {
	for _, key := range keys {
		switch v := f[key].(type) {
		case []string:
			return append([]string(nil), v...)
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return nil
}

func (f Fields) int(keys ...string) int {
	for _, key := range keys {
		switch v := f[key].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case json.Number:
			n, _ := v.Int64()
			return int(n)
		}
	}
	return 0
}
