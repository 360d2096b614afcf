package book

import "sync"

// Cache holds one Book per ISBN for the life of the process. It never evicts.
type Cache struct {
	mu     sync.RWMutex
	byISBN map[string]*Book
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{byISBN: make(map[string]*Book)}
}

// Construct builds a Book from f and, if it has an ISBN, stores it,
// replacing any earlier entry for that ISBN.
func (c *Cache) Construct(f Fields) *Book {
	b := New(f)
	if b.ISBN != "" {
		c.mu.Lock()
		c.byISBN[b.ISBN] = b
		c.mu.Unlock()
	}
	return b
}

// Resolve returns the cached Book for the ISBN in f, constructing one on a miss.
// Cached books may already carry enrichment, so they win over fresh search data.
func (c *Cache) Resolve(f Fields) *Book {
	if isbn := f.first("isbn"); isbn != "" {
		if b, ok := c.Lookup(isbn); ok {
			return b
		}
	}
	return c.Construct(f)
}

// Lookup returns the cached Book for isbn.
func (c *Cache) Lookup(isbn string) (*Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byISBN[isbn]
	return b, ok
}

// Len reports how many books are cached. The search path logs it at debug level.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byISBN)
}
