package searchcache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of pages kept by an LRU store.
const DefaultSize = 1024

// LRU is an in-process Store bounded by entry count.
type LRU struct {
	cache *lru.Cache[string, Page]
}

func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, Page](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &LRU{cache: cache}, nil
}

func (l *LRU) Get(_ context.Context, key string) (Page, bool, error) {
	page, ok := l.cache.Get(key)
	return page, ok, nil
}

func (l *LRU) Set(_ context.Context, key string, page Page) error {
	l.cache.Add(key, page)
	return nil
}

func (l *LRU) Len() int {
	return l.cache.Len()
}
