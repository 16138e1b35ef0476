package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is how long an encoded attachment stays cached
const DefaultTTL = 24 * time.Hour

// Service caches encoded attachment data URLs by file identity
type Service struct {
	lru    *expirable.LRU[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new cache service
func New(maxSize int) *Service {
	return NewWithTTL(maxSize, DefaultTTL)
}

// NewWithTTL creates a cache whose entries expire after ttl
func NewWithTTL(maxSize int, ttl time.Duration) *Service {
	if maxSize <= 0 {
		maxSize = 100 // Default cache size
	}
	return &Service{
		lru: expirable.NewLRU[string, string](maxSize, nil, ttl),
	}
}

// Key identifies a file version; a changed size or mtime yields a new key
func Key(path string, size int64, modTime time.Time) string {
	return fmt.Sprintf("%s|%d|%d", path, size, modTime.UnixNano())
}

// Get retrieves a cached data URL
func (s *Service) Get(key string) (string, bool) {
	v, ok := s.lru.Get(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// Set caches a data URL
func (s *Service) Set(key, dataURL string) {
	s.lru.Add(key, dataURL)
}

// Clear removes all entries from the cache
func (s *Service) Clear() {
	s.lru.Purge()
}

// Size returns the current cache size
func (s *Service) Size() int {
	return s.lru.Len()
}

// Stats returns cache statistics
func (s *Service) Stats() CacheStats {
	return CacheStats{
		Size:   s.lru.Len(),
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}

// CacheStats holds cache statistics
type CacheStats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}
