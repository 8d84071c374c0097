// Package caching stores raw page HTML on disk so repeated analysis
// runs against the same search do not hammer the site.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PageCache is a file-backed cache keyed by URL with a TTL. A zero or
// negative TTL disables it: Get always misses and Set is a no-op.
type PageCache struct {
	dir string
	ttl time.Duration
}

// NewPageCache creates the cache directory if needed.
func NewPageCache(dir string, ttl time.Duration) (*PageCache, error) {
	if ttl > 0 {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return &PageCache{dir: dir, ttl: ttl}, nil
}

func (c *PageCache) key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x.html", hash)
}

// Get returns the cached page body for url if present and fresh.
func (c *PageCache) Get(url string) ([]byte, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	path := filepath.Join(c.dir, c.key(url))

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a page body for url.
func (c *PageCache) Set(url string, data []byte) error {
	if c == nil || c.ttl <= 0 {
		return nil
	}
	path := filepath.Join(c.dir, c.key(url))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
