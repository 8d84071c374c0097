// Package storage persists raw listing batches as JSON files so an
// analysis can be re-run without re-fetching.
package storage

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finnbil/models"
)

// Store writes listing batches under a data directory.
type Store struct {
	Dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func New(dir string) *Store {
	return &Store{Dir: dir}
}

// SavePath generates a filesystem-friendly path for a source URL,
// dated so successive runs against the same search do not overwrite
// each other across days.
func (s *Store) SavePath(rawURL string) string {
	today := time.Now().Format("2006-01-02")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		safe := strings.ReplaceAll(rawURL, "https://", "")
		safe = strings.ReplaceAll(safe, "http://", "")
		safe = strings.ReplaceAll(safe, "/", "_")
		return filepath.Join(s.Dir, fmt.Sprintf("%s-%s.json", safe, today))
	}

	host := strings.ReplaceAll(parsedURL.Host, ".", "_")
	path := strings.Trim(parsedURL.Path, "/")
	path = strings.ReplaceAll(path, "/", "-")
	path = strings.ReplaceAll(path, ".", "_")

	base := host
	if path != "" {
		base = fmt.Sprintf("%s-%s", host, path)
	}
	return filepath.Join(s.Dir, fmt.Sprintf("%s-%s.json", base, today))
}

// SaveListings writes a batch as indented JSON and returns the path.
func (s *Store) SaveListings(sourceURL string, listings []models.Listing) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal listings: %w", err)
	}

	path := s.SavePath(sourceURL)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save listings: %w", err)
	}
	return path, nil
}

// ReadListings loads a batch saved by SaveListings.
func (s *Store) ReadListings(path string) ([]models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listings file: %w", err)
	}
	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse listings file: %w", err)
	}
	return listings, nil
}

// HasFile reports whether a path exists.
func (s *Store) HasFile(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetFileStats returns size and modification time for a saved batch.
func (s *Store) GetFileStats(path string) (*FileStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return &FileStats{SizeBytes: info.Size(), ModTime: info.ModTime()}, nil
}
