package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finnbil/models"
	"finnbil/pkg/stats"
)

// FetchResult is the outcome of fetching and extracting one source URL.
// Passed in from the scrape command to avoid circular dependencies.
type FetchResult struct {
	URL          string
	RunID        string
	FilePath     string
	Listings     []models.Listing
	PagesFetched int
	Error        error
	ErrorType    string
	SizeBytes    int64
}

// GenerateSummary writes the run manifest for a set of fetch results
// and returns its path.
func GenerateSummary(dir, runID string, results []FetchResult) (string, error) {
	m := RunManifest{
		GeneratedAt: time.Now().Format(time.RFC3339),
		RunID:       runID,
		TotalURLs:   len(results),
	}

	var all []models.Listing
	for _, result := range results {
		summary := SourceSummary{
			URL:          result.URL,
			RunID:        result.RunID,
			PagesFetched: result.PagesFetched,
		}

		if result.Error != nil {
			m.Failed++
			summary.Status = "error"
			summary.ErrorType = result.ErrorType
			summary.ErrorMessage = result.Error.Error()
		} else {
			m.Successful++
			summary.Status = "success"
			summary.FilePath = result.FilePath
			summary.ListingCount = len(result.Listings)
			summary.SizeBytes = result.SizeBytes
			all = append(all, result.Listings...)
		}

		m.Results = append(m.Results, summary)
	}

	m.Stats = stats.Compute(all)
	m.TotalListings = m.Stats.Total
	m.SoldListings = m.Stats.SoldCount

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("summary-%s.json", time.Now().Format("2006-01-02")))

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save manifest: %w", err)
	}
	return path, nil
}
