// Package manifest writes a lightweight per-run summary next to the
// saved listing batches, so a run's outcome can be inspected without
// opening the full data files.
package manifest

import (
	"finnbil/pkg/stats"
)

// RunManifest is the structure of the summary JSON file for one fetch
// run across one or more source URLs.
type RunManifest struct {
	GeneratedAt   string           `json:"generated_at"`
	RunID         string           `json:"run_id,omitempty"`
	TotalURLs     int              `json:"total_urls"`
	Successful    int              `json:"successful"`
	Failed        int              `json:"failed"`
	TotalListings int              `json:"total_listings"`
	SoldListings  int              `json:"sold_listings"`
	Results       []SourceSummary  `json:"results"`
	Stats         stats.BatchStats `json:"stats"`
}

// SourceSummary is the outcome for a single source URL.
type SourceSummary struct {
	URL          string `json:"url"`
	RunID        string `json:"run_id,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
	Status       string `json:"status"` // "success" or "error"
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	PagesFetched int    `json:"pages_fetched"`
	ListingCount int    `json:"listing_count"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
}
