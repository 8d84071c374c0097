// Package scrape implements the fetch command: crawl one or more
// search URLs, extract listings, and persist the batch.
package scrape

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"finnbil/internal/common"
	"finnbil/models"
	"finnbil/pkg/caching"
	"finnbil/pkg/db"
	"finnbil/pkg/detector"
	"finnbil/pkg/extractor"
	"finnbil/pkg/fetcher"
	"finnbil/pkg/manifest"
	"finnbil/pkg/stats"
	"finnbil/pkg/storage"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func FetchAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if c.IsSet("pages") {
		cfg.Scraping.MaxPages = c.Int("pages")
	}
	if c.IsSet("out") {
		cfg.DataDir = c.String("out")
	}

	urls := []string{cfg.SearchURL}
	if c.IsSet("urls") {
		urls = strings.Split(c.String("urls"), ",")
	}

	sanitized, invalid := common.SanitizeAndValidateURLs(urls)
	if len(invalid) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d URL(s) are not Finn.no car searches:\n", len(invalid))
		for _, badURL := range invalid {
			fmt.Fprintf(os.Stderr, "  - %s\n", badURL)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Expected URLs like https://www.finn.no/mobility/search/car?...")
		os.Exit(1)
	}
	urls = sanitized

	cache, err := caching.NewPageCache(filepath.Join(cfg.DataDir, "cache"), cfg.CacheTTL())
	if err != nil {
		logger.Error("failed to initialize page cache", "error", err)
		os.Exit(2)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	f := fetcher.New(cfg.Scraping, cache)
	store := storage.New(cfg.DataDir)
	ex := &extractor.Extractor{CurrentYear: time.Now().Year()}

	var results []manifest.FetchResult
	var aborted bool
	for i, sourceURL := range urls {
		if i > 0 {
			f.Pause()
		}
		result := fetchSource(logger, cfg, database, f, store, ex, sourceURL)
		results = append(results, result)
		if result.Error != nil {
			// A transport failure usually means throttling; stop
			// hitting the site and keep what we have.
			logger.Error("fetch failed, skipping remaining sources",
				"url", sourceURL, "error", result.Error)
			aborted = true
			break
		}
	}

	batch := stats.BatchStats{}
	for _, r := range results {
		if r.Error == nil {
			s := stats.Compute(r.Listings)
			fmt.Printf("%s\n  %d listings (%d sold) from %d page(s)\n  Saved: %s\n",
				r.URL, s.Total, s.SoldCount, r.PagesFetched, r.FilePath)
			batch.Total += s.Total
			batch.SoldCount += s.SoldCount
		} else {
			fmt.Printf("%s\n  failed: %s\n", r.URL, r.Error)
		}
	}

	manifestPath, err := manifest.GenerateSummary(cfg.DataDir, manifestRunID(results), results)
	if err != nil {
		logger.Warn("failed to write run manifest", "error", err)
	} else {
		fmt.Printf("\nManifest: %s\n", manifestPath)
	}

	if batch.Total > 0 {
		fmt.Println("\nNext: finnbil analyze")
	}
	if aborted {
		fmt.Println("\nNote: run ended early after a fetch failure; results above are partial")
	}
	return nil
}

// fetchSource crawls the paginated variants of one search URL and
// persists its batch. The returned result carries the error, if any.
func fetchSource(logger *slog.Logger, cfg *models.Config, database *db.DB,
	f *fetcher.Fetcher, store *storage.Store, ex *extractor.Extractor,
	sourceURL string) manifest.FetchResult {

	result := manifest.FetchResult{URL: sourceURL}

	runID, err := database.CreateRun(sourceURL)
	if err != nil {
		result.Error = err
		result.ErrorType = "db_error"
		return result
	}
	result.RunID = runID

	var listings []models.Listing
	var fetchErr error
	pages := 0
	for i, pageURL := range fetcher.PageURLs(sourceURL, cfg.Scraping.MaxPages) {
		if i > 0 {
			f.Pause()
		}
		logger.Info("fetching page", "url", pageURL, "page", i+1)

		doc, err := f.FetchDocument(pageURL)
		if err != nil {
			fetchErr = err
			break
		}
		pages++

		check := detector.Check(doc)
		if !check.HasContainer {
			logger.Warn("page container not found, layout may have changed", "url", pageURL)
		}
		if check.Language != "" && !check.Norwegian {
			logger.Warn("page does not read as Norwegian, possibly a consent or redirect page",
				"url", pageURL, "language", check.Language)
		}

		batch := ex.Extract(doc)
		if len(batch) == 0 {
			logger.Info("no listings extracted from page", "url", pageURL, "page", i+1)
			continue
		}
		for j := range batch {
			batch[j].ID = len(listings) + j + 1
		}
		listings = append(listings, batch...)
	}
	result.PagesFetched = pages
	result.Listings = listings

	sold := 0
	for _, l := range listings {
		if l.Price.Sold {
			sold++
		}
	}

	if fetchErr != nil {
		result.Error = fetchErr
		result.ErrorType = "fetch_error"
		if err := database.FinishRun(runID, pages, len(listings), sold, "failed", fetchErr.Error()); err != nil {
			logger.Warn("failed to record run failure", "run_id", runID, "error", err)
		}
		return result
	}

	path, err := store.SaveListings(sourceURL, listings)
	if err != nil {
		result.Error = err
		result.ErrorType = "save_error"
		if dbErr := database.FinishRun(runID, pages, len(listings), sold, "failed", err.Error()); dbErr != nil {
			logger.Warn("failed to record run failure", "run_id", runID, "error", dbErr)
		}
		return result
	}
	result.FilePath = path
	if st, err := store.GetFileStats(path); err == nil {
		result.SizeBytes = st.SizeBytes
	}

	if err := database.InsertListings(runID, listings); err != nil {
		logger.Warn("failed to store listings in database", "run_id", runID, "error", err)
	}
	if err := database.FinishRun(runID, pages, len(listings), sold, "success", ""); err != nil {
		logger.Warn("failed to close run", "run_id", runID, "error", err)
	}
	logger.Info("source done", "url", sourceURL, "run_id", runID,
		"listings", len(listings), "sold", sold, "pages", pages)
	return result
}

// manifestRunID returns the run id for the manifest header: set when
// the invocation covered exactly one source, empty otherwise.
func manifestRunID(results []manifest.FetchResult) string {
	if len(results) == 1 {
		return results[0].RunID
	}
	return ""
}
