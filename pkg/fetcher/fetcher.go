// Package fetcher downloads search-results pages. Fetching is strictly
// sequential with a randomized delay between requests: the politeness
// delay is a correctness requirement towards the site, not an
// optimization knob.
package fetcher

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"finnbil/models"
	"finnbil/pkg/caching"
)

// Fetcher wraps a colly collector configured for one scraping run.
type Fetcher struct {
	cfg   models.ScrapingConfig
	cache *caching.PageCache
}

// New builds a fetcher from the scraping config. cache may be nil.
func New(cfg models.ScrapingConfig, cache *caching.PageCache) *Fetcher {
	return &Fetcher{cfg: cfg, cache: cache}
}

func (f *Fetcher) newCollector() *colly.Collector {
	opts := []colly.CollectorOption{
		colly.UserAgent(f.cfg.UserAgent),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
	}
	if len(f.cfg.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(f.cfg.AllowedDomains...))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(time.Duration(f.cfg.TimeoutSec) * time.Second)
	return c
}

// FetchHTML returns the raw body of one page, consulting the page cache
// first. Network errors and non-2xx statuses are returned as errors.
func (f *Fetcher) FetchHTML(pageURL string) ([]byte, error) {
	if body, ok := f.cache.Get(pageURL); ok {
		return body, nil
	}

	var body []byte
	var fetchErr error

	c := f.newCollector()
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, fetchErr)
	}
	if body == nil {
		return nil, fmt.Errorf("no response body from %s", pageURL)
	}

	_ = f.cache.Set(pageURL, body)
	return body, nil
}

// FetchDocument fetches a page and parses it.
func (f *Fetcher) FetchDocument(pageURL string) (*goquery.Document, error) {
	body, err := f.FetchHTML(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}
	return doc, nil
}

// Delay returns a uniformly random politeness delay within the
// configured window.
func (f *Fetcher) Delay() time.Duration {
	min := f.cfg.DelayMinSec
	max := f.cfg.DelayMaxSec
	if max <= min {
		return time.Duration(min * float64(time.Second))
	}
	sec := min + rand.Float64()*(max-min)
	return time.Duration(sec * float64(time.Second))
}

// Pause sleeps for one politeness delay.
func (f *Fetcher) Pause() {
	time.Sleep(f.Delay())
}

// PageURLs expands a search URL into its paginated variants. Page 1 is
// the URL itself; later pages append a page parameter to the existing
// query string.
func PageURLs(searchURL string, maxPages int) []string {
	if maxPages < 1 {
		maxPages = 1
	}
	urls := make([]string, 0, maxPages)
	urls = append(urls, searchURL)
	sep := "&"
	if !strings.Contains(searchURL, "?") {
		sep = "?"
	}
	for page := 2; page <= maxPages; page++ {
		urls = append(urls, fmt.Sprintf("%s%spage=%d", searchURL, sep, page))
	}
	return urls
}
