// Package detail fetches a single ad page and pulls out the buyer-facing
// facts: title, description, the specification table, and the equipment
// list. Used to enrich a report beyond what the results page shows.
package detail

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"finnbil/pkg/fetcher"
)

// AdDetails is what one ad page yields. Any field may be empty when the
// page does not carry it.
type AdDetails struct {
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
	Equipment      []string          `json:"equipment"`
}

// Fetch downloads an ad page and parses it.
func Fetch(f *fetcher.Fetcher, adURL string) (*AdDetails, error) {
	body, err := f.FetchHTML(adURL)
	if err != nil {
		return nil, err
	}
	return Parse(adURL, string(body))
}

// Parse extracts the ad facts from raw HTML. The description comes from
// the readability distillation; specifications and equipment are read
// from the raw document since readability tends to drop dl tables.
func Parse(adURL, html string) (*AdDetails, error) {
	parsedURL, err := url.Parse(adURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ad URL %s: %w", adURL, err)
	}

	d := &AdDetails{
		URL:            adURL,
		Specifications: map[string]string{},
	}

	parser := readability.NewParser()
	if article, err := parser.Parse(strings.NewReader(html), parsedURL); err == nil {
		d.Title = strings.TrimSpace(article.Title)
		d.Description = strings.TrimSpace(article.Excerpt)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ad page: %w", err)
	}

	if d.Title == "" {
		d.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		values := dl.Find("dd")
		if terms.Length() != values.Length() {
			return
		}
		terms.Each(func(i int, dt *goquery.Selection) {
			key := strings.TrimSpace(dt.Text())
			val := strings.TrimSpace(values.Eq(i).Text())
			if key != "" && val != "" {
				d.Specifications[key] = val
			}
		})
	})

	// Equipment lives in a section headed "Utstyr".
	doc.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), "utstyr") {
			return true
		}
		h.Parent().Find("li").Each(func(_ int, li *goquery.Selection) {
			if item := strings.TrimSpace(li.Text()); item != "" {
				d.Equipment = append(d.Equipment, item)
			}
		})
		return false
	})

	return d, nil
}

// FormatMarkdown renders details as a compact markdown block for
// inclusion in a report.
func (d *AdDetails) FormatMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n", d.Title)
	if d.Description != "" {
		fmt.Fprintf(&b, "%s\n", d.Description)
	}
	if len(d.Specifications) > 0 {
		b.WriteString("\nSpesifikasjoner:\n")
		for _, key := range sortedKeys(d.Specifications) {
			fmt.Fprintf(&b, "- %s: %s\n", key, d.Specifications[key])
		}
	}
	if len(d.Equipment) > 0 {
		fmt.Fprintf(&b, "\nUtstyr: %s\n", strings.Join(d.Equipment, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n", d.URL)
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
