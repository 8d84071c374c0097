// Package refprice loads the historical new-car price table used as the
// baseline for depreciation analysis. The source file groups rows into
// sections, one per model year, headed by a date line.
package refprice

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"finnbil/models"
)

var (
	sectionHeader = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)
	yearToken     = regexp.MustCompile(`(\d{4})`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
)

// priceField is the fixed column index of the list price in data rows.
const priceField = 13

// ParseFile reads a multi-section reference table. Rows whose model name
// does not start with modelPrefix, or whose price field is not purely
// numeric after quote/space stripping, are skipped silently.
func ParseFile(path, modelPrefix string) ([]models.ReferencePrice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference table: %w", err)
	}
	return Parse(string(data), modelPrefix), nil
}

// Parse extracts reference rows from the raw table text.
func Parse(content, modelPrefix string) []models.ReferencePrice {
	var out []models.ReferencePrice
	currentYear := 0

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if sectionHeader.MatchString(line) {
			if m := yearToken.FindString(line); m != "" {
				currentYear = atoi(m)
			}
			continue
		}

		// Header rows repeat inside every section.
		if strings.HasPrefix(line, "Modellnavn") || strings.Count(line, ",") < 6 {
			continue
		}
		if currentYear == 0 {
			continue
		}

		fields, err := csv.NewReader(strings.NewReader(line)).Read()
		if err != nil || len(fields) <= priceField {
			continue
		}

		name := strings.TrimSpace(fields[0])
		if !strings.HasPrefix(name, modelPrefix) {
			continue
		}

		priceStr := strings.ReplaceAll(strings.ReplaceAll(fields[priceField], `"`, ""), " ", "")
		if !digitsOnly.MatchString(priceStr) {
			continue
		}

		out = append(out, models.ReferencePrice{
			ModelName: name,
			Year:      currentYear,
			Price:     atoi(priceStr),
		})
	}

	return out
}

// atoi converts an already digits-only string. Out-of-range values
// clamp via strconv instead of wrapping around.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Cache holds the reference table loaded once per process. The table is
// immutable after load; Reset forces a reload on the next Get. Safe for
// concurrent readers.
type Cache struct {
	mu     sync.RWMutex
	path   string
	prefix string
	table  []models.ReferencePrice
	loaded bool
}

// NewCache returns an unloaded cache bound to a table file.
func NewCache(path, modelPrefix string) *Cache {
	return &Cache{path: path, prefix: modelPrefix}
}

// Get returns the reference table, loading it on first use.
func (c *Cache) Get() ([]models.ReferencePrice, error) {
	c.mu.RLock()
	if c.loaded {
		table := c.table
		c.mu.RUnlock()
		return table, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.table, nil
	}
	table, err := ParseFile(c.path, c.prefix)
	if err != nil {
		return nil, err
	}
	c.table = table
	c.loaded = true
	return c.table, nil
}

// Reset clears the cached table. The next Get reloads from disk.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
	c.loaded = false
}

// Len reports the number of loaded rows, zero when unloaded.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}
