// Package extractor turns a fetched search-results document into
// structured listings. Finn's markup carries no stable classes on the
// result cards, so navigation is positional: a fixed structural path
// locates the listing container, and per-card fields are probed
// independently so one broken field never sinks the card or its
// siblings.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"finnbil/models"
)

const defaultBaseURL = "https://www.finn.no"

var (
	yearPattern     = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	mileagePattern  = regexp.MustCompile(`(?i)(\d[\d\s.,]*\s*km)\b`)
	nonDigits       = regexp.MustCompile(`[^\d]`)
	finnCodePattern = regexp.MustCompile(`/(\d+)/?$`)
)

// Extractor parses one search-results page into listings.
type Extractor struct {
	// BaseURL resolves relative ad links. Defaults to the Finn origin.
	BaseURL string
	// CurrentYear anchors the age computation.
	CurrentYear int
}

// Extract returns the listings found on the page, in document order,
// with 1-based sequence IDs. A page whose structure cannot be located
// yields an empty slice, not an error.
func (e *Extractor) Extract(doc *goquery.Document) []models.Listing {
	container := locateListingContainer(doc)
	if container == nil {
		return nil
	}

	var listings []models.Listing
	container.ChildrenFiltered("div").Each(func(_ int, wrapper *goquery.Selection) {
		article := locateArticle(wrapper)
		if article == nil {
			return
		}

		listing := e.extractCard(article)

		// A card without a name is navigation chrome or an ad slot,
		// not a listing.
		if listing.Name == "" {
			return
		}
		listing.ID = len(listings) + 1
		listing.ComputeDerived(e.CurrentYear)
		listings = append(listings, listing)
	})

	return listings
}

// locateListingContainer walks the fixed structural path from the page
// container to the div holding the result cards. Any miss returns nil.
func locateListingContainer(doc *goquery.Document) *goquery.Selection {
	main := doc.Find("main").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return strings.Contains(class, "page-container")
	}).First()
	if main.Length() == 0 {
		return nil
	}

	container := main.Find("div:nth-of-type(1) > div:nth-of-type(2) > section > div:nth-of-type(3)").First()
	if container.Length() == 0 {
		return nil
	}
	return container
}

// locateArticle prefers a direct article child of the card wrapper and
// falls back to any descendant article.
func locateArticle(wrapper *goquery.Selection) *goquery.Selection {
	article := wrapper.ChildrenFiltered("article").First()
	if article.Length() == 0 {
		article = wrapper.Find("article").First()
	}
	if article.Length() == 0 {
		return nil
	}
	return article
}

// locateInfoBlock returns the text block of a card: name, caption,
// details, and price live under the article's third div.
func locateInfoBlock(article *goquery.Selection) *goquery.Selection {
	info := article.Find("div:nth-of-type(3)").First()
	if info.Length() == 0 {
		return nil
	}
	return info
}

// extractCard probes each field of one result card. Probes are
// independent: a missing field stays unset and the rest still run.
func (e *Extractor) extractCard(article *goquery.Selection) models.Listing {
	var l models.Listing

	if img := article.Find("div:nth-of-type(2) > div > img").First(); img.Length() > 0 {
		if src, ok := img.Attr("src"); ok && src != "" {
			l.ImageURL = src
		} else if src, ok := img.Attr("data-src"); ok {
			l.ImageURL = src
		}
	}

	info := locateInfoBlock(article)
	if info == nil {
		return l
	}

	if h2 := info.Find("h2").First(); h2.Length() > 0 {
		l.Name = strings.TrimSpace(h2.Text())
		if href, ok := h2.Find("a").First().Attr("href"); ok {
			l.Link = e.resolveLink(href)
			if m := finnCodePattern.FindStringSubmatch(l.Link); m != nil {
				l.FinnCode = m[1]
			}
		}
	}

	if caption := info.Find("span.text-caption").First(); caption.Length() > 0 {
		l.AdditionalInfo = strings.TrimSpace(caption.Text())
	}

	if details := info.Find("span:nth-of-type(2)").First(); details.Length() > 0 {
		text := strings.TrimSpace(details.Text())
		l.Details = text
		l.Year = parseYear(text)
		l.Mileage = parseMileage(text)
	}

	if priceBlock := info.Find("div:nth-of-type(1)").First(); priceBlock.Length() > 0 {
		l.Price = parsePrice(priceBlock.Text())
	}

	return l
}

func (e *Extractor) resolveLink(href string) string {
	if !strings.HasPrefix(href, "/") {
		return href
	}
	base := e.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + href
}

func parseYear(text string) *int {
	m := yearPattern.FindString(text)
	if m == "" {
		return nil
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &year
}

func parseMileage(text string) *int {
	m := mileagePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	digits := nonDigits.ReplaceAllString(strings.TrimSuffix(strings.ToLower(m[1]), "km"), "")
	if digits == "" {
		return nil
	}
	km, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &km
}

func parsePrice(text string) models.Price {
	text = strings.TrimSpace(text)
	if strings.Contains(strings.ToLower(text), "solgt") {
		return models.SoldPrice()
	}
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return models.Price{}
	}
	amount, err := strconv.Atoi(digits)
	if err != nil {
		return models.Price{}
	}
	return models.NumericPrice(amount)
}
