// Package common holds URL cleanup and validation shared by the CLI
// commands.
package common

import (
	"net/url"
	"regexp"
	"strings"
)

// SanitizeURL performs basic cleanup on URLs to handle common
// copy-paste issues: whitespace, trailing punctuation, and markdown
// link syntax.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	markdownLinkPattern := regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	trailingChars := []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailingChars {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// IsFinnCarURL reports whether a URL points at a Finn mobility search
// or ad. Host and path are checked; everything else on the URL is the
// search itself and passes through.
func IsFinnCarURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	host := strings.ToLower(parsed.Host)
	if host != "finn.no" && host != "www.finn.no" {
		return false
	}
	return strings.HasPrefix(parsed.Path, "/mobility/")
}

// SanitizeAndValidateURLs cleans each input URL and splits the result
// into accepted Finn search URLs and rejects.
func SanitizeAndValidateURLs(urls []string) (valid []string, invalid []string) {
	for _, rawURL := range urls {
		cleaned := SanitizeURL(rawURL)
		if cleaned == "" || strings.Contains(cleaned, " ") {
			invalid = append(invalid, rawURL)
			continue
		}
		if !IsFinnCarURL(cleaned) {
			invalid = append(invalid, rawURL)
			continue
		}
		valid = append(valid, cleaned)
	}
	return valid, invalid
}
