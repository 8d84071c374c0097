// Package detector sanity-checks a fetched page before extraction.
// Consent interstitials, error pages, and auto-translated variants all
// lack the expected structure or drift away from Norwegian text; the
// check surfaces that early so a silent zero-listing run is explainable
// from the log.
package detector

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/pemistahl/lingua-go"
)

// sampleLimit caps how much body text feeds the language detector.
const sampleLimit = 2000

// PageCheck is the result of inspecting one fetched page.
type PageCheck struct {
	// HasContainer reports whether the expected page container exists.
	HasContainer bool
	// Language is the detected ISO 639-1 code of the body text, empty
	// when detection failed.
	Language string
	// Confidence is the detector's confidence for Norwegian text.
	Confidence float64
	// Norwegian reports whether the page reads as Norwegian.
	Norwegian bool
}

var (
	detectorOnce sync.Once
	langDetector lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		langDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Bokmal, lingua.Nynorsk, lingua.English, lingua.German).
			Build()
	})
	return langDetector
}

// Check inspects the document structure and samples its visible text.
func Check(doc *goquery.Document) PageCheck {
	check := PageCheck{}

	doc.Find("main").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if strings.Contains(class, "page-container") {
			check.HasContainer = true
			return false
		}
		return true
	})

	sample := sampleText(doc)
	if sample == "" {
		return check
	}

	det := languageDetector()
	if lang, ok := det.DetectLanguageOf(sample); ok {
		check.Language = lang.IsoCode639_1().String()
		check.Norwegian = lang == lingua.Bokmal || lang == lingua.Nynorsk
	}
	bokmal := det.ComputeLanguageConfidence(sample, lingua.Bokmal)
	nynorsk := det.ComputeLanguageConfidence(sample, lingua.Nynorsk)
	if nynorsk > bokmal {
		check.Confidence = nynorsk
	} else {
		check.Confidence = bokmal
	}

	return check
}

func sampleText(doc *goquery.Document) string {
	text := strings.TrimSpace(doc.Find("body").Text())
	fields := strings.Fields(text)
	text = strings.Join(fields, " ")
	if len(text) > sampleLimit {
		text = text[:sampleLimit]
	}
	return text
}
