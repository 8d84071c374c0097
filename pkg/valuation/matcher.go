package valuation

import (
	"regexp"
	"sort"
	"strings"

	"finnbil/models"
)

// matchThreshold is the minimum similarity score for accepting a
// reference row. Strictly greater-than: a score of exactly 0.3 is
// rejected.
const matchThreshold = 0.3

// maxCandidates bounds the closest-year fallback pool.
const maxCandidates = 20

var importantTokens = map[string]bool{
	"hybrid":    true,
	"phev":      true,
	"awd":       true,
	"executive": true,
	"active":    true,
	"style":     true,
	"life":      true,
}

var (
	plugInHybrid = regexp.MustCompile(`\bplug[-\s]?in\s+hybrid\b`)
	awdVariant   = regexp.MustCompile(`\bawd(-?i)?\b`)
	fourWD       = regexp.MustCompile(`\b4wd\b`)
	transmission = regexp.MustCompile(`\baut(omat)?\b|\bmanual\b`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a listing or reference model name so that
// drivetrain and trim synonyms compare equal.
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	s = plugInHybrid.ReplaceAllString(s, "phev")
	s = awdVariant.ReplaceAllString(s, "awd")
	s = fourWD.ReplaceAllString(s, "awd")
	s = transmission.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// MatchScore computes token-set similarity between two already
// normalized names, with a bonus for shared drivetrain and trim tokens.
// Capped at 1.0.
func MatchScore(searchName, modelName string) float64 {
	searchTokens := tokenSet(searchName)
	modelTokens := tokenSet(modelName)

	union := 0
	common := 0
	for tok := range searchTokens {
		union++
		if modelTokens[tok] {
			common++
		}
	}
	for tok := range modelTokens {
		if !searchTokens[tok] {
			union++
		}
	}
	if union == 0 {
		return 0
	}

	score := float64(common) / float64(union)
	for tok := range searchTokens {
		if modelTokens[tok] && importantTokens[tok] {
			score += 0.1
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// Match is an accepted reference row with its similarity score.
type Match struct {
	Ref   models.ReferencePrice
	Score float64
}

// BestMatch finds the reference row most similar to the listing name.
// Rows from the exact model year are preferred; with no exact-year rows
// the pool falls back to the closest years, capped at maxCandidates.
// Returns false when no candidate scores above the threshold. Ties keep
// the first candidate encountered.
func BestMatch(name string, year int, table []models.ReferencePrice) (Match, bool) {
	if len(table) == 0 {
		return Match{}, false
	}

	candidates := make([]models.ReferencePrice, 0, len(table))
	for _, ref := range table {
		if ref.Year == year {
			candidates = append(candidates, ref)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, table...)
		sort.SliceStable(candidates, func(i, j int) bool {
			return abs(candidates[i].Year-year) < abs(candidates[j].Year-year)
		})
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
	}

	normalized := NormalizeName(name)
	best := Match{}
	found := false
	for _, ref := range candidates {
		score := MatchScore(normalized, NormalizeName(ref.ModelName))
		if score > best.Score && score > matchThreshold {
			best = Match{Ref: ref, Score: score}
			found = true
		}
	}
	return best, found
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
