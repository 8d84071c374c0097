package valuation

import (
	"testing"

	"finnbil/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Toyota RAV4 2,5 Plug-in Hybrid AWD-i Executive aut", "toyota rav4 2,5 phev awd executive"},
		{"RAV4 Hybrid 4WD Active automat", "rav4 hybrid awd active"},
		{"RAV4  Style   2WD  manual", "rav4 style 2wd"},
		{"RAV4 AWD-i", "rav4 awd"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchScore(t *testing.T) {
	// Identical token sets with two important tokens score full overlap
	// plus bonus, capped at 1.0.
	if got := MatchScore("rav4 hybrid awd", "rav4 hybrid awd"); got != 1.0 {
		t.Errorf("identical names: got %.2f, want 1.0", got)
	}

	// Disjoint sets score zero.
	if got := MatchScore("rav4 hybrid", "yaris cross"); got != 0 {
		t.Errorf("disjoint names: got %.2f, want 0", got)
	}

	if got := MatchScore("", ""); got != 0 {
		t.Errorf("empty names: got %.2f, want 0", got)
	}

	// Important-token bonus: overlap {rav4, hybrid} of 3 unique tokens
	// is 2/3, plus 0.1 for the shared hybrid token.
	got := MatchScore("rav4 hybrid", "rav4 hybrid executive")
	want := 2.0/3.0 + 0.1
	if diff := got - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("bonus score: got %.4f, want %.4f", got, want)
	}
}

func refTable() []models.ReferencePrice {
	return []models.ReferencePrice{
		{ModelName: "RAV4 2,5 HSD Active", Year: 2019, Price: 460000},
		{ModelName: "RAV4 2,5 HSD AWD-i Executive", Year: 2019, Price: 560300},
		{ModelName: "RAV4 2,5 Plug-in Hybrid AWD-i Style", Year: 2021, Price: 639900},
	}
}

func TestBestMatchExactYear(t *testing.T) {
	m, ok := BestMatch("Toyota RAV4 2,5 HSD AWD-i Executive aut", 2019, refTable())
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Ref.ModelName != "RAV4 2,5 HSD AWD-i Executive" {
		t.Errorf("matched %q", m.Ref.ModelName)
	}
	if m.Score <= matchThreshold {
		t.Errorf("score %.2f not above threshold", m.Score)
	}
}

func TestBestMatchClosestYearFallback(t *testing.T) {
	// 2022 has no rows; the 2021 PHEV must win over the 2019 trims.
	m, ok := BestMatch("RAV4 Plug-in Hybrid AWD Style", 2022, refTable())
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Ref.Year != 2021 {
		t.Errorf("matched year %d, want 2021", m.Ref.Year)
	}
}

func TestBestMatchBelowThreshold(t *testing.T) {
	if _, ok := BestMatch("Volkswagen Tiguan TDI", 2019, refTable()); ok {
		t.Fatal("unrelated name should not match")
	}
}

func TestBestMatchThresholdBoundary(t *testing.T) {
	// 3 shared tokens out of a 10-token union is exactly 0.3, which the
	// strict threshold rejects. Sharing an important token instead keeps
	// the same overlap but adds the 0.1 bonus and must be accepted.
	name := "toyota rav4 kompakt suv familiebil vinterhjul hengerfeste"
	rejected := []models.ReferencePrice{
		{ModelName: "toyota rav4 kompakt sedan stasjonsvogn cabriolet", Year: 2019, Price: 400000},
	}
	if _, ok := BestMatch(name, 2019, rejected); ok {
		t.Fatal("score of exactly 0.3 should be rejected")
	}

	bonusName := "toyota rav4 hybrid suv familiebil vinterhjul hengerfeste"
	accepted := []models.ReferencePrice{
		{ModelName: "toyota rav4 hybrid sedan stasjonsvogn cabriolet", Year: 2019, Price: 400000},
	}
	m, ok := BestMatch(bonusName, 2019, accepted)
	if !ok {
		t.Fatal("score just above the threshold should be accepted")
	}
	if diff := m.Score - 0.4; diff > 0.001 || diff < -0.001 {
		t.Errorf("score %.4f, want 0.4", m.Score)
	}
}

func TestBestMatchEmptyTable(t *testing.T) {
	if _, ok := BestMatch("RAV4 Hybrid", 2019, nil); ok {
		t.Fatal("empty table should not match")
	}
}

func TestBestMatchTieKeepsFirst(t *testing.T) {
	table := []models.ReferencePrice{
		{ModelName: "RAV4 Active", Year: 2020, Price: 450000},
		{ModelName: "RAV4 Active", Year: 2020, Price: 470000},
	}
	m, ok := BestMatch("RAV4 Active", 2020, table)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Ref.Price != 450000 {
		t.Errorf("tie should keep first candidate, got price %d", m.Ref.Price)
	}
}
