package valuation

import (
	"sort"

	"finnbil/models"
	"finnbil/pkg/refprice"
)

// Engine scores listings against a reference price cache.
type Engine struct {
	refs        *refprice.Cache
	currentYear int
}

// NewEngine binds an engine to a reference cache. currentYear is
// injected so age computation is reproducible in tests.
func NewEngine(refs *refprice.Cache, currentYear int) *Engine {
	return &Engine{refs: refs, currentYear: currentYear}
}

// Evaluate scores a single listing. Listings without a name, a year, or
// a numeric price, listings aged zero or less, and listings with no
// reference match above the similarity threshold are not scorable and
// return false.
func (e *Engine) Evaluate(l models.Listing) (*models.Valuation, bool) {
	if l.Name == "" || l.Year == nil || !l.Price.Numeric() {
		return nil, false
	}

	table, err := e.refs.Get()
	if err != nil || len(table) == 0 {
		return nil, false
	}

	match, ok := BestMatch(l.Name, *l.Year, table)
	if !ok {
		return nil, false
	}

	// Current-year and future-year listings have no depreciation
	// baseline yet and cannot be scored.
	age := e.currentYear - *l.Year
	if age <= 0 {
		return nil, false
	}

	original := float64(match.Ref.Price)
	expectedValue := ExpectedValue(original, age)
	expectedPct := ExpectedDepreciationPercent(original, age)
	actualPct := (original - float64(l.Price.Amount)) / original * 100

	// Positive difference: the car lost more value than the model
	// predicts, so the asking price is favorable to the buyer.
	diff := actualPct - expectedPct

	kmPerYear := 0
	if l.KmPerYear != nil {
		kmPerYear = *l.KmPerYear
	}

	mileageGrade := MileageGrade(kmPerYear)
	priceGrade := PriceGrade(diff)

	return &models.Valuation{
		ListingID:      l.ID,
		Name:           l.Name,
		Link:           l.Link,
		Year:           *l.Year,
		Age:            age,
		Price:          l.Price.Amount,
		KmPerYear:      kmPerYear,
		MatchedModel:   match.Ref.ModelName,
		MatchedYear:    match.Ref.Year,
		MatchScore:     match.Score,
		OriginalPrice:  match.Ref.Price,
		ExpectedValue:  int(expectedValue),
		ActualPct:      actualPct,
		ExpectedPct:    expectedPct,
		DiffPct:        diff,
		PriceGrade:     priceGrade,
		MileageGrade:   mileageGrade,
		OverallGrade:   mileageGrade,
		Recommendation: Recommend(mileageGrade, priceGrade),
	}, true
}

// EvaluateBatch scores every listing in the batch, silently skipping the
// ones that are not scorable.
func (e *Engine) EvaluateBatch(listings []models.Listing) []models.Valuation {
	out := make([]models.Valuation, 0, len(listings))
	for _, l := range listings {
		if v, ok := e.Evaluate(l); ok {
			out = append(out, *v)
		}
	}
	return out
}

// PriceGrade grades the depreciation difference. Thresholds are strict:
// a difference of exactly +10 grades B, not A.
func PriceGrade(diff float64) models.Grade {
	switch {
	case diff > 10:
		return models.GradeA
	case diff > 5:
		return models.GradeB
	case diff > -5:
		return models.GradeC
	case diff > -10:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// MileageGrade grades annual usage in km.
func MileageGrade(kmPerYear int) models.Grade {
	switch {
	case kmPerYear < 12000:
		return models.GradeA
	case kmPerYear < 18000:
		return models.GradeB
	case kmPerYear < 22000:
		return models.GradeC
	case kmPerYear < 28000:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// Recommend selects the buyer guidance text for a grade pair. Mileage is
// the dominant signal, price context is secondary.
func Recommend(mileage, price models.Grade) string {
	goodPrice := price == models.GradeA || price == models.GradeB

	switch mileage {
	case models.GradeA:
		switch {
		case goodPrice:
			return "ANBEFALT - lav kjørelengde og god pris"
		case price == models.GradeC:
			return "ANBEFALT - utmerket kjørelengde kompenserer for normal pris"
		case price == models.GradeD:
			return "VURDER - utmerket kjørelengde men dyr pris"
		default:
			return "FORSIKTIG - utmerket kjørelengde men overpriset"
		}
	case models.GradeB:
		switch {
		case goodPrice:
			return "ANBEFALT - akseptabel kjørelengde og god pris"
		case price == models.GradeC:
			return "ANBEFALT - akseptabel kjørelengde til normal pris"
		case price == models.GradeD:
			return "VURDER - akseptabel kjørelengde men dyr pris"
		default:
			return "FORSIKTIG - akseptabel kjørelengde men overpriset"
		}
	case models.GradeC:
		if goodPrice {
			return "VURDER - gunstig pris veier delvis opp for kjørelengden"
		}
		return "VURDER - gjennomsnittlig bil"
	case models.GradeD:
		if goodPrice {
			return "VURDER - høy kjørelengde men gunstig pris"
		}
		return "UNNGÅ - høy kjørelengde"
	default:
		return "UNNGÅ - ekstrem kjørelengde"
	}
}

// Summarize sorts the batch in place by ascending annual usage, then by
// descending overall grade, then by descending depreciation difference,
// and aggregates grade counts and the best and worst deal.
func Summarize(vals []models.Valuation) models.Summary {
	sort.SliceStable(vals, func(i, j int) bool {
		if vals[i].KmPerYear != vals[j].KmPerYear {
			return vals[i].KmPerYear < vals[j].KmPerYear
		}
		if vals[i].OverallGrade.Rank() != vals[j].OverallGrade.Rank() {
			return vals[i].OverallGrade.Rank() > vals[j].OverallGrade.Rank()
		}
		return vals[i].DiffPct > vals[j].DiffPct
	})

	summary := models.Summary{
		Total:        len(vals),
		Distribution: make(map[models.Grade]int),
	}
	for _, v := range vals {
		summary.Distribution[v.OverallGrade]++
		if v.OverallGrade == models.GradeA || v.OverallGrade == models.GradeB {
			summary.GoodDeals++
		}
	}
	if len(vals) > 0 {
		summary.BestDeal = &vals[0]
		summary.WorstDeal = &vals[len(vals)-1]
	}
	return summary
}
