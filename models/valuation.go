package models

// Grade is a letter grade on the A (best) to F (worst) scale.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Rank orders grades for sorting, A highest.
func (g Grade) Rank() int {
	switch g {
	case GradeA:
		return 5
	case GradeB:
		return 4
	case GradeC:
		return 3
	case GradeD:
		return 2
	case GradeF:
		return 1
	}
	return 0
}

// Valuation is the scored assessment of one listing against the
// reference table and the depreciation model.
type Valuation struct {
	ListingID      int     `json:"listing_id"`
	Name           string  `json:"name"`
	Link           string  `json:"link,omitempty"`
	Year           int     `json:"year"`
	Age            int     `json:"age"`
	Price          int     `json:"price"`
	KmPerYear      int     `json:"km_per_year"`
	MatchedModel   string  `json:"matched_model"`
	MatchedYear    int     `json:"matched_year"`
	MatchScore     float64 `json:"match_score"`
	OriginalPrice  int     `json:"original_price"`
	ExpectedValue  int     `json:"expected_value"`
	ActualPct      float64 `json:"actual_depreciation_percent"`
	ExpectedPct    float64 `json:"expected_depreciation_percent"`
	DiffPct        float64 `json:"depreciation_difference"`
	PriceGrade     Grade   `json:"price_grade"`
	MileageGrade   Grade   `json:"mileage_grade"`
	OverallGrade   Grade   `json:"overall_grade"`
	Recommendation string  `json:"recommendation"`
}

// Summary aggregates a batch of valuations.
type Summary struct {
	Total        int           `json:"total"`
	GoodDeals    int           `json:"good_deals"`
	Distribution map[Grade]int `json:"grade_distribution"`
	BestDeal     *Valuation    `json:"best_deal,omitempty"`
	WorstDeal    *Valuation    `json:"worst_deal,omitempty"`
}
