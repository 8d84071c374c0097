// Package stats computes aggregate statistics over a raw listing batch,
// independent of any valuation.
package stats

import (
	"math"

	"finnbil/models"
)

// BatchStats summarizes one extracted batch.
type BatchStats struct {
	Total      int     `json:"total"`
	WithPrice  int     `json:"with_price"`
	SoldCount  int     `json:"sold_count"`
	AvgPrice   float64 `json:"avg_price"`
	MinPrice   int     `json:"min_price"`
	MaxPrice   int     `json:"max_price"`
	AvgMileage float64 `json:"avg_mileage"`
	MinMileage int     `json:"min_mileage"`
	MaxMileage int     `json:"max_mileage"`
	MinYear    int     `json:"min_year"`
	MaxYear    int     `json:"max_year"`
}

// Compute aggregates a batch. Sold and price-less listings are excluded
// from the price aggregates; listings without mileage or year are
// excluded from those aggregates.
func Compute(listings []models.Listing) BatchStats {
	s := BatchStats{Total: len(listings)}

	var priceSum, mileageSum, mileageCount int
	for _, l := range listings {
		if l.Price.Sold {
			s.SoldCount++
		}
		if l.Price.Numeric() {
			if s.WithPrice == 0 || l.Price.Amount < s.MinPrice {
				s.MinPrice = l.Price.Amount
			}
			if l.Price.Amount > s.MaxPrice {
				s.MaxPrice = l.Price.Amount
			}
			priceSum += l.Price.Amount
			s.WithPrice++
		}
		if l.Mileage != nil {
			if mileageCount == 0 || *l.Mileage < s.MinMileage {
				s.MinMileage = *l.Mileage
			}
			if *l.Mileage > s.MaxMileage {
				s.MaxMileage = *l.Mileage
			}
			mileageSum += *l.Mileage
			mileageCount++
		}
		if l.Year != nil {
			if s.MinYear == 0 || *l.Year < s.MinYear {
				s.MinYear = *l.Year
			}
			if *l.Year > s.MaxYear {
				s.MaxYear = *l.Year
			}
		}
	}

	if s.WithPrice > 0 {
		s.AvgPrice = round1(float64(priceSum) / float64(s.WithPrice))
	}
	if mileageCount > 0 {
		s.AvgMileage = round1(float64(mileageSum) / float64(mileageCount))
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
