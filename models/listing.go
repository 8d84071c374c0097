package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// SoldLabel is the wire representation of a listing that has been sold.
// Finn marks these with the literal text "Solgt" in place of a price.
const SoldLabel = "Solgt"

// Price is either a numeric asking price in NOK or the sold marker.
// The zero value means the price could not be read from the page.
type Price struct {
	Amount int
	Sold   bool
	known  bool
}

// NumericPrice returns a known numeric price.
func NumericPrice(amount int) Price {
	return Price{Amount: amount, known: true}
}

// SoldPrice returns the sold marker.
func SoldPrice() Price {
	return Price{Sold: true, known: true}
}

// Known reports whether the price field was present on the page at all.
func (p Price) Known() bool { return p.known }

// Numeric reports whether the price carries a usable amount.
func (p Price) Numeric() bool { return p.known && !p.Sold }

func (p Price) String() string {
	switch {
	case !p.known:
		return "N/A"
	case p.Sold:
		return SoldLabel
	default:
		return fmt.Sprintf("%d kr", p.Amount)
	}
}

// MarshalJSON emits an integer for numeric prices and the string "Solgt"
// for sold listings, matching the persisted data format.
func (p Price) MarshalJSON() ([]byte, error) {
	switch {
	case !p.known:
		return []byte("null"), nil
	case p.Sold:
		return json.Marshal(SoldLabel)
	default:
		return json.Marshal(p.Amount)
	}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = Price{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		if !strings.EqualFold(label, SoldLabel) {
			return fmt.Errorf("price: unexpected label %q", label)
		}
		*p = SoldPrice()
		return nil
	}
	var amount int
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*p = NumericPrice(amount)
	return nil
}

// Listing is one extracted search-result card. Name is the only field the
// extractor requires; everything else is best effort and may be absent.
type Listing struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Link           string `json:"link,omitempty"`
	FinnCode       string `json:"finn_code,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	Details        string `json:"details,omitempty"`
	Year           *int   `json:"year,omitempty"`
	Mileage        *int   `json:"mileage,omitempty"`
	Price          Price  `json:"price"`
	Age            *int   `json:"age,omitempty"`
	KmPerYear      *int   `json:"km_per_year,omitempty"`
}

// ComputeDerived fills Age and KmPerYear from Year and Mileage.
// A current-year car has age 0 and its full mileage counted as one year.
func (l *Listing) ComputeDerived(currentYear int) {
	l.Age = nil
	l.KmPerYear = nil
	if l.Year == nil {
		return
	}
	age := currentYear - *l.Year
	l.Age = &age
	if l.Mileage == nil {
		return
	}
	perYear := *l.Mileage
	if age > 0 {
		perYear = int(math.Round(float64(*l.Mileage) / float64(age)))
	}
	l.KmPerYear = &perYear
}
