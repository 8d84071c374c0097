package models

import (
	"encoding/json"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestComputeDerived(t *testing.T) {
	tests := []struct {
		name        string
		year        *int
		mileage     *int
		currentYear int
		wantAge     *int
		wantPerYear *int
	}{
		{"five year old car", intPtr(2019), intPtr(85000), 2024, intPtr(5), intPtr(17000)},
		{"current year car keeps full mileage", intPtr(2024), intPtr(12000), 2024, intPtr(0), intPtr(12000)},
		{"rounding up", intPtr(2021), intPtr(50000), 2024, intPtr(3), intPtr(16667)},
		{"no year means no derived fields", nil, intPtr(50000), 2024, nil, nil},
		{"no mileage means no km per year", intPtr(2020), nil, 2024, intPtr(4), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Listing{Name: "Toyota RAV4", Year: tt.year, Mileage: tt.mileage}
			l.ComputeDerived(tt.currentYear)

			checkIntPtr(t, "age", l.Age, tt.wantAge)
			checkIntPtr(t, "km_per_year", l.KmPerYear, tt.wantPerYear)
		})
	}
}

func checkIntPtr(t *testing.T, field string, got, want *int) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s: got %v, want %v", field, got, want)
	}
	if got != nil && *got != *want {
		t.Errorf("%s: got %d, want %d", field, *got, *want)
	}
}

func TestPriceJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Price
		want string
	}{
		{"numeric", NumericPrice(389000), "389000"},
		{"sold", SoldPrice(), `"Solgt"`},
		{"unknown", Price{}, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}

			var back Price
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tt.in {
				t.Errorf("round trip: got %+v, want %+v", back, tt.in)
			}
		})
	}
}

func TestPriceUnmarshalRejectsUnknownLabel(t *testing.T) {
	var p Price
	if err := json.Unmarshal([]byte(`"Reservert"`), &p); err == nil {
		t.Fatal("expected error for unknown label")
	}
}

func TestPriceString(t *testing.T) {
	if got := NumericPrice(250000).String(); got != "250000 kr" {
		t.Errorf("numeric: got %q", got)
	}
	if got := SoldPrice().String(); got != "Solgt" {
		t.Errorf("sold: got %q", got)
	}
	if got := (Price{}).String(); got != "N/A" {
		t.Errorf("unknown: got %q", got)
	}
}
