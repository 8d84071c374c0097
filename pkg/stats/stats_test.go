package stats

import (
	"testing"

	"finnbil/models"
)

func intPtr(v int) *int { return &v }

func TestCompute(t *testing.T) {
	listings := []models.Listing{
		{Name: "a", Year: intPtr(2019), Mileage: intPtr(50000), Price: models.NumericPrice(300000)},
		{Name: "b", Year: intPtr(2021), Mileage: intPtr(30000), Price: models.NumericPrice(400000)},
		{Name: "c", Year: intPtr(2020), Price: models.SoldPrice()},
		{Name: "d"},
	}

	s := Compute(listings)

	if s.Total != 4 || s.WithPrice != 2 || s.SoldCount != 1 {
		t.Errorf("counts: %+v", s)
	}
	if s.AvgPrice != 350000 || s.MinPrice != 300000 || s.MaxPrice != 400000 {
		t.Errorf("prices: %+v", s)
	}
	if s.AvgMileage != 40000 || s.MinMileage != 30000 || s.MaxMileage != 50000 {
		t.Errorf("mileage: %+v", s)
	}
	if s.MinYear != 2019 || s.MaxYear != 2021 {
		t.Errorf("years: %+v", s)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	if s.Total != 0 || s.AvgPrice != 0 || s.MinPrice != 0 {
		t.Errorf("empty batch: %+v", s)
	}
}
