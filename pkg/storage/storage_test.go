package storage

import (
	"strings"
	"testing"

	"finnbil/models"
)

func TestSavePath(t *testing.T) {
	s := New("data")
	path := s.SavePath("https://www.finn.no/mobility/search/car?model=1.813.3074")

	if !strings.HasPrefix(path, "data/") {
		t.Errorf("path %q not under data dir", path)
	}
	if !strings.Contains(path, "www_finn_no-mobility-search-car") {
		t.Errorf("path %q missing host-path slug", path)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("path %q missing extension", path)
	}
}

func TestSaveAndReadListings(t *testing.T) {
	s := New(t.TempDir())

	year := 2019
	listings := []models.Listing{
		{ID: 1, Name: "Toyota RAV4 Executive", Year: &year, Price: models.NumericPrice(389000)},
		{ID: 2, Name: "Toyota RAV4 Active", Price: models.SoldPrice()},
	}

	path, err := s.SaveListings("https://www.finn.no/mobility/search/car", listings)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.HasFile(path) {
		t.Fatal("saved file missing")
	}

	got, err := s.ReadListings(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d listings", len(got))
	}
	if got[0].Name != "Toyota RAV4 Executive" || !got[0].Price.Numeric() || got[0].Price.Amount != 389000 {
		t.Errorf("first listing: %+v", got[0])
	}
	if !got[1].Price.Sold {
		t.Errorf("second listing price: %v", got[1].Price)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SizeBytes == 0 {
		t.Error("zero file size")
	}
}

func TestReadListingsMissingFile(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.ReadListings(s.Dir + "/nope.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
