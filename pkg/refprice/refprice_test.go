package refprice

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleTable = `01.11.2019,Importmodeller
Modellnavn,Type,Dører,Seter,Motor,Effekt,Driftstype,Gir,Lengde,Vekt,Forbruk,CO2,NOx,Pris
"RAV4 2,5 HSD Active","SUV",5,5,"2,5",218/160,FWD,Aut,4600,1655,"0,47",125,"0,009","460 000"
"RAV4 2,5 HSD AWD-i Executive","SUV",5,5,"2,5",222/163,AWD,Aut,4600,1720,"0,5",131,"0,0093","560 300"
"Yaris 1,5 Hybrid Active","Hatchback",5,5,"1,5",116/85,FWD,Aut,3950,1180,"0,33",75,"0,005","280 000"
"RAV4 ugyldig pris","SUV",5,5,"2,5",218/160,FWD,Aut,4600,1655,"0,47",125,"0,009","ukjent"

01.11.2021,Importmodeller
Modellnavn,Type,Dører,Seter,Motor,Effekt,Driftstype,Gir,Lengde,Vekt,Forbruk,CO2,NOx,Pris
"RAV4 2,5 Plug-in Hybrid AWD-i Style","SUV",5,5,"2,5",306/225,AWD,Aut,4600,1950,"0,1",22,"0,004","2 500"
`

func TestParse(t *testing.T) {
	rows := Parse(sampleTable, "RAV4")

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	first := rows[0]
	if first.Year != 2019 || first.ModelName != "RAV4 2,5 HSD Active" || first.Price != 460000 {
		t.Errorf("unexpected first row: %+v", first)
	}

	// Prefix filter drops the Yaris, quoted thousands separators are
	// stripped, and the non-numeric price row is skipped silently.
	last := rows[2]
	if last.Year != 2021 || last.Price != 2500 {
		t.Errorf("unexpected last row: %+v", last)
	}
}

func TestParseOverlongPriceClamps(t *testing.T) {
	content := `01.11.2019,Importmodeller
"RAV4 Active","SUV",5,5,"2,5",218/160,FWD,Aut,4600,1655,"0,47",125,"0,009","9999999999999999999999999"
`
	rows := Parse(content, "RAV4")
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Price != math.MaxInt {
		t.Errorf("price = %d, want clamp to MaxInt instead of wrapping", rows[0].Price)
	}
}

func TestParseNoSections(t *testing.T) {
	content := `"RAV4 2,5 HSD Active","SUV",5,5,"2,5",218/160,FWD,Aut,4600,1655,"0,47",125,"0,009","460 000"`
	if rows := Parse(content, "RAV4"); len(rows) != 0 {
		t.Errorf("rows before any section header should be skipped, got %d", len(rows))
	}
}

func TestParseEmpty(t *testing.T) {
	if rows := Parse("", "RAV4"); len(rows) != 0 {
		t.Errorf("got %d rows from empty input", len(rows))
	}
}

func writeTableFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refs.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return path
}

func TestCacheLoadOnce(t *testing.T) {
	path := writeTableFile(t, sampleTable)
	cache := NewCache(path, "RAV4")

	rows, err := cache.Get()
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	// Rewrite the file; the cache must keep serving the loaded table.
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	rows, err = cache.Get()
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("cache reloaded unexpectedly, got %d rows", len(rows))
	}

	cache.Reset()
	rows, err = cache.Get()
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("reset should force reload, got %d rows", len(rows))
	}
}

func TestCacheMissingFile(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "missing.csv"), "RAV4")
	if _, err := cache.Get(); err == nil {
		t.Fatal("expected error for missing table file")
	}
}
