package detail

import (
	"strings"
	"testing"
)

const adPage = `<html><head><title>Toyota RAV4 2.5 Hybrid AWD Executive</title></head>
<body>
<main>
<h1>Toyota RAV4 2.5 Hybrid AWD Executive</h1>
<section>
<h2>Spesifikasjoner</h2>
<dl>
<dt>Årsmodell</dt><dd>2020</dd>
<dt>Kilometerstand</dt><dd>55 000 km</dd>
<dt>Drivstoff</dt><dd>Hybrid</dd>
<dt>Registreringsnummer</dt><dd>AB12345</dd>
</dl>
</section>
<section>
<h2>Utstyr</h2>
<ul>
<li>Skinnseter</li>
<li>Navigasjon</li>
<li>Ryggekamera</li>
</ul>
</section>
<section>
<h2>Beskrivelse</h2>
<p>Pent brukt RAV4 Executive med fullt servicehefte. Bilen har vært
eid av en eier og alltid vært garasjert. Selges grunnet overgang til
elbil. Tilstandsrapport foreligger.</p>
</section>
</main>
</body></html>`

func TestParse(t *testing.T) {
	d, err := Parse("https://www.finn.no/mobility/item/123456789", adPage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !strings.Contains(d.Title, "RAV4") {
		t.Errorf("title = %q", d.Title)
	}
	if d.Specifications["Årsmodell"] != "2020" {
		t.Errorf("specifications = %v", d.Specifications)
	}
	if d.Specifications["Kilometerstand"] != "55 000 km" {
		t.Errorf("specifications = %v", d.Specifications)
	}
	if len(d.Equipment) != 3 || d.Equipment[0] != "Skinnseter" {
		t.Errorf("equipment = %v", d.Equipment)
	}
}

func TestParseSparsePage(t *testing.T) {
	d, err := Parse("https://www.finn.no/mobility/item/1", "<html><body><h1>Solgt bil</h1></body></html>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Title != "Solgt bil" {
		t.Errorf("title = %q", d.Title)
	}
	if len(d.Specifications) != 0 || len(d.Equipment) != 0 {
		t.Errorf("expected empty details, got %+v", d)
	}
}

func TestParseBadURL(t *testing.T) {
	if _, err := Parse("://not-a-url", adPage); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestFormatMarkdown(t *testing.T) {
	d, err := Parse("https://www.finn.no/mobility/item/123456789", adPage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out := d.FormatMarkdown()
	for _, want := range []string{
		"### Toyota RAV4",
		"- Årsmodell: 2020",
		"Utstyr: Skinnseter, Navigasjon, Ryggekamera",
		"https://www.finn.no/mobility/item/123456789",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
