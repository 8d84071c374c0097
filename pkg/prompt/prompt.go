// Package prompt assembles the Norwegian buyer-advisor prompt from a
// scored batch. Assembly is deterministic: the same valuations always
// yield the same string, so a report run can be reproduced.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"finnbil/models"
)

// SystemMessage frames the assistant as a Norwegian used-car advisor
// and pins down the depreciation interpretation the model must follow.
const SystemMessage = `Du er en senior bilanalytiker og kjøpsrådgiver med lang erfaring fra norsk bilbransje. Du har tilgang til verdifall-analyse basert på bransjestandarder og historiske nybilpriser.

VIKTIG - BRUKTBILMARKED ANALYSE:
- HØYERE verdifall enn forventet = BEDRE KJØP (bilen har tapt MER verdi = BILLIGERE for deg)
- LAVERE verdifall enn forventet = DÅRLIGERE KJØP (bilen har tapt MINDRE verdi = DYRERE for deg)
- Hvis forskjellen er NEGATIV = bilen er OVERPRISET; POSITIV = UNDERPRISET
- Eksempel: 50 % faktisk vs 40 % forventet = +10 % forskjell = BRA KJØP
- LAVERE kilometerstand = BEDRE KJØP (mindre slitasje)
- Forventet verdifall: 20 % år 1, 14 % år 2, 13 % år 3, deretter fallende

Skrivestil:
- Forklar tydelig at høyere verdifall = bedre pris for kjøper
- Gi KONKRETE grunner med "høyere/lavere verdifall enn forventet = billigere/dyrere"
- Inkluder alltid Finn.no-lenken for anbefalte biler

Svar KUN på norsk og følg promptstrukturen nøyaktig.`

// Build renders the analysis prompt for one scored batch. topN caps the
// per-car analysis block; the full batch still appears as JSON so the
// model can reason about the whole market.
func Build(summary models.Summary, valuations []models.Valuation, topN int) (string, error) {
	if topN <= 0 || topN > len(valuations) {
		topN = len(valuations)
	}

	data, err := json.MarshalIndent(valuations, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode valuations: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyser disse bruktbilene som en profesjonell kjøpsrådgiver.\n\n")
	b.WriteString("STRUKTURERTE BILDATA:\n")
	b.Write(data)
	b.WriteString("\n\nBILANALYSE (bransjestandarder):\n")

	for _, v := range valuations[:topN] {
		fmt.Fprintf(&b, "\n%s (%d) - Totalkarakter: %s (Pris: %s, Km: %s)\n",
			v.Name, v.Year, v.OverallGrade, v.PriceGrade, v.MileageGrade)
		fmt.Fprintf(&b, "- Markedspris: %d kr\n", v.Price)
		fmt.Fprintf(&b, "- Nybilpris: %d kr\n", v.OriginalPrice)
		fmt.Fprintf(&b, "- Faktisk verdifall: %.1f %%\n", v.ActualPct)
		fmt.Fprintf(&b, "- Forventet verdifall: %.1f %%\n", v.ExpectedPct)
		fmt.Fprintf(&b, "- Verdifallssammenligning: %+.1f %% (%s)\n", v.DiffPct, diffAssessment(v.DiffPct))
		fmt.Fprintf(&b, "- Kjørelengde: %d km/år\n", v.KmPerYear)
		fmt.Fprintf(&b, "- Anbefaling: %s\n", v.Recommendation)
	}

	b.WriteString("\nANALYSESAMMENDRAG:\n")
	fmt.Fprintf(&b, "- Analysert: %d biler\n", summary.Total)
	fmt.Fprintf(&b, "- Karakterfordeling: A:%d B:%d C:%d D:%d F:%d\n",
		summary.Distribution[models.GradeA], summary.Distribution[models.GradeB],
		summary.Distribution[models.GradeC], summary.Distribution[models.GradeD],
		summary.Distribution[models.GradeF])
	fmt.Fprintf(&b, "- Anbefalte biler (A-B): %d/%d\n", summary.GoodDeals, summary.Total)

	fmt.Fprintf(&b, `
## TOPP %d KJØPSANBEFALINGER

Ranger de %d BESTE bilene basert på verdifallsanalysen. HUSK: Høyere faktisk verdifall enn forventet = billigere bil = bedre kjøp!

PRIORITERING (viktigst først):
1. Kjørelengde - lav km/år er viktigst for langsiktig verdi
2. Pris/verdifall - sammenlign med forventet markedsverdi
3. Utstyrsnivå - Executive > Style > Active > Life, slik det faktisk nevnes i annonsen

For hver bil:
**[RANG #X] - [Bilnavn og år] - Karakter: [A-F] - Pris: [] - Kilometerstand: [] - ID: []**
- Pris vs. forventet verdifall
- Kjøpsanalyse (faktisk > forventet = billigere = bra; faktisk < forventet = dyrere = dårlig)
- Risikofaktorer
- URL: [Finn.no-lenke]
- Kjøpsanbefaling

## MARKEDSANALYSE

- Prissegmenter: budget (under 300k), mellomklasse (300-450k), premium (over 450k)
- Avvik fra forventet verdifall: overprisede og underprisede biler med begrunnelse
- Solgte biler: pris, km-stand, mulige årsaker

## BILER Å UNNGÅ

List 2-3 biler du IKKE ville anbefalt, med konkrete grunner.

## KONKLUSJON

1. Best buy: [bil + pris + hovedgrunn]
2. Best value: [bil + pris + hovedgrunn]
3. Avoid: [bil + hovedgrunn]

Vær spesifikk, bruk tallene fra verdifall-analysen, og gi KONKRETE kjøpsråd med URL-er.
`, min(5, topN), min(5, topN))

	return b.String(), nil
}

func diffAssessment(diff float64) string {
	if diff > 0 {
		return "BILLIGERE enn forventet, bra for kjøper"
	}
	return "DYRERE enn forventet, dårlig for kjøper"
}
