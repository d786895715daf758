package vehicles

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
)

func TestExtractEmptyDocument(t *testing.T) {
	p := NewPipeline(nil)
	assert.Empty(t, p.Extract(entity.Document{}))
}

func TestExtractForeignDocument(t *testing.T) {
	p := NewPipeline(nil)
	doc := entity.Document{Text: "An unrelated letter about VOLKSWAGEN TRANSPORTER 2020 BU 21895."}
	assert.Empty(t, p.Extract(doc))

	cells, overflows := p.Transform(doc)
	assert.True(t, cells.Empty())
	assert.Empty(t, overflows)
}

// A document matching two insurers' fingerprints yields one record per
// plate, and the extractor that ran first keeps it.
func TestExtractFirstSeenWins(t *testing.T) {
	text := `If Skadeforsikring NUF
Gjensidige Forsikring ASA

PR59518, Varebil, TOYOTA HILUX
Registreringsnummer: PR59518
Årsmodell: 2019
Kjørelengde: 16 000 km

TOYOTA HILUX 2019 PR 59518
`
	p := NewPipeline(nil)
	categorized := p.Extract(entity.Document{Text: text})

	cars := categorized[constants.CategoryCar]
	require.Len(t, cars, 1)
	// AnnualMileage is only produced by the If detail section, so its
	// presence proves the earlier extractor's record survived the merge.
	assert.Equal(t, "PR59518", cars[0].Registration)
	assert.Equal(t, "16000", cars[0].AnnualMileage)
}

func TestLyPriorityShortCircuit(t *testing.T) {
	text := `Ly Forsikring AS
Denne avtalen avløser tidligere avtale hos Gjensidige.
VOLKSWAGEN TRANSPORTER 2020 BU 21895
Kjøretøy som inngår i gruppen
AB12345 VOLKSWAGEN CRAFTER 2021 01.01.2025 8500 9000
`
	p := NewPipeline(nil)
	categorized := p.Extract(entity.Document{Text: text})

	cars := categorized[constants.CategoryCar]
	require.Len(t, cars, 1, "only the Ly group table row, not the Gjensidige-style line")
	assert.Equal(t, "AB12345", cars[0].Registration)
}

func TestProviderHintRunsSingleExtractor(t *testing.T) {
	text := `If Skadeforsikring NUF
Gjensidige Forsikring ASA
VOLKSWAGEN TRANSPORTER 2020 BU 21895
`
	p := NewPipeline(nil)

	// Hinted at If: the Gjensidige line is invisible.
	assert.Empty(t, p.Extract(entity.Document{Text: text, Provider: "if"}))

	// Hinted at Gjensidige: the line is found.
	categorized := p.Extract(entity.Document{Text: text, Provider: "gjensidige"})
	require.Len(t, categorized[constants.CategoryCar], 1)
}

func TestTransformRowPlacement(t *testing.T) {
	text := `Gjensidige Forsikring ASA
VOLKSWAGEN TRANSPORTER 2020 BU 21895

Uregistrert traktor og arb.maskin - Hitachi 300 - 28 346 Uregistrert
`
	p := NewPipeline(nil)
	cells, overflows := p.Transform(entity.Document{Text: text})
	assert.Empty(t, overflows)

	// Car band starts at row 3, columns B..I.
	assert.Equal(t, "BU21895", cells.Values["B3"])
	assert.Equal(t, "VOLKSWAGEN TRANSPORTER 2020", cells.Values["C3"])
	assert.Equal(t, "kasko", cells.Values["E3"])

	// Tractor band starts at row 50; the machinery price is the sum
	// insured, written as a number with the numeric style.
	assert.Equal(t, constants.Unregistered, cells.Values["B50"])
	assert.Equal(t, 28346, cells.Values["D50"])
	style, ok := cells.Styles["D50"]
	require.True(t, ok)
	assert.Empty(t, style.FontColor)
	assert.Equal(t, "0", style.NumberFormat)
}

func TestTransformPremiumFallbackStyle(t *testing.T) {
	// Ly rows carry a premium but no sum insured; column D takes the
	// premium and flags it with the premium font color.
	text := `Ly Forsikring AS
Kjøretøy som inngår i gruppen
AB12345 VOLKSWAGEN CRAFTER 2021 01.01.2025 8500 9000
`
	p := NewPipeline(nil)
	cells, _ := p.Transform(entity.Document{Text: text})

	assert.Equal(t, 8500, cells.Values["D3"])
	style, ok := cells.Styles["D3"]
	require.True(t, ok)
	assert.Equal(t, entity.PremiumFontColor, style.FontColor)
}

func TestTransformBandOverflow(t *testing.T) {
	var b strings.Builder
	b.WriteString("Ly Forsikring AS\nTilhengere som inngår i gruppen\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "TH%04d TYSSE 6X 2019 01.01.2025 1200 1400\n", 1000+i)
	}

	p := NewPipeline(nil)
	cells, overflows := p.Transform(entity.Document{Text: b.String()})

	require.Len(t, overflows, 1)
	assert.Equal(t, constants.CategoryTrailer, overflows[0].Category)
	assert.Equal(t, 1, overflows[0].Dropped)

	// Rows 26..34 are written, nothing beyond the band.
	assert.Equal(t, "TH1000", cells.Values["B26"])
	assert.Equal(t, "TH1008", cells.Values["B34"])
	_, beyond := cells.Values["B35"]
	assert.False(t, beyond)
}

func TestExcelNumber(t *testing.T) {
	n, ok := excelNumber("10 500")
	assert.True(t, ok)
	assert.Equal(t, 10500, n)

	_, ok = excelNumber("3 000/6 000")
	assert.False(t, ok)
	_, ok = excelNumber("70%")
	assert.False(t, ok)
	_, ok = excelNumber("20 000 km")
	assert.False(t, ok)
	_, ok = excelNumber("")
	assert.False(t, ok)
}
