package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eirikstav/fornyelse/constants"
)

const trygSpecDoc = `Tryg Forsikring
Forsikringsbevis | Spesifikasjon

Personbil VOLVO FH - Vilkår PAU12345
Kjennemerke: AB12345
Fabrikat/årsmodell: VOLVO FH 2019
Dekning Vilkår Forsikringssum Egenandel Pris
Kasko PAU12345 500 000 12 000 24 741
`

func TestTrygSpecificationFormat(t *testing.T) {
	tr := NewTryg(nil)
	records := tr.Extract(trygSpecDoc)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "AB12345", r.Registration)
	assert.Equal(t, string(constants.CategoryCar), r.VehicleType)
	assert.Equal(t, "VOLVO FH 2019", r.MakeModelYear)
	assert.Equal(t, "Kasko", r.Coverage)
	assert.Equal(t, "500000", r.SumInsured)
	assert.Equal(t, "12000", r.Deductible)
	assert.Equal(t, "24741", r.Premium)
}

func TestTrygDetailedFormat(t *testing.T) {
	tr := NewTryg(nil)

	text := `Tryg Forsikring
Kjennemerke
CD54321
Fabrikat/årsmodell
SCANIA R500
Type:
Lastebil
Forsikringssum kr:
850 000
`
	records := tr.Extract(text)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "CD54321", r.Registration)
	assert.Equal(t, string(constants.CategoryCar), r.VehicleType)
	assert.Equal(t, "SCANIA R500", r.MakeModelYear)
	assert.Equal(t, "850000", r.SumInsured)
}

func TestTrygOverviewFormat(t *testing.T) {
	tr := NewTryg(nil)

	text := "Tryg Forsikring\nTilhenger\nEF12345\n4500\n"
	records := tr.Extract(text)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "EF12345", r.Registration)
	assert.Equal(t, string(constants.CategoryTrailer), r.VehicleType)
	assert.Equal(t, "4500", r.Premium)
}

func TestTrygGuard(t *testing.T) {
	tr := NewTryg(nil)
	assert.False(t, tr.Matches("Gjensidige fornyelse uten andre navn"))
	// "trygghet" is everyday Norwegian, not a fingerprint.
	assert.False(t, tr.Matches("Ly Forsikring gir deg trygghet i hverdagen"))
	assert.True(t, tr.Matches("Les mer på tryg.no"))
	assert.Empty(t, tr.Extract("Kjennemerke\nAB12345\nno fingerprint here"))
}

func TestTrygTableFieldFallbacks(t *testing.T) {
	// Full row after the table header.
	got := extractTableFields("Dekning Vilkår Forsikringssum Egenandel Pris\nKasko PAU123 500 000 12 000 24 741")
	require.NotNil(t, got)
	assert.Equal(t, "Kasko", got["coverage"])
	assert.Equal(t, "500000", got["sum_insured"])
	assert.Equal(t, "12000", got["deductible"])
	assert.Equal(t, "24741", got["premium"])

	// Thousands groups broken across lines are rejoined first.
	got = extractTableFields("Kasko PAU123 500\n000 12 000 24 741")
	require.NotNil(t, got)
	assert.Equal(t, "500000", got["sum_insured"])

	// Label-above-value columns.
	got = extractTableFields("Delkasko\nForsikringssum\n300 000\nEgenandel\n8 000\nPris\n9 500")
	require.NotNil(t, got)
	assert.Equal(t, "Delkasko", got["coverage"])
	assert.Equal(t, "300000", got["sum_insured"])
	assert.Equal(t, "8000", got["deductible"])
	assert.Equal(t, "9500", got["premium"])

	// Nothing table-shaped at all.
	assert.Nil(t, extractTableFields("ingen tall her"))
}

func TestTrygKeyValueLabels(t *testing.T) {
	kv := extractKeyValues(`Kjennemerke: GH67890
Fabrikat/årsmodell: MAN TGX 2021
Dekning: Kasko
Egenandel kr: 10 000
Pris: 18 500
Bonus: 70%
`)
	assert.Equal(t, "GH67890", kv["registration"])
	assert.Equal(t, "MAN TGX 2021", kv["make_model_year"])
	assert.Equal(t, "Kasko", kv["coverage"])
	assert.Equal(t, "10000", kv["deductible"])
	assert.Equal(t, "18500", kv["premium"])
	assert.Equal(t, "70%", kv["bonus"])
}

func TestTrygCoverageRejectsHeaderLines(t *testing.T) {
	kv := extractKeyValues("Dekning Vilkår Forsikringssum Egenandel Pris\n")
	assert.Empty(t, kv["coverage"])
}
