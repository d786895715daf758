package liability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
)

func TestDetectProvider(t *testing.T) {
	cases := []struct {
		text string
		want constants.Provider
	}{
		{"Ly Forsikring AS og Gjensidige", constants.ProviderLy},
		{"Gjensidige Forsikring ASA", constants.ProviderGjensidige},
		{"Tryg Forsikring", constants.ProviderTryg},
		{"forsikring gir trygghet i hverdagen", ""},
		{"If Skadeforsikring NUF", constants.ProviderIf},
		{"vilkår gjelder if", constants.ProviderIf},
		{"ingen kjent avsender her", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DetectProvider(c.text), c.text)
	}
}

const ifLiabilityDoc = `If Skadeforsikring NUF
Virksomhet: Snekkerarbeid og montasje
Årsomsetning 10 000 000 kr
Ansvarsforsikring Pris per år NOK 23 500
Bedriftsansvar
Forsikringssum: 10 000 000
Egenandel per skade: 25 000
Rettshjelp 250 000
`

func TestTransformIf(t *testing.T) {
	m := NewMapper(nil)
	cells := m.Transform(entity.Document{Text: ifLiabilityDoc})
	require.False(t, cells.Empty())

	assert.Equal(t, "Snekkerarbeid og montasje", cells.Values["A3"])
	assert.Equal(t, 10000000, cells.Values["B3"])
	assert.Equal(t, 10000000, cells.Values["C3"])
	assert.Equal(t, 25000, cells.Values["D3"])
	assert.Equal(t, "", cells.Values["E3"])
	assert.Equal(t, 250000, cells.Values["F3"])
	assert.Equal(t, 23500, cells.Values["G3"])
	assert.Equal(t, "", cells.Values["H3"])
}

const trygLiabilityDoc = `Tryg Forsikring
Alminnelig ansvarsforsikring
Virksomhet: Rorleggerarbeid
Driftsinntekter kr 12 000 000
Ansvar for virksomheten * 6000000 10000 45000
Rettshjelp 100 000
`

func TestTransformTryg(t *testing.T) {
	m := NewMapper(nil)
	cells := m.Transform(entity.Document{Text: trygLiabilityDoc})
	require.False(t, cells.Empty())

	assert.Equal(t, "Rorleggerarbeid", cells.Values["A3"])
	assert.Equal(t, 12000000, cells.Values["B3"])
	// The three-amount row splits into sum, deductible and price.
	assert.Equal(t, 6000000, cells.Values["C3"])
	assert.Equal(t, 10000, cells.Values["D3"])
	assert.Equal(t, 45000, cells.Values["G3"])
	assert.Equal(t, 100000, cells.Values["F3"])
}

const lyLiabilityDoc = `Ly Forsikring AS
Næringskode Rørleggerarbeid Sist kjente omsetning 8 500 000
Bedriftsansvar 10 G 10000 30000
Produktansvar 10 G 5000 15000
`

func TestTransformLy(t *testing.T) {
	m := NewMapper(nil)
	cells := m.Transform(entity.Document{Text: lyLiabilityDoc})
	require.False(t, cells.Empty())

	assert.Equal(t, "rorleggerarbeid", cells.Values["A3"])
	assert.Equal(t, 8500000, cells.Values["B3"])
	// G-denominated sums survive as text, never collapsed to an int.
	assert.Equal(t, "10 G", cells.Values["C3"])
	assert.Equal(t, 10000, cells.Values["D3"])
	assert.Equal(t, "10 G", cells.Values["E3"])
	// No single price line: the per-coverage prices are summed.
	assert.Equal(t, 45000, cells.Values["G3"])
}

const gjenLiabilityDoc = `Gjensidige Forsikring ASA
Ansvarsforsikring 18 500
Sist kjente omsetning 6 000 000
Forsikringsbevis
Ansvarsforsikring 99 999
`

func TestTransformGjensidigeHeadOnly(t *testing.T) {
	m := NewMapper(nil)
	cells := m.Transform(entity.Document{Text: gjenLiabilityDoc})
	require.False(t, cells.Empty())

	// Only the offer summary before "Forsikringsbevis" counts.
	assert.Equal(t, 18500, cells.Values["G3"])
	assert.Equal(t, 6000000, cells.Values["B3"])
}

func TestTransformNoFields(t *testing.T) {
	m := NewMapper(nil)
	assert.True(t, m.Transform(entity.Document{Text: "Tryg Forsikring"}).Empty())
	assert.True(t, m.Transform(entity.Document{Text: ""}).Empty())
	assert.True(t, m.Transform(entity.Document{Text: "ukjent avsender"}).Empty())
}

func TestSumValue(t *testing.T) {
	assert.Equal(t, "10 G", sumValue("10 g"))
	assert.Equal(t, 10000000, sumValue("10 000 000\n"))
	assert.Equal(t, "", sumValue("  "))
}
