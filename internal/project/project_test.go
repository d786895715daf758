package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eirikstav/fornyelse/internal/entity"
)

const ifProjectDoc = `If Skadeforsikring NUF
Prosjekt/entreprenør - Allrisk 320 000
`

func TestTransformIfAllrisk(t *testing.T) {
	m := NewMapper(nil)
	cells := m.Transform(entity.Document{Text: ifProjectDoc})
	require.False(t, cells.Empty())

	assert.Equal(t, "Allrisk", cells.Values["A3"])
	assert.Equal(t, 320000, cells.Values["B3"])
}

const trygProjectDoc = `Tryg Forsikring
Forsikringsbevis | Spesifikasjon
Bygg/Anlegg/Montasjefors - Vilkår BSLMT100
Pris 36 000
Bygge-/montasjearbeid, 1.risiko 1 000 000 10 000 12 000
Brakker, containere, 1. risiko 250 000 10 000 3 500
Reise Ekstra Bedrift - Vilkår BREIS100
Maskiner og utstyr 1. risiko 99 999
`

func TestTransformTrygChapter(t *testing.T) {
	m := NewMapper(nil)
	cells := m.Transform(entity.Document{Text: trygProjectDoc})
	require.False(t, cells.Empty())

	// Chapter total on row 3.
	assert.Equal(t, "Bygg/Anlegg/Montasjefors", cells.Values["A3"])
	assert.Equal(t, 36000, cells.Values["B3"])

	// Specification lines: the price is the last column of each line.
	assert.Equal(t, "Bygge-/montasjearbeid, 1.risiko", cells.Values["A4"])
	assert.Equal(t, 12000, cells.Values["B4"])
	assert.Equal(t, "Brakker, containere, 1. risiko", cells.Values["A5"])
	assert.Equal(t, 3500, cells.Values["B5"])

	// The next chapter heading ends the section, so the Maskiner line
	// after "Reise Ekstra Bedrift" never lands on row 9.
	_, ok := cells.Values["A9"]
	assert.False(t, ok)
}

func TestTransformOtherProviders(t *testing.T) {
	m := NewMapper(nil)

	assert.True(t, m.Transform(entity.Document{
		Text: "Gjensidige Forsikring ASA\nAnsvarsforsikring 18 500\n",
	}).Empty())
	assert.True(t, m.Transform(entity.Document{
		Text:     trygProjectDoc,
		Provider: "gjensidige",
	}).Empty(), "hinted provider wins over document content")
	assert.True(t, m.Transform(entity.Document{Text: ""}).Empty())
}

func TestLastLineAmount(t *testing.T) {
	assert.Equal(t, "12 000", lastLineAmount("bygge-/montasjearbeid, 1.risiko 1 000 000 10 000 12 000"))
	assert.Equal(t, "3 500", lastLineAmount("brakker 250 000 10 000 3 500"))
	// Columns collapsed into one dotted chain take the last group.
	assert.Equal(t, "500", lastLineAmount("maskiner og utstyr 12.000.500"))
	// Trailing unit pushes the match to the token scan.
	assert.Equal(t, "12 000", lastLineAmount("inventar 1 000 000 12 000 kr"))
	assert.Equal(t, "", lastLineAmount("ingen tall her"))
}
