package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldNorwegianLetters(t *testing.T) {
	assert.Equal(t, "Batforsikring", Fold("Båtforsikring"))
	assert.Equal(t, "kjorelengde", Fold("kjørelengde"))
	assert.Equal(t, "vaermelding", Fold("værmelding"))
	assert.Equal(t, "ARSMODELL", Fold("ÅRSMODELL"))
}

func TestFoldGarbledEncodings(t *testing.T) {
	// UTF-8 bytes decoded as Latin-1.
	assert.Equal(t, "kjorelengde", Fold("kjÃ¸relengde"))
	// Uppercase letters garble two ways: Latin-1 keeps the second byte
	// as a C1 control character, cp1252 renders it printable.
	assert.Equal(t, "Arsmodell", Fold("\u00c3\u0085rsmodell"))
	assert.Equal(t, "Arsmodell", Fold("Ã…rsmodell"))
	assert.Equal(t, "OKONOMI", Fold("\u00c3\u0098KONOMI"))
	assert.Equal(t, "OKONOMI", Fold("Ã˜KONOMI"))
	assert.Equal(t, "AERLIG", Fold("\u00c3\u0086RLIG"))
	assert.Equal(t, "AERLIG", Fold("Ã†RLIG"))
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{
		"Kjørelengde: 16 000 km",
		"kjÃ¸relengde",
		"Vilkår PAU12345",
		"plain ascii stays put",
	}
	for _, in := range inputs {
		once := Fold(in)
		assert.Equal(t, once, Fold(once), "folding twice must not change %q", in)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("  Gjensidige\r\n Forsikring\t ASA ")
	assert.Equal(t, "gjensidige forsikring asa", got)
}

func TestKeyStripsPunctuation(t *testing.T) {
	assert.Equal(t, "forsikringssumkr", Key("Forsikringssum kr:"))
	assert.Equal(t, "forsikringssumkr", Key("forsikringssum  KR"))
	assert.Equal(t, "arligkjorelengde", Key("Årlig kjørelengde"))
}

func TestCleanLinesKeepsAnchors(t *testing.T) {
	in := "Kjennemerke\t\tBU 21895   \n\n\n\nNeste linje"
	got := CleanLines(in)
	assert.Equal(t, "Kjennemerke BU 21895\n\nNeste linje", got)
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpaces("  a \n b\t c "))
}
