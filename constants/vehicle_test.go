package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeTypeCanonicalPassthrough(t *testing.T) {
	for _, cat := range Categories {
		assert.Equal(t, cat, CategorizeType(string(cat), "AB12345"))
	}
}

func TestCategorizeTypeNorwegian(t *testing.T) {
	tests := []struct {
		vtype string
		want  VehicleCategory
	}{
		{"Varebil", CategoryCar},
		{"Personbil", CategoryCar},
		{"Motorvogn", CategoryCar},
		{"Tilhenger", CategoryTrailer},
		{"Campingvogn og tilhenger", CategoryTrailer},
		{"Moped", CategoryMoped},
		{"Motorsykkel", CategoryMoped},
		{"Snøscooter", CategoryMoped},
		{"Traktor", CategoryTractor},
		{"Arbeidsmaskin", CategoryTractor},
		{"Båt", CategoryBoat},
		{"", CategoryOther},
		{"noe helt annet", CategoryOther},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CategorizeType(tc.vtype, "AB12345"), "type %q", tc.vtype)
	}
}

func TestCategorizeTypeUnregisteredFallback(t *testing.T) {
	// No type at all, but the unregistered sentinel: machinery bucket.
	assert.Equal(t, CategoryTractor, CategorizeType("", Unregistered))
	assert.Equal(t, CategoryTractor, CategorizeType("", "uregistrert"))
}

func TestCategorizeTypeIsTotal(t *testing.T) {
	// Arbitrary garbage still lands in exactly one category.
	for _, vtype := range []string{"???", "12345", "traktor og arb.maskin", "tilhenger flate"} {
		cat := CategorizeType(vtype, "XX99999")
		assert.Contains(t, Categories, cat)
	}
}

func TestCanonicalizeProvider(t *testing.T) {
	tests := []struct {
		in   string
		want Provider
		ok   bool
	}{
		{"", ProviderAuto, true},
		{"auto-detect", ProviderAuto, true},
		{"Gjensidige", ProviderGjensidige, true},
		{"IF Skadeforsikring", ProviderIf, true},
		{"tryg forsikring", ProviderTryg, true},
		{"Ly Forsikring", ProviderLy, true},
		{"acme insurance", ProviderAuto, false},
	}
	for _, tc := range tests {
		got, ok := CanonicalizeProvider(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}
