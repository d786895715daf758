package entity

import (
	"fmt"

	"github.com/eirikstav/fornyelse/constants"
)

// RowBand is the fixed, contiguous range of sheet rows reserved for one
// vehicle category. The ranges are a bit-exact contract with the Excel
// template and must not drift.
type RowBand struct {
	Start       int
	End         int
	DisplayName string
}

// Capacity is the number of records the band can hold.
func (b RowBand) Capacity() int {
	return b.End - b.Start + 1
}

// VehicleRows binds each category to its band on the Fordon sheet.
var VehicleRows = map[constants.VehicleCategory]RowBand{
	constants.CategoryCar:     {Start: 3, End: 22, DisplayName: "Cars"},
	constants.CategoryTrailer: {Start: 26, End: 34, DisplayName: "Trailers"},
	constants.CategoryMoped:   {Start: 38, End: 46, DisplayName: "Mopeds"},
	constants.CategoryTractor: {Start: 50, End: 60, DisplayName: "Tractors"},
	constants.CategoryBoat:    {Start: 64, End: 72, DisplayName: "Boats"},
	constants.CategoryOther:   {Start: 76, End: 84, DisplayName: "Øvrig (Other)"},
}

// VehicleColumns binds each VehicleRecord field to its column on the
// Fordon sheet. Column D carries sum insured, or premium when sum insured
// is absent (flagged via a style hint).
var VehicleColumns = []struct {
	Field  string
	Column string
}{
	{"registration", "B"},
	{"make_model_year", "C"},
	{"sum_insured", "D"},
	{"coverage", "E"},
	{"leasing", "F"},
	{"annual_mileage", "G"},
	{"bonus", "H"},
	{"deductible", "I"},
}

// CellRef renders a column letter + row number reference like "B3".
func CellRef(column string, row int) string {
	return fmt.Sprintf("%s%d", column, row)
}
