package entity

// PremiumFontColor marks column-D values that came from the premium
// instead of the sum insured, so the template reader can tell them apart.
const PremiumFontColor = "0129F6"

// CellStyle is an optional presentation hint attached to a written cell.
// The workbook filler translates it; core logic only flags which case
// occurred.
type CellStyle struct {
	FontColor       string
	FontBold        bool
	NumberFormat    string
	AlignHorizontal string
}

// NumericCellStyle is the base style for numeric cells: unformatted
// ordinal, right-aligned.
func NumericCellStyle() CellStyle {
	return CellStyle{NumberFormat: "0", AlignHorizontal: "right"}
}

// CellMap is the output contract to the spreadsheet writer: cell
// reference ("B3") to value. Values are strings, or int for numeric
// fields so the writer can apply its own display formatting.
type CellMap struct {
	Values map[string]any
	Styles map[string]CellStyle
}

// NewCellMap returns an empty, ready-to-fill cell map.
func NewCellMap() CellMap {
	return CellMap{
		Values: make(map[string]any),
		Styles: make(map[string]CellStyle),
	}
}

// Set writes a plain value.
func (m CellMap) Set(ref string, value any) {
	m.Values[ref] = value
}

// SetStyled writes a value with a presentation hint.
func (m CellMap) SetStyled(ref string, value any, style CellStyle) {
	m.Values[ref] = value
	m.Styles[ref] = style
}

// Empty reports whether nothing was mapped.
func (m CellMap) Empty() bool {
	return len(m.Values) == 0
}

// Document is the input contract from the excluded collaborators: the
// plain text of one renewal document plus an optional provider hint.
type Document struct {
	Text     string
	Provider string
}
