// Package liability fills the "Alminnelig ansvar" sheet: one row of
// general liability terms pulled from whichever insurer's wording the
// document uses.
package liability

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

const rowStart = 3

// Entry holds the liability fields for the single output row. Empty
// means the document did not state the field; it is left blank, never
// guessed.
type Entry struct {
	Virksomhet      string
	AnnualTurnover  string
	Bedriftsansvar  string
	EgenandelAnsvar string
	Produktansvar   string
	RettshjelpSum   string
	TilbudPris      string
	TilbudKommentar string
}

func (e Entry) empty() bool {
	return e == Entry{}
}

// fieldColumns binds each Entry field to its column at rowStart.
var fieldColumns = []struct {
	Field  string
	Column string
}{
	{"virksomhet", "A"},
	{"annual_turnover", "B"},
	{"bedriftsansvar", "C"},
	{"egenandel_ansvar", "D"},
	{"produktansvar", "E"},
	{"rettshjelp_sum", "F"},
	{"tilbud_pris", "G"},
	{"tilbud_kommentar", "H"},
}

type Mapper struct {
	logger *slog.Logger
}

func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// DetectProvider picks the insurer whose wording to parse; the
// workers-comp dispatcher shares it to gate on Gjensidige. Ly and
// Gjensidige have unambiguous names; a bare "if" word is accepted last
// because it is also a common OCR artifact.
func DetectProvider(text string) constants.Provider {
	normalized := textnorm.Normalize(text)
	switch {
	case strings.Contains(normalized, "ly forsikring"):
		return constants.ProviderLy
	case strings.Contains(normalized, "gjensidige"):
		return constants.ProviderGjensidige
	case strings.Contains(normalized, "tryg forsikring") || strings.Contains(normalized, "tryg.no"):
		return constants.ProviderTryg
	case strings.Contains(normalized, "if skadeforsikring") || reBareIf.MatchString(normalized):
		return constants.ProviderIf
	}
	return ""
}

var reBareIf = regexp.MustCompile(`\bif\b`)

// Transform extracts the liability entry and projects it onto row 3.
// Returns an empty map when no field was found, so the sheet stays
// untouched.
func (m *Mapper) Transform(doc entity.Document) entity.CellMap {
	cells := entity.NewCellMap()
	if doc.Text == "" {
		return cells
	}

	provider, _ := constants.CanonicalizeProvider(doc.Provider)
	if provider == "" || provider == constants.ProviderAuto {
		provider = DetectProvider(doc.Text)
	}

	normalized := textnorm.Normalize(doc.Text)
	var entry Entry
	switch provider {
	case constants.ProviderIf:
		entry = extractIfEntry(doc.Text, normalized)
	case constants.ProviderGjensidige:
		entry = extractGjensidigeEntry(normalized)
	case constants.ProviderTryg:
		entry = extractTrygEntry(doc.Text, normalized)
	case constants.ProviderLy:
		entry = extractLyEntry(normalized)
	default:
		m.logger.Debug("liability.no_provider")
		return cells
	}

	if entry.empty() {
		m.logger.Info("liability.no_fields", "provider", string(provider))
		return cells
	}

	for _, fc := range fieldColumns {
		ref := entity.CellRef(fc.Column, rowStart)
		value := entry.field(fc.Field)

		switch fc.Field {
		case "annual_turnover", "egenandel_ansvar", "tilbud_pris":
			cells.Set(ref, intOrBlank(value))
		case "bedriftsansvar", "produktansvar", "rettshjelp_sum":
			cells.Set(ref, sumValue(value))
		default:
			cells.Set(ref, strings.TrimSpace(value))
		}
	}

	m.logger.Info("liability.mapped", "provider", string(provider))
	return cells
}

func (e Entry) field(name string) string {
	switch name {
	case "virksomhet":
		return e.Virksomhet
	case "annual_turnover":
		return e.AnnualTurnover
	case "bedriftsansvar":
		return e.Bedriftsansvar
	case "egenandel_ansvar":
		return e.EgenandelAnsvar
	case "produktansvar":
		return e.Produktansvar
	case "rettshjelp_sum":
		return e.RettshjelpSum
	case "tilbud_pris":
		return e.TilbudPris
	case "tilbud_kommentar":
		return e.TilbudKommentar
	default:
		return ""
	}
}

// intOrBlank strips a numeric string to an int, or an empty string when
// nothing numeric remains.
func intOrBlank(value string) any {
	digits := textnorm.Digits(value)
	if digits == "" {
		return ""
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ""
	}
	return n
}

var reGUnit = regexp.MustCompile(`(?i)\bg\b`)

// sumValue keeps G-denominated sums ("10 G", multiples of the national
// insurance base amount) as text; plain amounts become ints.
func sumValue(value string) any {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if reGUnit.MatchString(text) {
		digits := textnorm.Digits(text)
		if digits == "" {
			return text
		}
		return digits + " G"
	}
	return intOrBlank(text)
}

func firstMatch(patterns []*regexp.Regexp, text string) []string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m
		}
	}
	return nil
}

var reLabelTrim = regexp.MustCompile(`\s+`)

func cleanLabel(label string) string {
	value := strings.Trim(strings.TrimSpace(label), " .,:;|-")
	return reLabelTrim.ReplaceAllString(value, " ")
}

// Right-column labels that OCR appends to the virksomhet line.
var virksomhetStops = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbrannalarm\b`),
	regexp.MustCompile(`(?i)\bkrigsomr`),
	regexp.MustCompile(`(?i)\btyverisikring\b`),
	regexp.MustCompile(`(?i)\bforsikrede\b`),
	regexp.MustCompile(`(?i)\bdekning\b`),
	regexp.MustCompile(`(?i)\berstatningsgrunnlag\b`),
	regexp.MustCompile(`(?i)\bforsikringssum\b`),
	regexp.MustCompile(`(?i)\begenandel\b`),
}

func cleanVirksomhet(label string) string {
	value := cleanLabel(label)
	if value == "" {
		return ""
	}
	for _, stop := range virksomhetStops {
		if loc := stop.FindStringIndex(value); loc != nil {
			value = strings.TrimSpace(value[:loc[0]])
		}
	}
	return strings.Trim(value, " .,:;|-")
}
