// Package project fills the "Prosjekt,entreprenor" sheet. Only If and
// Tryg documents carry a project/entrepreneur chapter; other insurers
// leave the sheet untouched.
package project

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// trygDetailRows are the specification lines of the Bygg/Anlegg/
// Montasjefors chapter, in sheet order starting at row 4. The needle is
// matched against folded text; the label is what lands in column A.
var trygDetailRows = []struct {
	Needle string
	Label  string
}{
	{"bygge-/montasjearbeid", "Bygge-/montasjearbeid, 1.risiko"},
	{"brakker, containere", "Brakker, containere, 1. risiko"},
	{"varer under transport", "Varer under transport, 1.risiko"},
	{"inventar og losore", "Inventar og losore, 1. risiko"},
	{"varer pa fast sted", "Varer pa fast sted, 1. risiko"},
	{"maskiner og utstyr", "Maskiner og utstyr 1. risiko"},
}

var (
	projAllrisk = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Prosjekt[\-/ ]*entrepren(?:or)\s*-\s*Allrisk\s*([0-9][0-9\s.,]{2,})`),
		regexp.MustCompile(`(?is)Prosjekt[\-/ ]*entrepren(?:or)forsikring.*?Allrisk\s*([0-9][0-9\s.,]{2,})`),
	}
	projTrygHeader = regexp.MustCompile(`(?i)bygg/anlegg/montasjefors\s*-\s*vilkar\s*bslmt100`)
	projTrygPrice  = regexp.MustCompile(`(?i)\bpris\s+([0-9][0-9\s.,]{2,})\b`)

	projLineTail = regexp.MustCompile(`(\d{1,3}(?:[ .]\d{3})*|\d{2,7})\s*$`)
	projNumToken = regexp.MustCompile(`\d{1,3}(?:[ .]\d{3})+|\d{2,7}`)
	projGroupSep = regexp.MustCompile(`[ .]+`)
)

var trygProjectEndMarkers = []string{
	"reise ekstra bedrift - vilkar",
	"behandlingsforsikring",
	"forsikringsbevis | sikkerhetsforskrift",
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

// Transform dispatches on the provider hint, or tries If then Tryg under
// auto-detection. First non-empty mapping wins.
func (m *Mapper) Transform(doc entity.Document) entity.CellMap {
	if doc.Text == "" {
		return entity.NewCellMap()
	}

	provider, _ := constants.CanonicalizeProvider(doc.Provider)
	switch provider {
	case constants.ProviderIf:
		return m.transformIf(doc.Text)
	case constants.ProviderTryg:
		return m.transformTryg(doc.Text)
	case constants.ProviderAuto:
		if cells := m.transformIf(doc.Text); !cells.Empty() {
			return cells
		}
		return m.transformTryg(doc.Text)
	}
	return entity.NewCellMap()
}

var ifDocMarkers = []string{"if skadeforsikring", "if.no", "if forsikrer", "if forsikring"}

func isIfDocument(text string) bool {
	folded := strings.ToLower(textnorm.Fold(text))
	for _, marker := range ifDocMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

var trygDocMarkers = []string{
	"bygg/anlegg/montasjefors",
	"vilkar bslmt100",
	"forsikringsbevis | spesifikasjon",
}

func isTrygDocument(text string) bool {
	folded := strings.ToLower(textnorm.Fold(text))
	if !strings.Contains(folded, "tryg") {
		return false
	}
	for _, marker := range trygDocMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// transformIf writes the single Allrisk line: label in A3, amount in B3.
func (m *Mapper) transformIf(text string) entity.CellMap {
	cells := entity.NewCellMap()
	if !isIfDocument(text) {
		return cells
	}

	folded := textnorm.Fold(text)
	var amount string
	for _, re := range projAllrisk {
		if match := re.FindStringSubmatch(folded); match != nil {
			amount = textnorm.Digits(match[1])
			break
		}
	}
	if amount == "" {
		return cells
	}

	n, err := strconv.Atoi(amount)
	if err != nil {
		return cells
	}
	cells.Set("A3", "Allrisk")
	cells.Set("B3", n)
	m.logger.Info("project.mapped", "provider", "if")
	return cells
}

// transformTryg writes the chapter total on row 3 and the specification
// lines on rows 4-9.
func (m *Mapper) transformTryg(text string) entity.CellMap {
	cells := entity.NewCellMap()
	if !isTrygDocument(text) {
		return cells
	}

	section := trygProjectSection(text)
	if section == "" {
		return cells
	}

	if match := projTrygPrice.FindStringSubmatch(section); match != nil {
		if n, err := strconv.Atoi(textnorm.Digits(match[1])); err == nil {
			cells.Set("A3", "Bygg/Anlegg/Montasjefors")
			cells.Set("B3", n)
		}
	}

	lines := nonEmptyLines(section)
	for i, detail := range trygDetailRows {
		row := 4 + i
		var matched string
		for _, line := range lines {
			if strings.Contains(line, detail.Needle) {
				matched = line
				break
			}
		}
		if matched == "" {
			continue
		}
		digits := textnorm.Digits(lastLineAmount(matched))
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		cells.Set(entity.CellRef("A", row), detail.Label)
		cells.Set(entity.CellRef("B", row), n)
	}

	if !cells.Empty() {
		m.logger.Info("project.mapped", "provider", "tryg", "cells", len(cells.Values))
	}
	return cells
}

// trygProjectSection cuts the Bygg/Anlegg/Montasjefors chapter out of
// the folded lowercase text, stopping at the next chapter heading.
func trygProjectSection(text string) string {
	folded := strings.ToLower(textnorm.Fold(text))
	header := projTrygHeader.FindStringIndex(folded)
	if header == nil {
		return ""
	}

	end := header[0] + 8000
	if end > len(folded) {
		end = len(folded)
	}
	section := folded[header[0]:end]

	cut := len(section)
	for _, marker := range trygProjectEndMarkers {
		if idx := strings.Index(section, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return section[:cut]
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, raw := range strings.Split(s, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// lastLineAmount returns the price column of a specification line: the
// final numeric token. Two OCR artifacts are handled: chained columns
// joined by spaces or dots (take the last group), and columns collapsed
// into one long digit run (take the trailing five digits).
func lastLineAmount(line string) string {
	text := strings.TrimSpace(line)

	if tail := projLineTail.FindStringSubmatch(text); tail != nil {
		token := tail[1]
		digits := textnorm.Digits(token)
		if strings.ContainsAny(token, " .") {
			groups := projGroupSep.Split(token, -1)
			var parts []string
			for _, g := range groups {
				if g != "" {
					parts = append(parts, g)
				}
			}
			if len(parts) > 2 {
				return parts[len(parts)-1]
			}
		}
		if !strings.ContainsAny(token, " .") && len(digits) > 7 {
			trimmed := strings.TrimLeft(digits[len(digits)-5:], "0")
			if trimmed == "" {
				trimmed = "0"
			}
			return trimmed
		}
		return token
	}

	if nums := projNumToken.FindAllString(text, -1); len(nums) > 0 {
		return nums[len(nums)-1]
	}
	return ""
}
