// Package workerscomp fills the "Yrkesskade" sheet from Gjensidige
// renewal letters; other insurers' documents leave the sheet untouched.
// Each occupational class has a fixed row; a row is written only when
// its label line also carries at least one value.
package workerscomp

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/liability"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// rowLabels maps each sheet row to the label spellings that identify its
// occupational class on a document line. Patterns run against folded
// lowercase text, first hit wins.
var rowLabels = map[int][]*regexp.Regexp{
	3: {
		regexp.MustCompile(`lovbestemt\s+yrkesskade`),
	},
	4: {
		regexp.MustCompile(`\bkontor\b`),
	},
	5: {
		regexp.MustCompile(`tomrer\s*/\s*bygningsarbeider`),
		regexp.MustCompile(`\bbygningsarbeider\b`),
		regexp.MustCompile(`\btomrer\b`),
	},
	6: {
		regexp.MustCompile(`frivillig\s+yrkesinvaliditet`),
		regexp.MustCompile(`yrkesinvaliditet\s*1\s*%?\s*til\s*14\s*%?`),
	},
}

var rows = []int{3, 4, 5, 6}

var (
	wcAmount   = regexp.MustCompile(`\b([0-9]{1,3}(?:[\s.,][0-9]{3})+|[0-9]{4,6})\b`)
	wcArsverk  = regexp.MustCompile(`\b([0-9][0-9\s.,]{0,10})\s*arsverk\b`)
	wcPersoner = regexp.MustCompile(`\b([0-9][0-9\s.,]{0,10})\s*person(?:er)?\b`)
)

type rowValues struct {
	Arsverk  string
	Personer string
	Amount   string
}

func (v rowValues) empty() bool {
	return v.Arsverk == "" && v.Personer == "" && v.Amount == ""
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

// Transform scans the document line by line for the configured class
// labels and writes årsverk (B), headcount (C) and premium (D) for each
// matched row. Rows whose labels never appear, or appear without any
// value, stay blank. Only Gjensidige documents carry the occupational
// table these rows map; the labels are generic words that also occur in
// other insurers' unrelated sections, so everything else yields an
// empty map.
func (m *Mapper) Transform(doc entity.Document) entity.CellMap {
	cells := entity.NewCellMap()
	if doc.Text == "" {
		return cells
	}

	provider, _ := constants.CanonicalizeProvider(doc.Provider)
	if provider == "" || provider == constants.ProviderAuto {
		provider = liability.DetectProvider(doc.Text)
	}
	if provider != constants.ProviderGjensidige {
		m.logger.Debug("workerscomp.skip", "provider", string(provider))
		return cells
	}

	matched := 0
	for _, row := range rows {
		values := extractRowValues(doc.Text, rowLabels[row])
		if values.empty() {
			continue
		}
		matched++
		if values.Arsverk != "" {
			cells.Set(entity.CellRef("B", row), values.Arsverk)
		}
		if values.Personer != "" {
			cells.Set(entity.CellRef("C", row), values.Personer)
		}
		if values.Amount != "" {
			ref := entity.CellRef("D", row)
			if n, ok := textnorm.AmountInt(values.Amount); ok {
				cells.Set(ref, n)
			} else {
				cells.Set(ref, values.Amount)
			}
		}
	}

	if matched > 0 {
		m.logger.Info("workerscomp.mapped", "rows", matched)
	}
	return cells
}

func extractRowValues(text string, labels []*regexp.Regexp) rowValues {
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		normalized := textnorm.Normalize(line)
		if !anyMatch(labels, normalized) {
			continue
		}

		values := rowValues{
			Amount:   lineAmount(line),
			Arsverk:  lineCount(wcArsverk, normalized),
			Personer: lineCount(wcPersoner, normalized),
		}
		if !values.empty() {
			return values
		}
	}
	return rowValues{}
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// lineAmount takes the rightmost amount on the line, skipping year-shaped
// numbers; the premium sits after the counts on these lines.
func lineAmount(line string) string {
	candidates := wcAmount.FindAllStringSubmatch(line, -1)
	for i := len(candidates) - 1; i >= 0; i-- {
		digits := textnorm.Digits(candidates[i][1])
		if digits == "" || textnorm.YearLike(digits) {
			continue
		}
		return digits
	}
	return ""
}

func lineCount(re *regexp.Regexp, normalized string) string {
	m := re.FindStringSubmatch(normalized)
	if m == nil {
		return ""
	}
	return textnorm.Digits(m[1])
}
