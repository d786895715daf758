package extract

import (
	"regexp"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// Tryg field labels drift between document revisions ("Fabrikat/årsmodell"
// vs a bare "Fabrikat", egenandel with or without "kr"). Labels are tried
// in declared order and the first hit per field wins, so more specific
// labels must precede the loose ones.
type trygLabel struct {
	field   string
	numeric bool
	re      *regexp.Regexp
}

func label(field string, numeric bool, pattern string) trygLabel {
	return trygLabel{
		field:   field,
		numeric: numeric,
		re:      regexp.MustCompile(`(?i)^` + pattern + `\b\s*[:\-]?\s*(.+)$`),
	}
}

var trygLabels = []trygLabel{
	label("registration", false, `(?:Kjennemerke|Registreringsnummer)`),
	label("make_model_year", false, `Fabrikat/(?:årsmodell|arsmodell|Ã¥rsmodell|\?rsmodell)`),
	label("make_model_year", false, `Fabrikat`),
	label("type", false, `Type`),
	label("sum_insured", true, `Forsikringssum\s*(?:kr)?`),
	label("coverage", false, `Dekning`),
	label("deductible", true, `Egenandel\s*(?:kr)?`),
	label("premium", true, `Pris\s*(?:kr)?`),
	label("annual_mileage", true, `(?:Årlig|Arlig|Ã¥rlig|\?rlig)\s+kj(?:ø|o|Ã¸|\?)relengde`),
	label("bonus", false, `Bonus`),
	label("leasing", false, `Leasing(?:selskap)?`),
}

// Keys that appear on their own line with the value on the next line.
var trygNextLineKeys = map[string]struct {
	field   string
	numeric bool
}{
	"kjennemerke":         {"registration", false},
	"registreringsnummer": {"registration", false},
	"fabrikatarsmodell":   {"make_model_year", false},
	"fabrikat":            {"make_model_year", false},
	"forsikringssum":      {"sum_insured", true},
	"forsikringssumkr":    {"sum_insured", true},
	"dekning":             {"coverage", false},
	"egenandel":           {"deductible", true},
	"egenandelkr":         {"deductible", true},
	"pris":                {"premium", true},
	"priskr":              {"premium", true},
	"bonus":               {"bonus", false},
}

var trygCoverageHeaderWords = regexp.MustCompile(`(?i)\b(vilkår|vilkar|forsikringssum|egenandel|pris)\b`)

// extractKeyValues scans a specification section line by line, applying
// the label strategies first and the key/next-line form second.
func extractKeyValues(section string) map[string]string {
	out := map[string]string{}

	lines := strings.Split(section, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		matched := false
		for _, l := range trygLabels {
			if out[l.field] != "" {
				continue
			}
			m := l.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			value := strings.TrimSpace(m[1])
			if value == "" {
				continue
			}
			setTrygField(out, l.field, value, l.numeric)
			matched = true
			break
		}
		if matched {
			continue
		}

		// "Key" on one line, value on the next.
		key := textnorm.Key(line)
		def, ok := trygNextLineKeys[key]
		if !ok || out[def.field] != "" || i+1 >= len(lines) {
			continue
		}
		value := strings.TrimSpace(lines[i+1])
		if value == "" {
			continue
		}
		setTrygField(out, def.field, value, def.numeric)
	}

	return out
}

func setTrygField(out map[string]string, field, value string, numeric bool) {
	switch {
	case numeric:
		if amt := textnorm.Amount(value); amt != "" {
			out[field] = amt
		}
	case field == "registration":
		reg := normalizeReg(value)
		if regexp.MustCompile(`^[A-Z]{2}\d{4,5}$`).MatchString(reg) && !yearShapedReg(reg) {
			out[field] = reg
		}
	case field == "coverage":
		// A wrapped table header line can masquerade as a Dekning value.
		if trygCoverageHeaderWords.MatchString(value) && !constants.IsCoverageTerm(value) {
			return
		}
		out[field] = textnorm.CollapseSpaces(value)
	default:
		out[field] = textnorm.CollapseSpaces(value)
	}
}

var (
	trygFlatJoin   = regexp.MustCompile(`(\d)\s*[\r\n]+\s*(\d{3})\b`)
	trygTableHead  = regexp.MustCompile(`(?i)Dekning\s+Vilk(?:år|ar|Ã¥r|\?r)\s+Forsikringssum\s+Egenandel\s+Pris`)
	trygCoverWords = `Kasko|Delkasko|Ansvar|Brann|Tyveri|Glass|Redning`
	trygNum        = `\d{1,3}(?:[ .]\d{3})+|\d{3,7}`
	trygTableRow   = regexp.MustCompile(`(?i)\b(` + trygCoverWords + `)\b\s+(?:[A-Z]{2,5}\d+\s+)?(` + trygNum + `)\s+(` + trygNum + `)\s+(` + trygNum + `)`)
	trygLabelCols  = regexp.MustCompile(`(?i)Forsikringssum\s*\n+\s*(` + trygNum + `)[\s\S]{0,80}?Egenandel\s*\n+\s*(` + trygNum + `)[\s\S]{0,80}?Pris\s*\n+\s*(` + trygNum + `)`)
	trygCoverFirst = regexp.MustCompile(`(?i)\b(` + trygCoverWords + `)\b`)
	trygFirstNums  = regexp.MustCompile(`(` + trygNum + `)\s+(` + trygNum + `)\s+(` + trygNum + `)`)
)

// extractTableFields pulls coverage, sum, deductible and premium from the
// "Dekning Vilkår Forsikringssum Egenandel Pris" table. OCR mangles this
// table in several distinct ways, so the strategies run strictest first:
//
//  1. full row after the table header, on whitespace-flattened text
//  2. full row anywhere in the flattened section
//  3. full row starting from the first coverage word
//  4. label-above-value columns (the table rotated by the OCR pass)
//  5. first coverage word plus the first run of three numbers
//
// The first strategy producing a sum and a deductible wins.
func extractTableFields(section string) map[string]string {
	// Rejoin thousands groups the OCR broke across lines before
	// flattening whitespace.
	flat := trygFlatJoin.ReplaceAllString(section, "$1 $2")
	flat = textnorm.CollapseSpaces(flat)

	if head := trygTableHead.FindStringIndex(flat); head != nil {
		if got := trygRowFields(flat[head[1]:]); got != nil {
			return got
		}
	}
	if got := trygRowFields(flat); got != nil {
		return got
	}
	if first := trygCoverFirst.FindStringIndex(flat); first != nil {
		if got := trygRowFields(flat[first[0]:]); got != nil {
			return got
		}
	}
	if m := trygLabelCols.FindStringSubmatch(section); m != nil {
		got := map[string]string{
			"sum_insured": textnorm.Amount(m[1]),
			"deductible":  textnorm.Amount(m[2]),
			"premium":     textnorm.Amount(m[3]),
		}
		if c := trygCoverFirst.FindStringSubmatch(section); c != nil {
			got["coverage"] = c[1]
		}
		if got["sum_insured"] != "" && got["deductible"] != "" {
			return got
		}
	}
	if c := trygCoverFirst.FindStringSubmatchIndex(flat); c != nil {
		if n := trygFirstNums.FindStringSubmatch(flat[c[1]:]); n != nil {
			got := map[string]string{
				"coverage":    flat[c[2]:c[3]],
				"sum_insured": textnorm.Amount(n[1]),
				"deductible":  textnorm.Amount(n[2]),
				"premium":     textnorm.Amount(n[3]),
			}
			if got["sum_insured"] != "" && got["deductible"] != "" {
				return got
			}
		}
	}
	return nil
}

func trygRowFields(s string) map[string]string {
	m := trygTableRow.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	got := map[string]string{
		"coverage":    m[1],
		"sum_insured": textnorm.Amount(m[2]),
		"deductible":  textnorm.Amount(m[3]),
		"premium":     textnorm.Amount(m[4]),
	}
	if got["sum_insured"] == "" || got["deductible"] == "" {
		return nil
	}
	return got
}
