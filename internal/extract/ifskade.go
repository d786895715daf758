package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// IfSkade handles If Skadeforsikring documents. These restate every
// vehicle three times; only the detail section carries
// "Registreringsnummer: PR59518" followed by Årsmodell, Kjørelengde and
// Egenandel lines, so that label is the anchor and the overview and
// trafikkavgift restatements never produce records.
type IfSkade struct {
	logger *slog.Logger
}

func NewIfSkade(logger *slog.Logger) *IfSkade {
	if logger == nil {
		logger = slog.Default()
	}
	return &IfSkade{logger: logger}
}

func (e *IfSkade) Name() constants.Provider { return constants.ProviderIf }

func (e *IfSkade) Matches(text string) bool {
	n := textnorm.Normalize(text)
	return strings.Contains(n, "if skadeforsikring") || strings.Contains(n, "if.no")
}

var (
	ifAnchor = regexp.MustCompile(`Registreringsnummer:\s*([A-Z]{2}\d{5})`)
	// "PR59518, Varebil, TOYOTA ..." line just above the anchor
	ifTypeWords  = `Varebil|Personbil|Lastebil|Moped|Traktor|B(?:\x{00e5}|a)t|Tilhenger`
	ifYear       = regexp.MustCompile(`(?:\x{00c5}|A)rsmodell:\s*(\d{4})`)
	ifMileage    = regexp.MustCompile(`Kj(?:\x{00f8}|o)relengde:\s*([\d\s]+?)\s*km`)
	ifDeductible = regexp.MustCompile(`Egenandel\s*-\s*Skader p(?:\x{00e5}|a) eget kj(?:\x{00f8}|o)ret(?:\x{00f8}|o)y:\s*([\d\s]+?)\s*kr`)
	ifLeasingRef = regexp.MustCompile(`(?i)Tredjemannsinteresse/leasing`)

	ifTypeMap = map[string]constants.VehicleCategory{
		"varebil":   constants.CategoryCar,
		"personbil": constants.CategoryCar,
		"lastebil":  constants.CategoryCar,
		"tilhenger": constants.CategoryTrailer,
		"moped":     constants.CategoryMoped,
		"traktor":   constants.CategoryTractor,
		"bat":       constants.CategoryBoat,
	}
)

func (e *IfSkade) Extract(text string) []entity.VehicleRecord {
	if text == "" || !e.Matches(text) {
		return nil
	}

	var records []entity.VehicleRecord
	seen := make(map[string]bool)

	for _, idx := range ifAnchor.FindAllStringSubmatchIndex(text, -1) {
		reg := text[idx[2]:idx[3]]
		if seen[reg] {
			continue
		}
		seen[reg] = true

		// The "REG, Varebil, MAKE" line sits shortly before the anchor;
		// the labeled fields follow it.
		section := window(text, idx[0], 200, idx[1]-idx[0]+600)
		after := window(text, idx[1], 0, 600)

		makeRe := regexp.MustCompile(regexp.QuoteMeta(reg) +
			`\s*,\s*(` + ifTypeWords + `)\s*,\s*([A-Za-z\x{00c6}\x{00d8}\x{00c5}\x{00e6}\x{00f8}\x{00e5}\s\-\.]+?)(?:\s+Pris|\s+\d|\s*\n)`)
		m := makeRe.FindStringSubmatch(section)
		if m == nil {
			continue
		}

		vtype := constants.CategoryCar
		if mapped, ok := ifTypeMap[textnorm.Key(m[1])]; ok {
			vtype = mapped
		}

		year := ""
		if ym := ifYear.FindStringSubmatch(after); ym != nil {
			year = ym[1]
		}

		records = append(records, entity.VehicleRecord{
			Registration:  reg,
			VehicleType:   string(vtype),
			MakeModelYear: textnorm.CollapseSpaces(strings.TrimSpace(m[2]) + " " + year),
			Coverage:      "kasko",
			Leasing:       e.extractLeasing(after),
			AnnualMileage: firstAmount(ifMileage, after),
			Deductible:    firstAmount(ifDeductible, after),
		})
	}

	e.logger.Debug("ifskade.extract", "vehicles", len(records))
	return records
}

func firstAmount(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return textnorm.Amount(m[1])
	}
	return ""
}

// extractLeasing reports the financing company named after the anchor,
// or the generic "Leasing" marker when only the third-party-interest
// line is present.
func (e *IfSkade) extractLeasing(after string) string {
	if c := leasingIn(after); c != "" {
		return c
	}
	if ifLeasingRef.MatchString(after) {
		return "Leasing"
	}
	return ""
}
