package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// Ly renewal letters come in two shapes: fleet group tables ("Kjøretøy
// som inngår i gruppen" for cars, "Tilhengere som inngår i gruppen" for
// trailers) where per-vehicle rows carry only plate, model, year and
// premium, and unregistered machinery blocks anchored by
// "Registreringsnummer UREG". Coverage, deductible and mileage live in
// the group preamble and are inherited by every row of the group.
type Ly struct {
	logger *slog.Logger
}

func NewLy(logger *slog.Logger) *Ly {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ly{logger: logger}
}

func (l *Ly) Name() constants.Provider { return constants.ProviderLy }

var lyMarkers = []string{
	"ly forsikring",
	"firmabil flate",
	"tilhenger flate",
	"registreringsnummer ureg",
}

func (l *Ly) Matches(text string) bool {
	normalized := textnorm.Normalize(text)
	for _, marker := range lyMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

var (
	// Plate, model, year, one or two dd.mm.yyyy dates, then two amount
	// columns. The second date is absent on some revisions.
	lyTableRow = regexp.MustCompile(`^([A-Z]{2}\s?\d{4,5})\s+(.+?)\s+(19\d{2}|20\d{2})\s+\d{2}\.\d{2}\.\d{4}(?:\s+\d{2}\.\d{2}\.\d{4})?\s+([0-9][0-9\s.,]{0,15})\s+([0-9][0-9\s.,]{0,15})$`)

	lyCarGroupStart     = regexp.MustCompile(`(?i)Gruppenavn\s+Firmabiler`)
	lyCarGroupEnd       = regexp.MustCompile(`(?i)Kj[øo]ret[øo]y\s+som\s+inng[åa]r\s+i\s+gruppen`)
	lyTrailerGroupStart = regexp.MustCompile(`(?i)Gruppenavn\s+Tilhengere`)
	lyTrailerGroupEnd   = regexp.MustCompile(`(?i)Tilhengere\s+som\s+inng[åa]r\s+i\s+gruppen`)

	lyKasko       = regexp.MustCompile(`(?i)\bKasko\s+([0-9][0-9\s.,]*)`)
	lyMileage     = regexp.MustCompile(`(?i)Avtalt\s+kj[øo]relengde\s+([0-9][0-9\s.,]*)`)
	lySelected    = regexp.MustCompile(`(?is)Kundevalgte\s+tilleggsdekninger\s+som\s+er\s+valgt(.{0,700})`)
	lyLeasingCode = regexp.MustCompile(`(?i)M01\s+Leasingavtale`)

	lyUregAnchor  = regexp.MustCompile(`(?i)Registreringsnummer\s+UREG`)
	lyMachModel   = regexp.MustCompile(`(?i)Merke\s*/\s*modell\s*([^\n\r]*)`)
	lyMachYear    = regexp.MustCompile(`(?i)[ÅA]rsmodell\s+(19\d{2}|20\d{2})`)
	lyMachType    = regexp.MustCompile(`(?i)Maskintype\s+([^\n\r]+)`)
	lyMarketValue = regexp.MustCompile(`(?i)Markedsverdi\s+([0-9][0-9\s.,]*)`)
	lyPeriodPrice = regexp.MustCompile(`(?i)Pris\s+for\s+forsikringsperioden\s+([0-9][0-9\s.,]*)`)
)

// lyGroupDefaults is what a group preamble contributes to each of its
// table rows.
type lyGroupDefaults struct {
	Coverage      string
	Deductible    string
	AnnualMileage string
	Leasing       string
}

func (l *Ly) Extract(text string) []entity.VehicleRecord {
	if text == "" || !l.Matches(text) {
		return nil
	}

	seen := make(map[string]bool)
	defaults := l.extractGroupDefaults(text)

	records := l.extractGroupTables(text, defaults, seen)
	machines := l.extractUnregisteredMachines(text, seen)
	records = append(records, machines...)

	l.logger.Debug("ly.extract", "grouped", len(records)-len(machines), "machines", len(machines))
	return records
}

func (l *Ly) extractGroupDefaults(text string) map[constants.VehicleCategory]lyGroupDefaults {
	carSection := sectionBetween(text, lyCarGroupStart, lyCarGroupEnd)
	trailerSection := sectionBetween(text, lyTrailerGroupStart, lyTrailerGroupEnd)

	return map[constants.VehicleCategory]lyGroupDefaults{
		constants.CategoryCar:     lyDefaultsFrom(carSection, true),
		constants.CategoryTrailer: lyDefaultsFrom(trailerSection, false),
	}
}

func lyDefaultsFrom(section string, withMileage bool) lyGroupDefaults {
	d := lyGroupDefaults{Leasing: lySelectedLeasing(section)}
	if m := lyKasko.FindStringSubmatch(section); m != nil {
		if amt := textnorm.Amount(m[1]); amt != "" {
			d.Coverage = "kasko"
			d.Deductible = amt
		}
	}
	if withMileage {
		if m := lyMileage.FindStringSubmatch(section); m != nil {
			d.AnnualMileage = textnorm.Amount(m[1])
		}
	}
	return d
}

func (l *Ly) extractGroupTables(text string, defaults map[constants.VehicleCategory]lyGroupDefaults, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord
	var current constants.VehicleCategory

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		normalized := textnorm.Normalize(line)
		if strings.Contains(normalized, "kjoretoy som inngar i gruppen") {
			current = constants.CategoryCar
			continue
		}
		if strings.Contains(normalized, "tilhengere som inngar i gruppen") {
			current = constants.CategoryTrailer
			continue
		}
		if current != constants.CategoryCar && current != constants.CategoryTrailer {
			continue
		}

		m := lyTableRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		reg := normalizeReg(m[1])
		if seen[reg] {
			continue
		}
		seen[reg] = true

		d := defaults[current]
		coverage := d.Coverage
		if coverage == "" {
			coverage = "kasko"
		}

		records = append(records, entity.VehicleRecord{
			Registration:  reg,
			VehicleType:   string(current),
			MakeModelYear: strings.TrimSpace(textnorm.CollapseSpaces(m[2]) + " " + m[3]),
			Coverage:      coverage,
			Leasing:       d.Leasing,
			AnnualMileage: d.AnnualMileage,
			Deductible:    d.Deductible,
			Premium:       textnorm.Amount(m[4]),
		})
	}

	return records
}

func (l *Ly) extractUnregisteredMachines(text string, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord

	for _, loc := range lyUregAnchor.FindAllStringIndex(text, -1) {
		section := window(text, loc[0], 120, 2200)

		model := ""
		if m := lyMachModel.FindStringSubmatch(section); m != nil {
			model = textnorm.CollapseSpaces(m[1])
		}
		year := ""
		if m := lyMachYear.FindStringSubmatch(section); m != nil {
			year = m[1]
		}
		machineType := ""
		if m := lyMachType.FindStringSubmatch(section); m != nil {
			machineType = textnorm.CollapseSpaces(m[1])
		}
		if model == "" && machineType == "" {
			continue
		}

		displayBase := model
		if displayBase == "" {
			displayBase = machineType
		}
		displayName := strings.TrimSpace(displayBase + " " + year)

		key := strings.ToLower(constants.Unregistered + "_" + displayName)
		if seen[key] {
			continue
		}
		seen[key] = true

		vtype := string(constants.CategoryOther)
		if strings.Contains(textnorm.Normalize(machineType), "traktor") {
			vtype = string(constants.CategoryTractor)
		}

		rec := entity.VehicleRecord{
			Registration:  constants.Unregistered,
			VehicleType:   vtype,
			MakeModelYear: displayName,
			Leasing:       lySelectedLeasing(section),
		}
		if m := lyKasko.FindStringSubmatch(section); m != nil {
			if amt := textnorm.Amount(m[1]); amt != "" {
				rec.Coverage = "kasko"
				rec.Deductible = amt
			}
		}
		if m := lyMarketValue.FindStringSubmatch(section); m != nil {
			rec.SumInsured = textnorm.Amount(m[1])
		}
		if m := lyPeriodPrice.FindStringSubmatch(section); m != nil {
			rec.Premium = textnorm.Amount(m[1])
		}

		records = append(records, rec)
	}

	return records
}

// lySelectedLeasing reports the leasing marker only when the M01 code is
// listed under the customer-selected add-ons, not merely offered.
func lySelectedLeasing(section string) string {
	if section == "" {
		return ""
	}
	m := lySelected.FindStringSubmatch(section)
	if m == nil {
		return ""
	}
	if lyLeasingCode.MatchString(m[1]) {
		return "Leasingavtale"
	}
	return ""
}

// sectionBetween returns the text from the start match up to the end
// match, capped at 2500 chars when no end marker follows.
func sectionBetween(text string, start, end *regexp.Regexp) string {
	s := start.FindStringIndex(text)
	if s == nil {
		return ""
	}
	e := end.FindStringIndex(text[s[1]:])
	if e == nil {
		limit := s[0] + 2500
		if limit > len(text) {
			limit = len(text)
		}
		return text[s[0]:limit]
	}
	return text[s[0] : s[1]+e[0]]
}
