package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// Gjensidige documents list registered vehicles as free-text lines
// ("VOLKSWAGEN TRANSPORTER 2020 BU 21895", often with the leasing bank on
// the following line) and unregistered machinery as dash-separated
// summary lines ("Uregistrert traktor og arb.maskin - Hitachi 300 -
// 28 346 Uregistrert"). OCR may swap ø/å for 0/@ in "maskinløsøre".
type Gjensidige struct {
	logger *slog.Logger
}

func NewGjensidige(logger *slog.Logger) *Gjensidige {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gjensidige{logger: logger}
}

func (g *Gjensidige) Name() constants.Provider { return constants.ProviderGjensidige }

// Matches requires the insurer name itself; the bare plate-token
// fallback below is far too generic to run on foreign documents.
func (g *Gjensidige) Matches(text string) bool {
	return strings.Contains(textnorm.Normalize(text), "gjensidige")
}

var (
	gjenBrandAlt = joinQuoted(constants.CarBrands)
	// BRAND MODEL YEAR REG, digits possibly spaced by OCR
	gjenCarLine = regexp.MustCompile(`(?i)(` + gjenBrandAlt + `)\s+([A-Za-z0-9\s\-().]+?)\s+(20\d{2})\s+(` + regTokenPattern + `)`)
	// bare plate tokens for the table format fallback
	gjenRegToken = regexp.MustCompile(`(?i)\b(` + regTokenPattern + `)\b`)
	// labels that legitimize a bare plate token
	gjenRegLabel = regexp.MustCompile(`(?i)\b(kjennemerke|reg\.?\s*nr|regnr|registreringsnummer)\b`)
	gjenYear     = regexp.MustCompile(`\b(20\d{2})\b`)
	// model text runs into boilerplate labels; stop there
	gjenModelTrail = regexp.MustCompile(`(?i)\s+(Reg\.(?:å|a)r|TFA|(?:Å|A)rspremie).*$`)

	gjenMachineAlt = joinQuoted(constants.MachineBrands)
	gjenTractor    = regexp.MustCompile(`(?i)[u]registrert\s+traktor\s+og\s+arb\.?maskin\s*-\s*(` + gjenMachineAlt + `)\s+([\w\s]+?)\s*(?:(20\d{2})\s*)?-`)
	// maskinløsøre with every observed OCR mangling of ø
	gjenMaskinlosore = regexp.MustCompile(`(?i)maskinl(?:\x{00f8}|o|0|@)s(?:\x{00f8}|o|0|@)re`)
)

func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = regexp.QuoteMeta(it)
	}
	return strings.Join(quoted, "|")
}

func (g *Gjensidige) Extract(text string) []entity.VehicleRecord {
	if text == "" || !g.Matches(text) {
		return nil
	}

	seen := make(map[string]bool)
	records := g.extractRegisteredCars(text, seen)
	records = append(records, g.extractMachinery(text, seen)...)

	g.logger.Debug("gjensidige.extract", "vehicles", len(records))
	return records
}

func (g *Gjensidige) extractRegisteredCars(text string, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord

	// Format 1: full free-text line with brand, model, year and plate.
	for _, idx := range gjenCarLine.FindAllStringSubmatchIndex(text, -1) {
		match := func(n int) string { return text[idx[2*n]:idx[2*n+1]] }
		make_ := strings.TrimSpace(match(1))
		model := strings.TrimSpace(match(2))
		year := match(3)
		reg := normalizeReg(match(4))

		if seen[reg] {
			continue
		}
		seen[reg] = true

		section := window(text, idx[0], 200, 500)
		records = append(records, entity.VehicleRecord{
			Registration:  reg,
			VehicleType:   string(constants.CategoryCar),
			MakeModelYear: textnorm.CollapseSpaces(make_ + " " + model + " " + year),
			Coverage:      "kasko",
			Leasing:       g.extractLeasing(section, text, idx[0]),
			Bonus:         extractBonus(text, reg),
		})
	}

	// Format 2: bare plate tokens from table rows. Only accepted when a
	// brand appears in the surrounding window or a registration label
	// sits right next to the token.
	for _, idx := range gjenRegToken.FindAllStringSubmatchIndex(text, -1) {
		raw := text[idx[2]:idx[3]]
		reg := normalizeReg(raw)

		// OCR turns "KW 2022" style year tokens into plate shapes.
		if yearShapedReg(reg) {
			continue
		}
		if seen[reg] {
			continue
		}

		win := window(text, idx[0], 500, 500)
		context := window(text, idx[0], 120, 120)

		foundBrand, foundModel := findBrandModel(win)
		foundYear := ""
		if m := gjenYear.FindStringSubmatch(win); m != nil {
			foundYear = m[1]
		}

		if foundBrand == "" && !gjenRegLabel.MatchString(context) {
			continue
		}
		seen[reg] = true

		records = append(records, entity.VehicleRecord{
			Registration:  reg,
			VehicleType:   string(constants.CategoryCar),
			MakeModelYear: textnorm.CollapseSpaces(foundBrand + " " + foundModel + " " + foundYear),
			Coverage:      "kasko",
			Leasing:       g.extractLeasing(win, text, idx[0]),
			Bonus:         extractBonus(text, reg),
		})
	}

	return records
}

// findBrandModel locates a known make in the window and the model text
// that follows it, stopping at a year, a newline or trailing boilerplate.
func findBrandModel(win string) (brand, model string) {
	for _, b := range constants.CarBrands {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(b) + `\b`)
		if !re.MatchString(win) {
			continue
		}
		brand = b
		modelRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(b) + `\b\s+([A-Za-z0-9\s\-().]+?)(?:\s+20\d{2}|\s*\n|$)`)
		if m := modelRe.FindStringSubmatch(win); m != nil {
			model = strings.TrimSpace(gjenModelTrail.ReplaceAllString(m[1], ""))
		}
		return brand, model
	}
	return "", ""
}

func (g *Gjensidige) extractMachinery(text string, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord

	// "Uregistrert traktor og arb.maskin - BRAND MODEL [YEAR] - PRICE Uregistrert"
	for _, idx := range gjenTractor.FindAllStringSubmatchIndex(text, -1) {
		match := func(n int) string {
			if idx[2*n] < 0 {
				return ""
			}
			return text[idx[2*n]:idx[2*n+1]]
		}
		brand := strings.TrimSpace(match(1))
		model := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(match(2)), "-"))
		year := match(3)

		label := textnorm.CollapseSpaces(brand + " " + model + " " + year)
		rec := entity.VehicleRecord{
			Registration:  constants.Unregistered,
			VehicleType:   string(constants.CategoryTractor),
			MakeModelYear: label,
			Coverage:      "kasko",
			SumInsured:    textnorm.Amount(machineryPrice(text, idx[1])),
		}
		if seen[rec.DedupKey()] {
			continue
		}
		seen[rec.DedupKey()] = true
		records = append(records, rec)
	}

	// "Maskinløsøre - MASKINLØSØRE 2024 - 62 324 Uregistrert" and the
	// OCR-mangled spellings. One catch-all record in the other bucket.
	for _, idx := range gjenMaskinlosore.FindAllStringIndex(text, -1) {
		win := window(text, idx[0], 150, 150)
		year := ""
		if m := gjenYear.FindStringSubmatch(win); m != nil {
			year = m[1]
		}

		rec := entity.VehicleRecord{
			Registration:  constants.Unregistered,
			VehicleType:   string(constants.CategoryOther),
			MakeModelYear: textnorm.CollapseSpaces("MASKINLØSØRE " + year),
			Coverage:      "kasko",
			SumInsured:    textnorm.Amount(machineryPrice(text, idx[1])),
		}
		if seen[rec.DedupKey()] {
			continue
		}
		seen[rec.DedupKey()] = true
		records = append(records, rec)
	}

	return records
}

var gjenMachinePrice = regexp.MustCompile(`(\d{1,3}(?:[ .]\d{3})+|\d{3,7})\s+[Uu]registrert`)

// machineryPrice pulls the "- 28 346 Uregistrert" amount that trails a
// machinery entry. Year tokens are kept out by the amount normalizer.
func machineryPrice(text string, from int) string {
	tail := window(text, from, 0, 200)
	if m := gjenMachinePrice.FindStringSubmatch(tail); m != nil {
		return m[1]
	}
	return ""
}

// extractLeasing looks for a financing company near the vehicle, then
// anywhere between the plate and the next company mention.
func (g *Gjensidige) extractLeasing(section, fullText string, pos int) string {
	if c := leasingIn(section); c != "" {
		return c
	}
	return leasingIn(fullText[pos:])
}

func leasingIn(s string) string {
	lowered := strings.ToLower(s)
	best := ""
	bestIdx := -1
	for _, company := range constants.LeasingCompanies {
		if i := strings.Index(lowered, strings.ToLower(company)); i >= 0 {
			if bestIdx < 0 || i < bestIdx {
				best, bestIdx = company, i
			}
		}
	}
	return best
}

// extractBonus finds "REG: NN% bonus" anywhere in the document.
func extractBonus(fullText, reg string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(reg) + `:\s*(\d+)%\s*bonus`)
	if m := re.FindStringSubmatch(fullText); m != nil {
		return m[1] + "%"
	}
	return ""
}
