package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// Tryg documents have clean structure but present vehicles in several
// competing shapes: "Forsikringsbevis | Spesifikasjon" sections headed by
// "<product> - Vilkår PAUnnnnn", a detailed block keyed by "Kjennemerke",
// and a sparse overview table of product name + plate + price. Anchors
// are tried in that order; the specification section carries the most
// complete data and therefore claims each plate first.
type Tryg struct {
	logger *slog.Logger
}

func NewTryg(logger *slog.Logger) *Tryg {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tryg{logger: logger}
}

func (t *Tryg) Name() constants.Provider { return constants.ProviderTryg }

// Matches wants the company name or domain; bare "tryg" would also hit
// ordinary words like "trygghet" in other insurers' documents.
func (t *Tryg) Matches(text string) bool {
	n := textnorm.Normalize(text)
	return strings.Contains(n, "tryg forsikring") || strings.Contains(n, "tryg.no")
}

const trygProducts = `Motorvogn|Personbil|Varebil|Lastebil|Campingvogn og tilhenger|Tilhenger|Traktor|Moped|Motorsykkel|Snøscooter|Båt`

var (
	trygSpecHeader = regexp.MustCompile(`(?i)((?:` + trygProducts + `)[^\n]*?)\s*-\s*Vilk(?:år|ar|Ã¥r|\?r)\s+[A-Z]{2,4}\d+`)
	trygSpecEnd    = regexp.MustCompile(`(?i)(Forsikringsbevis\s*\|\s*Spesifikasjon|Avtalenummer|Side\s+\d+\s+av\s+\d+)`)

	trygKjennemerke = regexp.MustCompile(`(?i)Kjennemerke\s*\n\s*([A-Z]{2}\d{4,5})`)
	trygDetailMake  = regexp.MustCompile(`(?i)Fabrikat/(?:årsmodell|arsmodell|Ã¥rsmodell|\?rsmodell)\s*\n\s*([A-Za-zÆØÅæøå0-9\s\-]+?)(?:\n|Type:)`)
	trygDetailType  = regexp.MustCompile(`(?i)Type:\s*\n\s*([A-Za-zÆØÅæøå\s\-]+?)(?:\n|Forsikringssum)`)
	trygDetailSum   = regexp.MustCompile(`(?i)Forsikringssum\s+kr:\s*\n?\s*([\d\s]+)`)
	trygDetailTable = regexp.MustCompile(`Kasko\s*\n\s*PAU\d+\s*\n\s*([\d\s]+?)\s*\n\s*([\d\s]+?)\s*\n\s*(\d+)`)

	trygRegField  = regexp.MustCompile(`(?i)(?:Kjennemerke|Registreringsnummer)\s*[:\-]?\s*([A-Z]{2}\s?\d{4,5})`)
	trygMakeField = regexp.MustCompile(`(?i)Fabrikat[^\n]*(?:årsmodell|arsmodell|Ã¥rsmodell|\?rsmodell)\s*[:\-]?\s*([A-Za-zÆØÅæøå0-9\-\s]{3,80})`)
	trygTypeField = regexp.MustCompile(`(?i)Type\s*[:\-]?\s*([A-Za-zÆØÅæøå\s\-]+)`)
	trygSumField  = regexp.MustCompile(`(?i)Forsikringssum\s*(?:kr)?\s*[:\-]?\s*([\d\s]+)`)
	trygBareReg   = regexp.MustCompile(`\b([A-Z]{2}\s?\d{4,5})\b`)
	trygYear      = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

	trygOverview = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(Motorvogn|Personbil|Varebil|Lastebil)\s*\n\s*([A-Z]{2}\d{4,5})`),
		regexp.MustCompile(`(?i)(Campingvogn og tilhenger|Tilhenger)\s*\n\s*([A-Z]{2}\d{4,5})`),
		regexp.MustCompile(`(?i)(Motorsykkel|Moped|Snøscooter)\s*\n\s*([A-Z]{2}\d{4,5})`),
		regexp.MustCompile(`(?i)(Traktor|Arbeidsmaskiner?)\s*\n\s*([A-Z]{2}\d{4,5})`),
	}
	trygOverviewPrice = regexp.MustCompile(`\n\s*(\d{1,6})\s*\n`)

	trygBackupHeader = regexp.MustCompile(`(?i)(Motorvogn|Campingvogn og tilhenger|Tilhenger|Traktor|Moped|Motorsykkel|Snøscooter|Båt|Personbil|Varebil|Lastebil)\s*-\s*Vilk(?:år|ar|Ã¥r|\?r)\s+([A-Z]+\d+)`)
)

func (t *Tryg) Extract(text string) []entity.VehicleRecord {
	if text == "" || !t.Matches(text) {
		return nil
	}

	seen := make(map[string]bool)
	var records []entity.VehicleRecord

	specs := t.extractSpecificationFormat(text, seen)
	detailed := t.extractDetailedFormat(text, seen)
	overview := t.extractOverviewFormat(text, seen)
	backup := t.extractFromHeaders(text, seen)

	records = append(records, specs...)
	records = append(records, detailed...)
	records = append(records, overview...)
	records = append(records, backup...)

	t.logger.Debug("tryg.extract",
		"specification", len(specs), "detailed", len(detailed),
		"overview", len(overview), "headers", len(backup),
		"vehicles", len(records))
	return records
}

// extractSpecificationFormat walks the "<product> - Vilkår PAUnnnnn"
// section headers and parses each section's key/value lines and coverage
// table.
func (t *Tryg) extractSpecificationFormat(text string, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord

	headers := trygSpecHeader.FindAllStringSubmatchIndex(text, -1)
	for i, idx := range headers {
		start := idx[0]
		end := start + 8000
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		if end > len(text) {
			end = len(text)
		}
		section := text[start:end]
		header := text[idx[2]:idx[3]]

		// Stop at section boundaries so numbers from unrelated parts
		// cannot leak in. The first 200 chars are exempt because the
		// header itself may repeat the boundary phrase.
		if len(section) > 200 {
			if loc := trygSpecEnd.FindStringIndex(section[200:]); loc != nil {
				section = section[:200+loc[0]]
			}
		}

		kv := extractKeyValues(section)

		if kv["registration"] == "" {
			if m := trygRegField.FindStringSubmatch(section); m != nil {
				kv["registration"] = normalizeReg(m[1])
			}
		}
		if kv["make_model_year"] == "" {
			if m := trygMakeField.FindStringSubmatch(section); m != nil {
				kv["make_model_year"] = textnorm.CollapseSpaces(m[1])
			}
		}
		if kv["make_model_year"] == "" && kv["registration"] != "" {
			if mm := inlineMakeModel(section, kv["registration"]); mm != "" {
				kv["make_model_year"] = mm
			}
		}
		if kv["type"] == "" {
			if m := trygTypeField.FindStringSubmatch(section); m != nil {
				kv["type"] = textnorm.CollapseSpaces(m[1])
			}
		}
		if kv["sum_insured"] == "" {
			if m := trygSumField.FindStringSubmatch(section); m != nil {
				kv["sum_insured"] = textnorm.Amount(m[1])
			}
		}

		reg := kv["registration"]
		if reg == "" {
			if m := trygBareReg.FindStringSubmatch(section); m != nil {
				reg = normalizeReg(m[1])
			}
		}
		if reg == "" || yearShapedReg(reg) || seen[reg] {
			continue
		}
		seen[reg] = true

		// Table fields win for numeric/coverage values; limit the search
		// to the text near the plate to keep other vehicles' rows out.
		tableContext := section
		if anchor := regexp.MustCompile(`(?i)Kjennemerke\s*[:\-]?\s*` + regexp.QuoteMeta(reg)).FindStringIndex(section); anchor != nil {
			tableContext = window(section, anchor[0], 0, 1200)
		} else if pos := strings.Index(section, reg); pos >= 0 {
			tableContext = window(section, pos, 0, 1200)
		}
		for field, value := range extractTableFields(tableContext) {
			switch field {
			case "sum_insured", "deductible", "premium", "coverage":
				kv[field] = value
			default:
				if kv[field] == "" {
					kv[field] = value
				}
			}
		}

		vtype := kv["type"]
		if vtype == "" {
			vtype = header
		}

		records = append(records, entity.VehicleRecord{
			Registration:  reg,
			VehicleType:   string(constants.CategorizeType(vtype, reg)),
			MakeModelYear: kv["make_model_year"],
			Coverage:      kv["coverage"],
			Leasing:       kv["leasing"],
			AnnualMileage: kv["annual_mileage"],
			Bonus:         kv["bonus"],
			Deductible:    kv["deductible"],
			SumInsured:    kv["sum_insured"],
			Premium:       kv["premium"],
		})
	}

	return records
}

// inlineMakeModel recovers "REG TYSSE TYSSE 2013" style lines where the
// make/model/year follows the plate directly.
func inlineMakeModel(section, reg string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(reg) + `\s+([A-Za-zÆØÅæøå0-9\-\s]{3,60}?)\s+((?:19|20)\d{2})`)
	if m := re.FindStringSubmatch(section); m != nil {
		return textnorm.CollapseSpaces(m[1] + " " + m[2])
	}
	return ""
}

// extractDetailedFormat parses blocks where "Kjennemerke" sits on its own
// line with the plate below it.
func (t *Tryg) extractDetailedFormat(text string, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord

	for _, idx := range trygKjennemerke.FindAllStringSubmatchIndex(text, -1) {
		reg := normalizeReg(text[idx[2]:idx[3]])
		if seen[reg] {
			continue
		}
		seen[reg] = true

		section := window(text, idx[0], 500, idx[1]-idx[0]+800)

		rec := entity.VehicleRecord{Registration: reg}

		if m := trygDetailMake.FindStringSubmatch(section); m != nil {
			rec.MakeModelYear = textnorm.CollapseSpaces(m[1])
		}
		vtype := ""
		if m := trygDetailType.FindStringSubmatch(section); m != nil {
			vtype = textnorm.CollapseSpaces(m[1])
		}
		rec.VehicleType = string(constants.CategorizeType(vtype, reg))
		if m := trygDetailSum.FindStringSubmatch(section); m != nil {
			rec.SumInsured = textnorm.Amount(m[1])
		}
		if m := trygDetailTable.FindStringSubmatch(section); m != nil {
			rec.Coverage = "Kasko"
			rec.Deductible = textnorm.Amount(m[2])
			rec.Premium = textnorm.Amount(m[3])
		}

		records = append(records, rec)
	}

	return records
}

// extractOverviewFormat reads the sparse product-name + plate + price
// table. Less detail than the specification, so it only claims plates
// nothing else has seen.
func (t *Tryg) extractOverviewFormat(text string, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord

	for _, re := range trygOverview {
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			product := text[idx[2]:idx[3]]
			reg := normalizeReg(text[idx[4]:idx[5]])
			if seen[reg] {
				continue
			}
			seen[reg] = true

			premium := ""
			tail := window(text, idx[0], 0, idx[1]-idx[0]+200)
			if m := trygOverviewPrice.FindStringSubmatch(tail); m != nil {
				premium = textnorm.Amount(m[1])
			}

			records = append(records, entity.VehicleRecord{
				Registration: reg,
				VehicleType:  string(constants.CategorizeType(product, reg)),
				Premium:      premium,
			})
		}
	}

	return records
}

// extractFromHeaders is the last-resort anchor: a product header with a
// vilkår code, plate searched in the following window.
func (t *Tryg) extractFromHeaders(text string, seen map[string]bool) []entity.VehicleRecord {
	var records []entity.VehicleRecord

	for _, idx := range trygBackupHeader.FindAllStringSubmatchIndex(text, -1) {
		product := text[idx[2]:idx[3]]
		section := window(text, idx[1], 0, 1000)

		m := trygKjennemerke.FindStringSubmatch(section)
		var token string
		if m != nil {
			token = m[1]
		} else if bm := trygBareReg.FindStringSubmatch(section); bm != nil {
			token = bm[1]
		}
		if token == "" {
			continue
		}
		reg := normalizeReg(token)
		if yearShapedReg(reg) || seen[reg] {
			continue
		}
		seen[reg] = true

		records = append(records, entity.VehicleRecord{
			Registration: reg,
			VehicleType:  string(constants.CategorizeType(product, reg)),
		})
	}

	return records
}
