package liability

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// The amount shape shared by all liability patterns: a leading digit and
// at least four following amount characters, so bare years and small
// counters do not qualify.
const liabAmount = `[0-9][0-9\s.,]{3,}`
const liabSum = `[0-9]+\s*g|` + liabAmount

var (
	ifVirksomhet = []*regexp.Regexp{
		regexp.MustCompile(`(?i)virksomhet\s*[:\-]?\s*([^\r\n]+)`),
		regexp.MustCompile(`(?i)omsetning\s+forsikret\s+virksomhet\s*[:\-]?\s*virksomhet\s+([^\r\n]+)`),
	}
	ifVirksomhetTable = []*regexp.Regexp{
		regexp.MustCompile(`(?is)virksomhet\s+omsetning\s+(.+?)\s+` + liabAmount + `\s*kr`),
	}
	ifOmsetning = []*regexp.Regexp{
		regexp.MustCompile(`(?i)arsomsetning[^0-9]{0,40}(` + liabAmount + `)`),
		regexp.MustCompile(`(?i)omsetning\s+forsikret\s+virksomhet[^0-9]{0,60}(` + liabAmount + `)`),
	}
	ifBedrift = []*regexp.Regexp{
		regexp.MustCompile(`(?is)bedriftsansvar(?:.{0,220}?forsikringssum\s*:?\s*)(` + liabSum + `)`),
		regexp.MustCompile(`(?i)bedriftsansvar\s+([0-9]+\s*g)`),
	}
	ifProdukt = []*regexp.Regexp{
		regexp.MustCompile(`(?is)produktansvar(?:.{0,220}?forsikringssum\s*:?\s*)(` + liabSum + `)`),
		regexp.MustCompile(`(?i)produktansvar\s+([0-9]+\s*g)`),
	}
	ifEgenandel = []*regexp.Regexp{
		regexp.MustCompile(`(?i)egenandel\s+per\s+skade\s*[:\-]?\s*(` + liabAmount + `)`),
	}
	ifRettshjelp = []*regexp.Regexp{
		regexp.MustCompile(`(?i)rettshjelp[^0-9]{0,30}(` + liabAmount + `)`),
	}
	ifPris = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ansvarsforsikring\s+pris\s+per\s+ar\s+nok\s*(` + liabAmount + `)`),
		regexp.MustCompile(`(?i)ansvarsforsikring\s+(` + liabAmount + `)`),
	}
)

func extractIfEntry(raw, normalized string) Entry {
	var e Entry

	if m := firstMatch(ifVirksomhet, raw); m != nil {
		e.Virksomhet = cleanVirksomhet(m[1])
	}
	if e.Virksomhet == "" {
		if m := firstMatch(ifVirksomhetTable, normalized); m != nil {
			e.Virksomhet = cleanVirksomhet(m[1])
		}
	}
	if m := firstMatch(ifOmsetning, normalized); m != nil {
		e.AnnualTurnover = m[1]
	}

	// Sums and deductible come from the ansvarsforsikring section so the
	// property chapters' amounts stay out.
	section := normalized
	if start := strings.Index(normalized, "ansvarsforsikring"); start >= 0 {
		end := start + 7000
		if end > len(normalized) {
			end = len(normalized)
		}
		section = normalized[start:end]
	}

	if m := firstMatch(ifBedrift, section); m != nil {
		e.Bedriftsansvar = m[1]
	}
	if m := firstMatch(ifProdukt, section); m != nil {
		e.Produktansvar = m[1]
	}
	if m := firstMatch(ifEgenandel, section); m != nil {
		e.EgenandelAnsvar = m[1]
	}
	if m := firstMatch(ifRettshjelp, normalized); m != nil {
		e.RettshjelpSum = m[1]
	}
	if m := firstMatch(ifPris, normalized); m != nil {
		e.TilbudPris = m[1]
	}

	return e
}

var (
	gjenPris      = []*regexp.Regexp{regexp.MustCompile(`(?i)ansvarsforsikring\s+(` + liabAmount + `)`)}
	gjenOmsetning = []*regexp.Regexp{regexp.MustCompile(`(?i)sist\s+kjente\s+omsetning\s+(` + liabAmount + `)`)}
)

// Gjensidige letters state the liability price and turnover in the offer
// summary before the "Forsikringsbevis" part; the rest of the terms live
// in condition documents we never see.
func extractGjensidigeEntry(normalized string) Entry {
	var e Entry

	head := normalized
	if split := strings.Index(normalized, "forsikringsbevis"); split > 0 {
		head = normalized[:split]
	} else if len(head) > 9000 {
		head = head[:9000]
	}

	if m := firstMatch(gjenPris, head); m != nil {
		e.TilbudPris = m[1]
	}
	if m := firstMatch(gjenOmsetning, head); m != nil {
		e.AnnualTurnover = m[1]
	}

	return e
}

var (
	trygVirksomhet = []*regexp.Regexp{regexp.MustCompile(`(?i)virksomhet\s*[:\-]?\s*([^\r\n]+)`)}
	trygOmsetning  = []*regexp.Regexp{regexp.MustCompile(`(?i)driftsinntekter\s*kr\s*(` + liabAmount + `)`)}
	trygBedriftRow = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ansvar\s+for\s+virksomheten\s*\*?\s+(` + liabAmount + `)\s+(` + liabAmount + `)\s+(` + liabAmount + `)`),
	}
	trygRettshjelp = []*regexp.Regexp{regexp.MustCompile(`(?i)rettshjelp(?:\s+[a-z0-9]{4,})?\s+(` + liabAmount + `)`)}
	trygPrisAll    = regexp.MustCompile(`(?i)\bpris\s+(` + liabAmount + `)\b`)
)

func extractTrygEntry(raw, normalized string) Entry {
	var e Entry

	section := raw
	if start := strings.Index(normalized, "alminnelig ansvarsforsikring"); start >= 0 {
		// Offsets into the normalized text track the raw text closely
		// enough here; the section is generous on both ends.
		end := start + 8000
		if end > len(raw) {
			end = len(raw)
		}
		if start > len(raw) {
			start = 0
		}
		section = raw[start:end]
	} else if len(section) > 12000 {
		section = section[:12000]
	}

	if m := firstMatch(trygVirksomhet, section); m != nil {
		value := cleanLabel(m[1])
		lower := strings.ToLower(value)
		if lower != "virksomhet" && lower != "dekning" && lower != "vilkar" && lower != "vilkår" {
			e.Virksomhet = value
		}
	}
	if m := firstMatch(trygOmsetning, normalized); m != nil {
		e.AnnualTurnover = m[1]
	}
	if m := firstMatch(trygBedriftRow, section); m != nil {
		e.Bedriftsansvar = m[1]
		e.EgenandelAnsvar = m[2]
		e.TilbudPris = m[3]
	}
	if m := firstMatch(trygRettshjelp, section); m != nil {
		e.RettshjelpSum = m[1]
	}
	if e.TilbudPris == "" {
		if all := trygPrisAll.FindAllStringSubmatch(section, -1); len(all) > 0 {
			e.TilbudPris = all[len(all)-1][1]
		}
	}

	return e
}

var (
	lyVirksomhet = []*regexp.Regexp{regexp.MustCompile(`(?i)naeringskode\s+(.+?)\s+sist\s+kjente\s+omsetning`)}
	lyOmsetning  = []*regexp.Regexp{regexp.MustCompile(`(?i)sist\s+kjente\s+omsetning\s+(` + liabAmount + `)`)}
	lyBedriftRow = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bedriftsansvar\s+(` + liabSum + `)\s+(` + liabAmount + `)\s+(` + liabAmount + `)`),
	}
	lyProduktRow = []*regexp.Regexp{
		regexp.MustCompile(`(?i)produktansvar\s+(` + liabSum + `)\s+(` + liabAmount + `)\s+(` + liabAmount + `)`),
	}
	lyRettshjelp = []*regexp.Regexp{
		regexp.MustCompile(`(?is)kundevalgte\s+tilleggsdekninger\s+som\s+er\s+valgt.{0,400}?rettshjelp\s+(` + liabAmount + `)`),
	}
	lyPris = []*regexp.Regexp{regexp.MustCompile(`(?i)ansvarsforsikring\s+(` + liabAmount + `)`)}
)

func extractLyEntry(normalized string) Entry {
	var e Entry

	if m := firstMatch(lyVirksomhet, normalized); m != nil {
		e.Virksomhet = cleanLabel(m[1])
	}
	if m := firstMatch(lyOmsetning, normalized); m != nil {
		e.AnnualTurnover = m[1]
	}

	bedriftPrice := ""
	if m := firstMatch(lyBedriftRow, normalized); m != nil {
		e.Bedriftsansvar = m[1]
		e.EgenandelAnsvar = m[2]
		bedriftPrice = m[3]
	}
	produktPrice := ""
	if m := firstMatch(lyProduktRow, normalized); m != nil {
		e.Produktansvar = m[1]
		produktPrice = m[3]
	}
	if m := firstMatch(lyRettshjelp, normalized); m != nil {
		e.RettshjelpSum = m[1]
	}

	// Ly has no single liability price line in every revision; fall back
	// to the sum of the per-coverage prices.
	switch {
	case firstMatch(lyPris, normalized) != nil:
		e.TilbudPris = firstMatch(lyPris, normalized)[1]
	case bedriftPrice != "" && produktPrice != "":
		b, _ := strconv.Atoi(textnorm.Digits(bedriftPrice))
		p, _ := strconv.Atoi(textnorm.Digits(produktPrice))
		e.TilbudPris = strconv.Itoa(b + p)
	case bedriftPrice != "":
		e.TilbudPris = bedriftPrice
	}

	return e
}
