// Package vehicles coordinates the per-insurer extractors and lays the
// combined fleet out on the Fordon sheet's fixed row bands.
package vehicles

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/extract"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

// Categorized groups the merged fleet by sheet category.
type Categorized map[constants.VehicleCategory][]entity.VehicleRecord

// Overflow records vehicles that did not fit their category's row band.
type Overflow struct {
	Category constants.VehicleCategory
	Band     entity.RowBand
	Dropped  int
}

// Pipeline runs every registered extractor over a document and merges
// their output. Extractor order matters: on duplicate plates the first
// extractor's record wins, and the earlier extractors produce the more
// complete records for their own document formats.
type Pipeline struct {
	logger     *slog.Logger
	extractors []extract.Extractor
	ly         extract.Extractor
}

func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	ly := extract.NewLy(logger)
	return &Pipeline{
		logger: logger,
		extractors: []extract.Extractor{
			extract.NewIfSkade(logger),
			extract.NewGjensidige(logger),
			extract.NewTryg(logger),
			ly,
		},
		ly: ly,
	}
}

var lyDocumentMarkers = []string{
	"firmabil flate",
	"tilhenger flate",
	"registreringsnummer ureg",
	"kjoretoy som inngar i gruppen",
}

// looksLikeLy reports whether the document is clearly a Ly fleet letter.
// Ly group tables trip the broader extractors' fallback patterns, so a
// confident Ly match short-circuits everything else.
func looksLikeLy(text string) bool {
	normalized := textnorm.Normalize(text)
	if !strings.Contains(normalized, "ly forsikring") {
		return false
	}
	for _, marker := range lyDocumentMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// Extract merges all extractor output for one document, deduplicates on
// registration (plus label for unregistered machinery) and groups by
// category. A panic in one extractor is contained and only that
// extractor's contribution is lost.
func (p *Pipeline) Extract(doc entity.Document) Categorized {
	if doc.Text == "" {
		p.logger.Warn("vehicles.extract.empty_document")
		return Categorized{}
	}

	provider, _ := constants.CanonicalizeProvider(doc.Provider)

	var all []entity.VehicleRecord
	switch {
	case provider != "" && provider != constants.ProviderAuto:
		all = p.runOne(provider, doc.Text)
	case looksLikeLy(doc.Text):
		all = p.runExtractor(p.ly, doc.Text)
		if len(all) == 0 {
			all = p.runAll(doc.Text)
		}
	default:
		all = p.runAll(doc.Text)
	}

	unique := make(map[string]bool, len(all))
	categorized := Categorized{}
	for _, rec := range all {
		key := rec.DedupKey()
		if unique[key] {
			continue
		}
		unique[key] = true
		cat := rec.Category()
		categorized[cat] = append(categorized[cat], rec)
	}

	total := 0
	for _, recs := range categorized {
		total += len(recs)
	}
	p.logger.Info("vehicles.extract.done",
		"provider", string(provider), "raw", len(all), "vehicles", total)
	return categorized
}

func (p *Pipeline) runOne(provider constants.Provider, text string) []entity.VehicleRecord {
	for _, ex := range p.extractors {
		if ex.Name() == provider {
			return p.runExtractor(ex, text)
		}
	}
	p.logger.Warn("vehicles.extract.unknown_provider", "provider", string(provider))
	return nil
}

func (p *Pipeline) runAll(text string) []entity.VehicleRecord {
	var all []entity.VehicleRecord
	for _, ex := range p.extractors {
		all = append(all, p.runExtractor(ex, text)...)
	}
	return all
}

func (p *Pipeline) runExtractor(ex extract.Extractor, text string) (records []entity.VehicleRecord) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("vehicles.extractor.panic",
				"extractor", string(ex.Name()), "panic", r)
			records = nil
		}
	}()
	records = ex.Extract(text)
	if len(records) > 0 {
		p.logger.Debug("vehicles.extractor.hit",
			"extractor", string(ex.Name()), "vehicles", len(records))
	}
	return records
}

// Transform extracts the fleet and projects it onto sheet cells. The
// returned overflows name each category whose band was too small; those
// vehicles are dropped from the map but never silently.
func (p *Pipeline) Transform(doc entity.Document) (entity.CellMap, []Overflow) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	categorized := p.Extract(doc)
	cells := entity.NewCellMap()
	var overflows []Overflow

	mapped := 0
	for _, cat := range constants.Categories {
		records := categorized[cat]
		if len(records) == 0 {
			continue
		}
		band := entity.VehicleRows[cat]

		if excess := len(records) - band.Capacity(); excess > 0 {
			overflows = append(overflows, Overflow{Category: cat, Band: band, Dropped: excess})
			logger.Warn("vehicles.band.overflow",
				"category", string(cat), "band", band.DisplayName,
				"capacity", band.Capacity(), "dropped", excess)
			records = records[:band.Capacity()]
		}

		for i, rec := range records {
			row := band.Start + i
			writeVehicleRow(cells, rec, row)
			mapped++
		}
	}

	logger.Info("vehicles.transform.done", "mapped", mapped, "cells", len(cells.Values))
	return cells, overflows
}

func writeVehicleRow(cells entity.CellMap, rec entity.VehicleRecord, row int) {
	for _, col := range entity.VehicleColumns {
		ref := entity.CellRef(col.Column, row)

		// Column D prefers the sum insured; a premium standing in for it
		// is flagged with the premium font color.
		if col.Field == "sum_insured" {
			switch {
			case rec.SumInsured != "":
				setNumeric(cells, ref, rec.SumInsured, entity.NumericCellStyle())
			case rec.Premium != "":
				style := entity.NumericCellStyle()
				style.FontColor = entity.PremiumFontColor
				setNumeric(cells, ref, rec.Premium, style)
			default:
				cells.Set(ref, "")
			}
			continue
		}

		value := vehicleField(rec, col.Field)
		if col.Field == "annual_mileage" || col.Field == "deductible" {
			if n, ok := excelNumber(value); ok {
				cells.SetStyled(ref, n, entity.NumericCellStyle())
				continue
			}
		}
		cells.Set(ref, value)
	}
}

func setNumeric(cells entity.CellMap, ref, value string, style entity.CellStyle) {
	if n, ok := excelNumber(value); ok {
		cells.SetStyled(ref, n, style)
		return
	}
	cells.SetStyled(ref, value, style)
}

func vehicleField(rec entity.VehicleRecord, field string) string {
	switch field {
	case "registration":
		return rec.Registration
	case "make_model_year":
		return rec.MakeModelYear
	case "coverage":
		return rec.Coverage
	case "leasing":
		return rec.Leasing
	case "annual_mileage":
		return rec.AnnualMileage
	case "bonus":
		return rec.Bonus
	case "deductible":
		return rec.Deductible
	case "sum_insured":
		return rec.SumInsured
	case "premium":
		return rec.Premium
	default:
		return ""
	}
}

var plainNumber = regexp.MustCompile(`^[0-9][0-9\s.,]*$`)

// excelNumber converts a plain numeric string to an int so spreadsheet
// formulas can consume it. Mixed values ("3 000/6 000", "70%",
// "20 000 km") stay text.
func excelNumber(value string) (int, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(value, " ", " "))
	if raw == "" || strings.ContainsAny(raw, "/%") {
		return 0, false
	}
	if !plainNumber.MatchString(raw) {
		return 0, false
	}
	digits := textnorm.Digits(raw)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
