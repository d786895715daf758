package sheets

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eirikstav/fornyelse/internal/common"
	"github.com/eirikstav/fornyelse/internal/entity"
)

// Template cells with this fill color are section headlines and must
// never be overwritten.
var headlineFillColors = map[string]bool{
	"FF0BD7B5": true,
	"0BD7B5":   true,
}

// SheetResult describes what happened to one sheet during a fill.
type SheetResult struct {
	Sheet       string
	Status      string // ok, missing_in_template, failed
	FilledCells int
	Notes       []string
	Err         string
}

// SummaryResult describes where the free-text summary landed.
type SummaryResult struct {
	Status string // ok, fallback, skipped, failed
	Cell   string
	Err    string
}

// FillReport is the per-sheet outcome of a fill run. A failed sheet
// never aborts the others.
type FillReport struct {
	Sheets  []SheetResult
	Summary SummaryResult
}

// Filler writes cell maps into a renewal template workbook.
type Filler struct {
	logger *slog.Logger
}

func NewFiller(logger *slog.Logger) *Filler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filler{logger: logger}
}

// Fill opens the template, runs every registered transform against the
// document, writes the resulting cells and returns the workbook bytes
// plus a report. Sheet failures are contained: the report records them
// and the remaining sheets still fill.
func (fl *Filler) Fill(template []byte, doc entity.Document, registry *Registry, summary string) ([]byte, *FillReport, error) {
	start := time.Now()

	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, nil, common.NewAppError("TEMPLATE_ERROR", "open template workbook", err)
	}
	defer func() {
		_ = f.Close()
	}()

	report := &FillReport{Summary: SummaryResult{Status: "skipped"}}

	for _, sheet := range registry.Sheets() {
		result := SheetResult{Sheet: sheet, Status: "ok"}

		if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
			result.Status = "missing_in_template"
			fl.logger.Warn("sheets.fill.missing_sheet", "sheet", sheet)
			report.Sheets = append(report.Sheets, result)
			continue
		}

		cells, notes, err := fl.runTransform(registry, sheet, doc)
		result.Notes = notes
		if err != nil {
			result.Status = "failed"
			result.Err = err.Error()
			fl.logger.Error("sheets.fill.sheet_failed", "sheet", sheet, "error", err)
			report.Sheets = append(report.Sheets, result)
			continue
		}

		result.FilledCells = fl.writeCells(f, sheet, cells)
		report.Sheets = append(report.Sheets, result)
	}

	if summary != "" {
		report.Summary = fl.placeSummary(f, summary)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, report, common.NewAppError("XLSX_WRITE_ERROR", "xlsx write", err)
	}

	fl.logger.Info("sheets.fill.ok",
		"sheets", len(report.Sheets),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), report, nil
}

// runTransform isolates transform panics so one sheet cannot take down
// the whole fill.
func (fl *Filler) runTransform(registry *Registry, sheet string, doc entity.Document) (cells entity.CellMap, notes []string, err error) {
	transform, ok := registry.Lookup(sheet)
	if !ok {
		return entity.NewCellMap(), nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panic: %v", r)
		}
	}()
	cells, notes = transform(doc)
	return cells, notes, nil
}

func (fl *Filler) writeCells(f *excelize.File, sheet string, cells entity.CellMap) int {
	filled := 0
	for ref, value := range cells.Values {
		if len(ref) < 2 {
			continue
		}
		if fl.isHeadlineCell(f, sheet, ref) {
			continue
		}
		if err := f.SetCellValue(sheet, ref, value); err != nil {
			fl.logger.Warn("sheets.fill.cell_error", "sheet", sheet, "cell", ref, "error", err)
			continue
		}
		if style, ok := cells.Styles[ref]; ok {
			fl.applyStyle(f, sheet, ref, style)
		}
		filled++
	}
	return filled
}

func (fl *Filler) isHeadlineCell(f *excelize.File, sheet, ref string) bool {
	styleID, err := f.GetCellStyle(sheet, ref)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	for _, color := range style.Fill.Color {
		if headlineFillColors[strings.ToUpper(color)] {
			return true
		}
	}
	return false
}

// applyStyle layers the hint on top of the cell's template style so
// borders and fills survive.
func (fl *Filler) applyStyle(f *excelize.File, sheet, ref string, hint entity.CellStyle) {
	baseID, _ := f.GetCellStyle(sheet, ref)
	style := &excelize.Style{}
	if base, err := f.GetStyle(baseID); err == nil && base != nil {
		*style = *base
	}

	if hint.FontColor != "" || hint.FontBold {
		font := excelize.Font{}
		if style.Font != nil {
			font = *style.Font
		}
		if hint.FontColor != "" {
			font.Color = strings.TrimPrefix(hint.FontColor, "#")
		}
		if hint.FontBold {
			font.Bold = true
		}
		style.Font = &font
	}
	if hint.NumberFormat != "" {
		style.CustomNumFmt = &hint.NumberFormat
	}
	if hint.AlignHorizontal != "" {
		align := excelize.Alignment{}
		if style.Alignment != nil {
			align = *style.Alignment
		}
		align.Horizontal = hint.AlignHorizontal
		style.Alignment = &align
	}

	styleID, err := f.NewStyle(style)
	if err != nil {
		fl.logger.Warn("sheets.fill.style_error", "sheet", sheet, "cell", ref, "error", err)
		return
	}
	_ = f.SetCellStyle(sheet, ref, ref, styleID)
}

// placeSummary writes the free-text summary into the first sheet's
// "skriv her" placeholder, falling back to A46 when the placeholder is
// gone.
func (fl *Filler) placeSummary(f *excelize.File, summary string) SummaryResult {
	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return SummaryResult{Status: "failed", Err: "workbook has no sheets"}
	}
	first := sheetList[0]

	rows, err := f.GetRows(first)
	if err != nil {
		return SummaryResult{Status: "failed", Err: err.Error()}
	}

	target := ""
	for ri, row := range rows {
		for ci, value := range row {
			if strings.Contains(strings.ToLower(value), "skriv her") {
				target, _ = excelize.CoordinatesToCellName(ci+1, ri+1)
				break
			}
		}
		if target != "" {
			break
		}
	}

	status := "ok"
	if target == "" {
		target = "A46"
		status = "fallback"
	}

	if err := f.SetCellValue(first, target, summary); err != nil {
		return SummaryResult{Status: "failed", Err: err.Error()}
	}
	wrapID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err == nil {
		_ = f.SetCellStyle(first, target, target, wrapID)
	}

	fl.logger.Info("sheets.summary.placed", "cell", target, "status", status)
	return SummaryResult{Status: status, Cell: target}
}
