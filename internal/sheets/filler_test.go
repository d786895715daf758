package sheets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eirikstav/fornyelse/internal/entity"
)

const fillerDoc = `Gjensidige Forsikring ASA
VOLKSWAGEN TRANSPORTER 2020 BU 21895
`

func buildTemplate(t *testing.T, sheetNames ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheetNames[0]))
	for _, name := range sheetNames[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func allSheets(t *testing.T) []byte {
	return buildTemplate(t, SheetFordon, SheetLiability, SheetWorkers, SheetProject)
}

func TestFillWritesVehicleCells(t *testing.T) {
	fl := NewFiller(nil)
	registry := NewRegistry(nil)

	out, report, err := fl.Fill(allSheets(t), entity.Document{Text: fillerDoc}, registry, "")
	require.NoError(t, err)
	require.Len(t, report.Sheets, 4)
	for _, res := range report.Sheets {
		assert.Equal(t, "ok", res.Status, res.Sheet)
	}
	assert.Equal(t, "skipped", report.Summary.Status)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(SheetFordon, "B3")
	require.NoError(t, err)
	assert.Equal(t, "BU21895", got)
}

func TestFillMissingSheet(t *testing.T) {
	fl := NewFiller(nil)
	registry := NewRegistry(nil)

	_, report, err := fl.Fill(buildTemplate(t, SheetFordon), entity.Document{Text: fillerDoc}, registry, "")
	require.NoError(t, err)
	require.Len(t, report.Sheets, 4)

	byName := map[string]SheetResult{}
	for _, res := range report.Sheets {
		byName[res.Sheet] = res
	}
	assert.Equal(t, "ok", byName[SheetFordon].Status)
	assert.Equal(t, "missing_in_template", byName[SheetLiability].Status)
	assert.Equal(t, "missing_in_template", byName[SheetWorkers].Status)
	assert.Equal(t, "missing_in_template", byName[SheetProject].Status)
}

func TestFillTransformPanicIsContained(t *testing.T) {
	fl := NewFiller(nil)
	registry := &Registry{transforms: map[string]Transform{}}
	registry.register(SheetFordon, func(entity.Document) (entity.CellMap, []string) {
		panic("boom")
	})

	out, report, err := fl.Fill(buildTemplate(t, SheetFordon), entity.Document{Text: "x"}, registry, "")
	require.NoError(t, err, "a sheet failure never aborts the fill")
	require.Len(t, report.Sheets, 1)
	assert.Equal(t, "failed", report.Sheets[0].Status)
	assert.Contains(t, report.Sheets[0].Err, "transform panic")
	assert.NotEmpty(t, out)
}

func TestFillSummaryPlaceholder(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", SheetFordon))
	require.NoError(t, f.SetCellValue(SheetFordon, "A10", "Skriv her"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	fl := NewFiller(nil)
	registry := NewRegistry(nil)
	out, report, err := fl.Fill(buf.Bytes(), entity.Document{Text: "x"}, registry, "Alt ser greit ut.")
	require.NoError(t, err)
	assert.Equal(t, "ok", report.Summary.Status)
	assert.Equal(t, "A10", report.Summary.Cell)

	reopened, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.GetCellValue(SheetFordon, "A10")
	require.NoError(t, err)
	assert.Equal(t, "Alt ser greit ut.", got)
}

func TestFillSummaryFallbackCell(t *testing.T) {
	fl := NewFiller(nil)
	registry := NewRegistry(nil)

	_, report, err := fl.Fill(buildTemplate(t, SheetFordon), entity.Document{Text: "x"}, registry, "Oppsummering")
	require.NoError(t, err)
	assert.Equal(t, "fallback", report.Summary.Status)
	assert.Equal(t, "A46", report.Summary.Cell)
}

func TestFillHeadlineCellIsProtected(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", SheetFordon))
	require.NoError(t, f.SetCellValue(SheetFordon, "B3", "Kjennemerke"))
	styleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0BD7B5"}},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(SheetFordon, "B3", "B3", styleID))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	fl := NewFiller(nil)
	registry := NewRegistry(nil)
	out, _, err := fl.Fill(buf.Bytes(), entity.Document{Text: fillerDoc}, registry, "")
	require.NoError(t, err)

	reopened, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.GetCellValue(SheetFordon, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Kjennemerke", got, "headline cells keep their template value")
}

func TestFillBadTemplate(t *testing.T) {
	fl := NewFiller(nil)
	_, _, err := fl.Fill([]byte("not a workbook"), entity.Document{}, NewRegistry(nil), "")
	require.Error(t, err)
}

func TestRegistryOrder(t *testing.T) {
	registry := NewRegistry(nil)
	assert.Equal(t, []string{SheetFordon, SheetLiability, SheetWorkers, SheetProject}, registry.Sheets())

	_, ok := registry.Lookup(SheetFordon)
	assert.True(t, ok)
	_, ok = registry.Lookup("Ukjent")
	assert.False(t, ok)
}
