// Command fornyelse reads the extracted text of one insurance renewal
// document and fills the renewal comparison workbook. Without a template
// it prints the per-sheet cell maps as JSON instead.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/common"
	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/sheets"
	"github.com/eirikstav/fornyelse/internal/textnorm"
)

func main() {
	cfg := common.LoadConfig()

	provider := flag.String("provider", cfg.Extract.Provider, "insurer (gjensidige, if, tryg, ly) or auto")
	template := flag.String("template", cfg.Template.Path, "path to the workbook template (.xlsx)")
	output := flag.String("o", cfg.Template.OutputPath, "output path for the filled workbook")
	summary := flag.String("summary", "", "free-text summary placed on the first sheet")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "fornyelse [flags] <document-text-file>")
		os.Exit(2)
	}

	if _, ok := constants.CanonicalizeProvider(*provider); !ok {
		logger.Error("unknown provider", "provider", *provider, "known", constants.Providers())
		os.Exit(2)
	}

	text, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Error("read document text", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}
	if len(text) > cfg.Extract.MaxTextBytes {
		logger.Warn("document text truncated",
			"bytes", len(text), "max_bytes", cfg.Extract.MaxTextBytes)
		text = text[:cfg.Extract.MaxTextBytes]
	}

	doc := entity.Document{Text: textnorm.CleanLines(string(text)), Provider: *provider}
	registry := sheets.NewRegistry(logger)

	if *template == "" {
		printCellMaps(logger, registry, doc)
		return
	}

	templateBytes, err := os.ReadFile(*template)
	if err != nil {
		logger.Error("read template", "path", *template, "error", err)
		os.Exit(1)
	}

	start := time.Now()
	filler := sheets.NewFiller(logger)
	out, report, err := filler.Fill(templateBytes, doc, registry, *summary)
	if err != nil {
		logger.Error("fill workbook", "error", err)
		os.Exit(1)
	}

	for _, sheet := range report.Sheets {
		attrs := []any{"sheet", sheet.Sheet, "status", sheet.Status, "cells", sheet.FilledCells}
		for _, note := range sheet.Notes {
			logger.Warn("sheet note", "sheet", sheet.Sheet, "note", note)
		}
		if sheet.Err != "" {
			attrs = append(attrs, "error", sheet.Err)
		}
		logger.Info("sheet filled", attrs...)
	}

	if err := os.WriteFile(*output, out, 0o644); err != nil {
		logger.Error("write output", "path", *output, "error", err)
		os.Exit(1)
	}

	logger.Info("workbook written",
		"path", *output,
		"bytes", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// printCellMaps runs every transform and dumps sheet -> cell -> value as
// JSON, for inspecting extraction without a template on hand.
func printCellMaps(logger *slog.Logger, registry *sheets.Registry, doc entity.Document) {
	out := map[string]map[string]any{}
	for _, sheet := range registry.Sheets() {
		transform, ok := registry.Lookup(sheet)
		if !ok {
			continue
		}
		cells, notes := transform(doc)
		for _, note := range notes {
			logger.Warn("sheet note", "sheet", sheet, "note", note)
		}
		if !cells.Empty() {
			out[sheet] = cells.Values
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode cell maps", "error", err)
		os.Exit(1)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
