// Package sheets owns the workbook side: which template sheet is fed by
// which transform, and the excelize filler that writes the cell maps
// into the template.
package sheets

import (
	"fmt"
	"log/slog"

	"github.com/eirikstav/fornyelse/internal/entity"
	"github.com/eirikstav/fornyelse/internal/liability"
	"github.com/eirikstav/fornyelse/internal/project"
	"github.com/eirikstav/fornyelse/internal/vehicles"
	"github.com/eirikstav/fornyelse/internal/workerscomp"
)

// Template sheet names. These match the workbook tabs exactly and are
// part of the template contract.
const (
	SheetFordon    = "Fordon"
	SheetLiability = "Alminnelig ansvar"
	SheetWorkers   = "Yrkesskade"
	SheetProject   = "Prosjekt,entreprenor"
)

// Transform produces the cell map for one sheet, plus human-readable
// notes (capacity overflows and the like) for the fill report.
type Transform func(doc entity.Document) (entity.CellMap, []string)

// Registry binds sheet names to their transforms in fill order.
type Registry struct {
	order      []string
	transforms map[string]Transform
}

// NewRegistry wires the standard sheet set.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	pipeline := vehicles.NewPipeline(logger)
	liab := liability.NewMapper(logger)
	workers := workerscomp.NewMapper(logger)
	proj := project.NewMapper(logger)

	r := &Registry{transforms: map[string]Transform{}}
	r.register(SheetFordon, func(doc entity.Document) (entity.CellMap, []string) {
		cells, overflows := pipeline.Transform(doc)
		var notes []string
		for _, o := range overflows {
			notes = append(notes, fmt.Sprintf("%s: %d vehicle(s) beyond row capacity %d",
				o.Band.DisplayName, o.Dropped, o.Band.Capacity()))
		}
		return cells, notes
	})
	r.register(SheetLiability, func(doc entity.Document) (entity.CellMap, []string) {
		return liab.Transform(doc), nil
	})
	r.register(SheetWorkers, func(doc entity.Document) (entity.CellMap, []string) {
		return workers.Transform(doc), nil
	})
	r.register(SheetProject, func(doc entity.Document) (entity.CellMap, []string) {
		return proj.Transform(doc), nil
	})
	return r
}

func (r *Registry) register(sheet string, t Transform) {
	r.order = append(r.order, sheet)
	r.transforms[sheet] = t
}

// Sheets returns the sheet names in fill order.
func (r *Registry) Sheets() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the transform for a sheet.
func (r *Registry) Lookup(sheet string) (Transform, bool) {
	t, ok := r.transforms[sheet]
	return t, ok
}
