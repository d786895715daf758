// Package extract holds the per-insurer vehicle extractors. Each insurer
// ships renewal documents with a structurally different layout, so each
// extractor is a self-contained bundle of anchor-and-window heuristics;
// none of the patterns generalize and no shared matching DSL is wanted.
package extract

import (
	"github.com/eirikstav/fornyelse/constants"
	"github.com/eirikstav/fornyelse/internal/entity"
)

// Extractor turns the full text of one renewal document into vehicle
// records. Implementations must be pure and deterministic over the input
// text, never return an error or panic for malformed input (empty slice
// means no match), and must guard with Matches before any expensive
// pattern work.
type Extractor interface {
	// Name identifies the insurer this extractor targets.
	Name() constants.Provider

	// Matches is the fingerprint guard: a cheap check that the document
	// uses this insurer's template. Extract returns nothing when it fails.
	Matches(text string) bool

	// Extract returns the vehicles found in document order, locally
	// deduplicated (first occurrence wins).
	Extract(text string) []entity.VehicleRecord
}
