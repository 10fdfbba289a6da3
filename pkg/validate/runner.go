package validate

import (
	"github.com/ritzau/floorplan-editor/pkg/config"
	"github.com/ritzau/floorplan-editor/pkg/logging"
	"github.com/ritzau/floorplan-editor/pkg/model"
)

// rule is a single validation check over a plan snapshot
type rule func(Snapshot, config.Thresholds) []model.EditorError

// Tier 1: structural legality. Error-level findings block export.
var tier1 = []rule{
	checkClosure,
	checkRoomAreas,
	checkWallLengths,
	checkDeadEnds,
	checkSelfIntersections,
	checkDoors,
	checkWindows,
}

// Tier 2: spatial/semantic legality. Advisory only, never blocks export.
var tier2 = []rule{
	checkRoomOverlap,
}

// Runner executes the tiered validation pipeline over plan snapshots
type Runner struct {
	thresholds config.Thresholds
}

// NewRunner creates a validation runner with the given thresholds
func NewRunner(t config.Thresholds) *Runner {
	return &Runner{thresholds: t}
}

// Run validates the snapshot and returns the complete result. It never
// fails: both tiers always run to completion, and a plan with no
// findings yields an empty, exportable result.
func (r *Runner) Run(s Snapshot) *model.ValidationResult {
	var findings []model.EditorError
	for _, check := range tier1 {
		findings = append(findings, check(s, r.thresholds)...)
	}
	for _, check := range tier2 {
		findings = append(findings, check(s, r.thresholds)...)
	}

	result := &model.ValidationResult{
		Errors:    make([]model.EditorError, 0),
		Warnings:  make([]model.EditorError, 0),
		RoomCount: len(s.Rooms),
	}
	for _, f := range findings {
		if f.Level == model.LevelError {
			result.Errors = append(result.Errors, f)
		} else {
			result.Warnings = append(result.Warnings, f)
		}
	}
	for _, room := range s.Rooms {
		result.TotalArea += room.Area
	}

	result.IsValid = len(result.Errors) == 0
	result.CanExport = result.IsValid && result.RoomCount > 0

	logging.Debug("validation complete",
		"rooms", result.RoomCount,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"canExport", result.CanExport,
	)
	return result
}
