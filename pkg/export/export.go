package export

import (
	"errors"

	"github.com/ritzau/floorplan-editor/pkg/model"
	"github.com/ritzau/floorplan-editor/pkg/store"
)

// ErrNotExportable is returned when the plan fails the export gate
var ErrNotExportable = errors.New("plan has validation errors or no rooms and cannot be exported")

// Build produces the boundary record handed to the 3D layer. Export is
// mechanically blocked while the gate is closed: callers get an error,
// not a partial record.
func Build(s *store.Store) (*model.FloorPlan, error) {
	result := s.Validation()
	if result == nil || !result.CanExport {
		return nil, ErrNotExportable
	}
	return s.Plan(), nil
}
