package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ritzau/floorplan-editor/pkg/model"
)

// Names lists the built-in presets in menu order
var Names = []string{"studio", "two-room"}

// Get returns a built-in preset plan by name
func Get(name string) (*model.FloorPlan, error) {
	switch name {
	case "studio":
		return studio(), nil
	case "two-room":
		return twoRoom(), nil
	default:
		return nil, fmt.Errorf("unknown preset %q", name)
	}
}

// LoadFile reads a plan record from a JSON file
func LoadFile(path string) (*model.FloorPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	var plan model.FloorPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file %s: %w", path, err)
	}
	return &plan, nil
}

// SaveFile writes a plan record to a JSON file
func SaveFile(path string, plan *model.FloorPlan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}

// studio is a single 4x3 m room with a door and a window
func studio() *model.FloorPlan {
	return &model.FloorPlan{
		Vertices: []model.Vertex{
			{ID: "v1", X: 0, Y: 0},
			{ID: "v2", X: 400, Y: 0},
			{ID: "v3", X: 400, Y: 300},
			{ID: "v4", X: 0, Y: 300},
		},
		Walls: []model.Wall{
			{ID: "w1", StartVertexID: "v1", EndVertexID: "v2", Thickness: 10},
			{ID: "w2", StartVertexID: "v2", EndVertexID: "v3", Thickness: 10},
			{ID: "w3", StartVertexID: "v3", EndVertexID: "v4", Thickness: 10},
			{ID: "w4", StartVertexID: "v4", EndVertexID: "v1", Thickness: 10},
		},
		Doors: []model.Door{
			{ID: "d1", WallID: "w1", Position: 0.5, Width: 90, Direction: model.DoorDirectionRight},
		},
		Windows: []model.Window{
			{ID: "n1", WallID: "w3", Position: 0.5, Width: 120, Height: 100},
		},
	}
}

// twoRoom is a 6x4 m outline split by a dividing wall, with a door in
// each room and a connecting door in the divider
func twoRoom() *model.FloorPlan {
	return &model.FloorPlan{
		Vertices: []model.Vertex{
			{ID: "v1", X: 0, Y: 0},
			{ID: "v2", X: 350, Y: 0},
			{ID: "v3", X: 600, Y: 0},
			{ID: "v4", X: 600, Y: 400},
			{ID: "v5", X: 350, Y: 400},
			{ID: "v6", X: 0, Y: 400},
		},
		Walls: []model.Wall{
			{ID: "w1", StartVertexID: "v1", EndVertexID: "v2", Thickness: 10},
			{ID: "w2", StartVertexID: "v2", EndVertexID: "v3", Thickness: 10},
			{ID: "w3", StartVertexID: "v3", EndVertexID: "v4", Thickness: 10},
			{ID: "w4", StartVertexID: "v4", EndVertexID: "v5", Thickness: 10},
			{ID: "w5", StartVertexID: "v5", EndVertexID: "v6", Thickness: 10},
			{ID: "w6", StartVertexID: "v6", EndVertexID: "v1", Thickness: 10},
			{ID: "w7", StartVertexID: "v2", EndVertexID: "v5", Thickness: 10},
		},
		Doors: []model.Door{
			{ID: "d1", WallID: "w1", Position: 0.5, Width: 90, Direction: model.DoorDirectionRight},
			{ID: "d2", WallID: "w7", Position: 0.5, Width: 90, Direction: model.DoorDirectionLeft},
		},
		Windows: []model.Window{
			{ID: "n1", WallID: "w4", Position: 0.5, Width: 120, Height: 100},
			{ID: "n2", WallID: "w6", Position: 0.5, Width: 120, Height: 100},
		},
	}
}
