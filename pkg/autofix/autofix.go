package autofix

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ritzau/floorplan-editor/pkg/config"
	"github.com/ritzau/floorplan-editor/pkg/geometry"
	"github.com/ritzau/floorplan-editor/pkg/model"
)

// Engine applies best-effort corrective transforms. Validation only
// reports; the engine is the one place that changes data.
type Engine struct {
	thresholds config.Thresholds
}

// NewEngine creates an auto-fix engine with the given thresholds
func NewEngine(t config.Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// SnapVertex returns the exact coordinates of an existing vertex within
// the snap radius of p, or p unchanged when none qualifies. excludeID
// skips a vertex, used when that vertex itself is being moved.
// Idempotent: a point already on a vertex snaps to itself.
func (e *Engine) SnapVertex(p r2.Vec, vertices []*model.Vertex, excludeID string) r2.Vec {
	candidates := vertices
	if excludeID != "" {
		candidates = make([]*model.Vertex, 0, len(vertices))
		for _, v := range vertices {
			if v.ID != excludeID {
				candidates = append(candidates, v)
			}
		}
	}
	id, ok := geometry.NearestVertex(p, candidates, e.thresholds.SnapRadius)
	if !ok {
		return p
	}
	for _, v := range candidates {
		if v.ID == id {
			return v.Pos()
		}
	}
	return p
}

// CorrectOpeningPosition clamps position so the opening's extent stays
// at least the minimum clearance away from both wall ends. When the
// wall is too short for the opening to fit at all (inverted valid
// range) the position clamps to the wall center; that keeps the
// correction a fixed point instead of silently clamping into an
// inverted interval.
func (e *Engine) CorrectOpeningPosition(position, width, wallLength float64) float64 {
	if wallLength <= 0 {
		return 0.5
	}
	margin := (e.thresholds.MinClearance + width/2) / wallLength
	minPos := margin
	maxPos := 1 - margin
	if minPos > maxPos {
		return 0.5
	}
	if position < minPos {
		return minPos
	}
	if position > maxPos {
		return maxPos
	}
	return position
}

// InferRoomType labels a room from its area and the number of doors on
// its own walls. Purely advisory: the label never affects validation.
func (e *Engine) InferRoomType(room *model.Room, doors map[string]*model.Door, walls map[string]*model.Wall) model.RoomType {
	doorCount := countRoomDoors(room, doors, walls)

	const m2 = 10000 // cm² per m²
	area := room.Area
	switch {
	case area < 4*m2 && doorCount == 0:
		return model.RoomTypeStorage
	case area < 6*m2:
		return model.RoomTypeBathroom
	case area >= 30*m2:
		return model.RoomTypeLiving
	case area >= 15*m2 && doorCount >= 2:
		return model.RoomTypeLiving
	case area < 15*m2:
		return model.RoomTypeBedroom
	default:
		return model.RoomTypeBedroom
	}
}

// countRoomDoors counts doors hosted on walls whose both endpoints are
// vertices of the room
func countRoomDoors(room *model.Room, doors map[string]*model.Door, walls map[string]*model.Wall) int {
	onLoop := make(map[string]bool, len(room.VertexIDs))
	for _, id := range room.VertexIDs {
		onLoop[id] = true
	}

	count := 0
	for _, d := range doors {
		w := walls[d.WallID]
		if w == nil {
			continue
		}
		if onLoop[w.StartVertexID] && onLoop[w.EndVertexID] {
			count++
		}
	}
	return count
}
