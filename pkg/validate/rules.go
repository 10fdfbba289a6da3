package validate

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ritzau/floorplan-editor/pkg/config"
	"github.com/ritzau/floorplan-editor/pkg/geometry"
	"github.com/ritzau/floorplan-editor/pkg/graph"
	"github.com/ritzau/floorplan-editor/pkg/model"
)

// Snapshot is an immutable view of the plan state handed to the runner.
// The store guarantees referential integrity before validation runs;
// rules still tolerate dangling references and report them instead of
// failing.
type Snapshot struct {
	Vertices map[string]*model.Vertex
	Walls    map[string]*model.Wall
	Rooms    []*model.Room
	Doors    map[string]*model.Door
	Windows  map[string]*model.Window
	Graph    *graph.PlanGraph
}

func newError(errType model.ErrorType, level model.ErrorLevel, elementID, message string, fixable bool) model.EditorError {
	return model.EditorError{
		ID:          uuid.New().String(),
		Type:        errType,
		Level:       level,
		Message:     message,
		ElementID:   elementID,
		AutoFixable: fixable,
	}
}

// checkClosure flags a plan that has walls but no closed room
func checkClosure(s Snapshot, t config.Thresholds) []model.EditorError {
	if len(s.Walls) > 0 && len(s.Rooms) == 0 {
		return []model.EditorError{newError(model.ErrNoClosedRoom, model.LevelError, "",
			"walls do not enclose any room", false)}
	}
	return nil
}

// checkRoomAreas flags rooms below the minimum area threshold
func checkRoomAreas(s Snapshot, t config.Thresholds) []model.EditorError {
	var errs []model.EditorError
	for _, room := range s.Rooms {
		if room.Area < t.MinRoomArea {
			errs = append(errs, newError(model.ErrRoomTooSmall, model.LevelWarning, room.ID,
				fmt.Sprintf("room area %.0f cm² is below the minimum of %.0f cm²", room.Area, t.MinRoomArea), false))
		}
	}
	return errs
}

// checkWallLengths flags walls shorter than the minimum length
func checkWallLengths(s Snapshot, t config.Thresholds) []model.EditorError {
	var errs []model.EditorError
	for _, id := range sortedWallIDs(s.Walls) {
		w := s.Walls[id]
		length, ok := wallLength(s, w)
		if !ok {
			continue
		}
		if length < t.MinWallLength {
			errs = append(errs, newError(model.ErrWallTooShort, model.LevelWarning, w.ID,
				fmt.Sprintf("wall is %.1f cm long, below the minimum of %.0f cm", length, t.MinWallLength), true))
		}
	}
	return errs
}

// checkDeadEnds flags vertices with exactly one incident wall
func checkDeadEnds(s Snapshot, t config.Thresholds) []model.EditorError {
	var errs []model.EditorError
	for _, id := range s.Graph.VertexIDs() {
		if s.Graph.Degree(id) == 1 {
			errs = append(errs, newError(model.ErrWallDeadEnd, model.LevelWarning, id,
				"wall ends in a dangling stub", true))
		}
	}
	return errs
}

// checkSelfIntersections flags pairs of non-adjacent walls whose
// segments properly cross. Walls sharing a vertex never qualify:
// SegmentsIntersect excludes touching endpoints, and adjacent pairs
// are skipped outright.
func checkSelfIntersections(s Snapshot, t config.Thresholds) []model.EditorError {
	var errs []model.EditorError
	ids := sortedWallIDs(s.Walls)
	for i := 0; i < len(ids); i++ {
		a := s.Walls[ids[i]]
		a1, a2, ok := wallEndpoints(s, a)
		if !ok {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			b := s.Walls[ids[j]]
			if sharesVertex(a, b) {
				continue
			}
			b1, b2, ok := wallEndpoints(s, b)
			if !ok {
				continue
			}
			if geometry.SegmentsIntersect(a1, a2, b1, b2) {
				errs = append(errs, newError(model.ErrWallSelfIntersect, model.LevelError, a.ID,
					fmt.Sprintf("wall crosses wall %s", b.ID), false))
			}
		}
	}
	return errs
}

// checkDoors validates door attachment, width, and clearance
func checkDoors(s Snapshot, t config.Thresholds) []model.EditorError {
	var errs []model.EditorError
	for _, id := range sortedDoorIDs(s.Doors) {
		d := s.Doors[id]
		errs = append(errs, checkOpening(s, t, d.ID, d.WallID, d.Position, d.Width,
			model.ErrDoorNoWall, model.ErrDoorTooWide, model.ErrDoorOutOfWall, "door")...)
	}
	return errs
}

// checkWindows validates window attachment, width, and clearance
func checkWindows(s Snapshot, t config.Thresholds) []model.EditorError {
	var errs []model.EditorError
	for _, id := range sortedWindowIDs(s.Windows) {
		w := s.Windows[id]
		errs = append(errs, checkOpening(s, t, w.ID, w.WallID, w.Position, w.Width,
			model.ErrWindowNoWall, model.ErrWindowTooWide, model.ErrWindowOutOfWall, "window")...)
	}
	return errs
}

// checkOpening applies the shared door/window attachment rules
func checkOpening(s Snapshot, t config.Thresholds, id, wallID string, position, width float64,
	noWall, tooWide, outOfWall model.ErrorType, kind string) []model.EditorError {

	wall := s.Walls[wallID]
	if wall == nil {
		return []model.EditorError{newError(noWall, model.LevelError, id,
			fmt.Sprintf("%s references a missing wall", kind), false)}
	}
	length, ok := wallLength(s, wall)
	if !ok {
		return []model.EditorError{newError(noWall, model.LevelError, id,
			fmt.Sprintf("%s host wall has missing endpoints", kind), false)}
	}

	if width >= length {
		return []model.EditorError{newError(tooWide, model.LevelError, id,
			fmt.Sprintf("%s width %.0f cm does not fit a %.0f cm wall", kind, width, length), true)}
	}

	center := position * length
	nearEdge := center - width/2
	if far := length - center - width/2; far < nearEdge {
		nearEdge = far
	}
	if nearEdge < t.MinClearance {
		return []model.EditorError{newError(outOfWall, model.LevelWarning, id,
			fmt.Sprintf("%s is within %.0f cm of a wall end, minimum clearance is %.0f cm", kind, nearEdge, t.MinClearance), true)}
	}
	return nil
}

// checkRoomOverlap flags every pair of overlapping rooms. Rooms that
// legitimately share walls also share vertex ids, so shared vertices
// are excluded from the containment test; only proper edge crossings
// and containment of unshared vertices count as overlap.
func checkRoomOverlap(s Snapshot, t config.Thresholds) []model.EditorError {
	var errs []model.EditorError
	for i := 0; i < len(s.Rooms); i++ {
		for j := i + 1; j < len(s.Rooms); j++ {
			if roomsOverlap(s, s.Rooms[i], s.Rooms[j]) {
				errs = append(errs, newError(model.ErrRoomOverlap, model.LevelWarning, s.Rooms[i].ID,
					fmt.Sprintf("room overlaps room %s", s.Rooms[j].ID), false))
			}
		}
	}
	return errs
}

func roomsOverlap(s Snapshot, a, b *model.Room) bool {
	polyA := geometry.Polygon(a.VertexIDs, s.Vertices)
	polyB := geometry.Polygon(b.VertexIDs, s.Vertices)
	if len(polyA) < 3 || len(polyB) < 3 {
		return false
	}

	shared := make(map[string]bool)
	inB := make(map[string]bool, len(b.VertexIDs))
	for _, id := range b.VertexIDs {
		inB[id] = true
	}
	for _, id := range a.VertexIDs {
		if inB[id] {
			shared[id] = true
		}
	}

	if containsUnshared(a.VertexIDs, polyB, s.Vertices, shared) ||
		containsUnshared(b.VertexIDs, polyA, s.Vertices, shared) {
		return true
	}

	for i := 0; i < len(polyA); i++ {
		a1 := polyA[i]
		a2 := polyA[(i+1)%len(polyA)]
		for j := 0; j < len(polyB); j++ {
			if geometry.SegmentsIntersect(a1, a2, polyB[j], polyB[(j+1)%len(polyB)]) {
				return true
			}
		}
	}
	return false
}

func containsUnshared(ids []string, other []r2.Vec, vertices map[string]*model.Vertex, shared map[string]bool) bool {
	for _, id := range ids {
		if shared[id] {
			continue
		}
		v := vertices[id]
		if v == nil {
			continue
		}
		if geometry.PointInPolygon(v.Pos(), other) {
			return true
		}
	}
	return false
}

func wallEndpoints(s Snapshot, w *model.Wall) (r2.Vec, r2.Vec, bool) {
	start := s.Vertices[w.StartVertexID]
	end := s.Vertices[w.EndVertexID]
	if start == nil || end == nil {
		return r2.Vec{}, r2.Vec{}, false
	}
	return start.Pos(), end.Pos(), true
}

func wallLength(s Snapshot, w *model.Wall) (float64, bool) {
	a, b, ok := wallEndpoints(s, w)
	if !ok {
		return 0, false
	}
	return r2.Norm(r2.Sub(b, a)), true
}

func sharesVertex(a, b *model.Wall) bool {
	return a.StartVertexID == b.StartVertexID || a.StartVertexID == b.EndVertexID ||
		a.EndVertexID == b.StartVertexID || a.EndVertexID == b.EndVertexID
}

func sortedWallIDs(walls map[string]*model.Wall) []string {
	ids := make([]string, 0, len(walls))
	for id := range walls {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedDoorIDs(doors map[string]*model.Door) []string {
	ids := make([]string, 0, len(doors))
	for id := range doors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedWindowIDs(windows map[string]*model.Window) []string {
	ids := make([]string, 0, len(windows))
	for id := range windows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
