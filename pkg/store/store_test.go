package store

import (
	"testing"

	"github.com/ritzau/floorplan-editor/pkg/config"
	"github.com/ritzau/floorplan-editor/pkg/model"
	"github.com/ritzau/floorplan-editor/pkg/preset"
)

func newTestStore() *Store {
	return New(config.DefaultThresholds())
}

// buildSquare adds a closed 4x3 m room and returns the vertex and wall ids
func buildSquare(t *testing.T, s *Store) (vids []string, wids []string) {
	t.Helper()
	coords := [][2]float64{{0, 0}, {400, 0}, {400, 300}, {0, 300}}
	for _, c := range coords {
		vids = append(vids, s.AddVertex(c[0], c[1]))
	}
	for i := range vids {
		wid, err := s.AddWall(vids[i], vids[(i+1)%len(vids)])
		if err != nil {
			t.Fatalf("AddWall() error = %v", err)
		}
		wids = append(wids, wid)
	}
	return vids, wids
}

func TestNewStoreIsEmptyAndValid(t *testing.T) {
	s := newTestStore()

	result := s.Validation()
	if result == nil {
		t.Fatal("Expected a validation result for the empty store")
	}
	if !result.IsValid {
		t.Errorf("Empty store should be valid, got errors: %v", result.Errors)
	}
	if result.CanExport {
		t.Error("Empty store must not be exportable")
	}
}

func TestClosingSquareDerivesRoom(t *testing.T) {
	s := newTestStore()
	buildSquare(t, s)

	rooms := s.Rooms()
	if len(rooms) != 1 {
		t.Fatalf("Expected 1 room, got %d", len(rooms))
	}
	room := rooms[0]
	if room.Area != 120000 {
		t.Errorf("Expected room area 120000, got %v", room.Area)
	}
	if room.Type != model.RoomTypeBedroom {
		t.Errorf("Expected inferred type bedroom for 12 m², got %s", room.Type)
	}
	if room.Name != "Bedroom" {
		t.Errorf("Expected display name Bedroom, got %q", room.Name)
	}
	if room.Color == "" {
		t.Error("Expected the room to get a palette color")
	}

	result := s.Validation()
	if !result.CanExport {
		t.Errorf("Expected the closed square to be exportable, errors: %v", result.Errors)
	}
}

func TestAddWallRejectsBadEndpoints(t *testing.T) {
	s := newTestStore()
	v1 := s.AddVertex(0, 0)

	if _, err := s.AddWall(v1, v1); err == nil {
		t.Error("Expected error for coincident endpoints")
	}
	if _, err := s.AddWall(v1, "missing"); err == nil {
		t.Error("Expected error for missing end vertex")
	}
	if _, err := s.AddWall("missing", v1); err == nil {
		t.Error("Expected error for missing start vertex")
	}
}

func TestAddVertexSnappedReusesNearbyVertex(t *testing.T) {
	s := newTestStore()
	v1 := s.AddVertex(100, 100)

	// Within the 15 cm snap radius: the existing vertex is reused
	got := s.AddVertexSnapped(108, 104)
	if got != v1 {
		t.Errorf("Expected snap to reuse %s, got %s", v1, got)
	}
	if len(s.Plan().Vertices) != 1 {
		t.Errorf("Expected 1 vertex after snapping, got %d", len(s.Plan().Vertices))
	}

	// Out of radius: a new vertex appears
	got = s.AddVertexSnapped(200, 200)
	if got == v1 {
		t.Error("Expected a fresh vertex outside the snap radius")
	}
	if len(s.Plan().Vertices) != 2 {
		t.Errorf("Expected 2 vertices, got %d", len(s.Plan().Vertices))
	}
}

func TestDeleteWallCascades(t *testing.T) {
	s := newTestStore()
	_, wids := buildSquare(t, s)

	if _, err := s.AddDoor(wids[0], 0.5); err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}
	if _, err := s.AddWindow(wids[0], 0.25); err != nil {
		t.Fatalf("AddWindow() error = %v", err)
	}

	if err := s.DeleteWall(wids[0]); err != nil {
		t.Fatalf("DeleteWall() error = %v", err)
	}

	plan := s.Plan()
	if len(plan.Walls) != 3 {
		t.Errorf("Expected 3 walls after delete, got %d", len(plan.Walls))
	}
	if len(plan.Doors) != 0 {
		t.Errorf("Expected doors on the deleted wall to cascade, got %d", len(plan.Doors))
	}
	if len(plan.Windows) != 0 {
		t.Errorf("Expected windows on the deleted wall to cascade, got %d", len(plan.Windows))
	}
	// Both endpoints still carry other walls, so no vertex disappears
	if len(plan.Vertices) != 4 {
		t.Errorf("Expected all 4 vertices to survive, got %d", len(plan.Vertices))
	}
	// The room opened up
	if len(plan.Rooms) != 0 {
		t.Errorf("Expected no rooms after opening the loop, got %d", len(plan.Rooms))
	}
}

func TestDeleteWallRemovesOrphanVertices(t *testing.T) {
	s := newTestStore()
	v1 := s.AddVertex(0, 0)
	v2 := s.AddVertex(100, 0)
	wid, err := s.AddWall(v1, v2)
	if err != nil {
		t.Fatalf("AddWall() error = %v", err)
	}

	if err := s.DeleteWall(wid); err != nil {
		t.Fatalf("DeleteWall() error = %v", err)
	}

	if n := len(s.Plan().Vertices); n != 0 {
		t.Errorf("Expected orphaned endpoints to be removed, got %d vertices", n)
	}
}

func TestDeleteVertexCascadesToWallsAndOpenings(t *testing.T) {
	s := newTestStore()
	vids, wids := buildSquare(t, s)

	if _, err := s.AddDoor(wids[0], 0.5); err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}

	// vids[0] touches wids[0] and wids[3]
	if err := s.DeleteVertex(vids[0]); err != nil {
		t.Fatalf("DeleteVertex() error = %v", err)
	}

	plan := s.Plan()
	if len(plan.Walls) != 2 {
		t.Errorf("Expected 2 walls to survive, got %d", len(plan.Walls))
	}
	if len(plan.Doors) != 0 {
		t.Errorf("Expected the door to cascade with its wall, got %d doors", len(plan.Doors))
	}
	for _, w := range plan.Walls {
		if w.StartVertexID == vids[0] || w.EndVertexID == vids[0] {
			t.Errorf("Wall %s still references the deleted vertex", w.ID)
		}
	}
}

func TestMoveVertexRecomputesRooms(t *testing.T) {
	s := newTestStore()
	vids, _ := buildSquare(t, s)

	if err := s.MoveVertex(vids[1], 500, 0); err != nil {
		t.Fatalf("MoveVertex() error = %v", err)
	}

	rooms := s.Rooms()
	if len(rooms) != 1 {
		t.Fatalf("Expected the room to survive the move, got %d", len(rooms))
	}
	// Trapezoid area: (400 + 500)/2 * 300
	if rooms[0].Area != 135000 {
		t.Errorf("Expected recomputed area 135000, got %v", rooms[0].Area)
	}
}

func TestMoveVertexSnappedMergesPositions(t *testing.T) {
	s := newTestStore()
	v1 := s.AddVertex(100, 100)
	v2 := s.AddVertex(300, 300)

	if err := s.MoveVertexSnapped(v2, 104, 98); err != nil {
		t.Fatalf("MoveVertexSnapped() error = %v", err)
	}

	for _, v := range s.Plan().Vertices {
		if v.ID == v2 && (v.X != 100 || v.Y != 100) {
			t.Errorf("Expected v2 to snap onto v1's position, got (%v,%v)", v.X, v.Y)
		}
		if v.ID == v1 && (v.X != 100 || v.Y != 100) {
			t.Errorf("v1 must not move, got (%v,%v)", v.X, v.Y)
		}
	}
}

func TestAddDoorCorrectsPositionOnInsert(t *testing.T) {
	s := newTestStore()
	_, wids := buildSquare(t, s)

	did, err := s.AddDoor(wids[0], 0.01)
	if err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}

	var door model.Door
	for _, d := range s.Plan().Doors {
		if d.ID == did {
			door = d
		}
	}
	// (20 + 45) / 400 = 0.1625 is the closest legal position
	if door.Position < 0.16 || door.Position > 0.17 {
		t.Errorf("Expected position corrected to ~0.1625, got %v", door.Position)
	}
	if door.Width != 90 {
		t.Errorf("Expected default door width 90, got %v", door.Width)
	}
}

func TestAddDoorOnMissingWallFails(t *testing.T) {
	s := newTestStore()
	if _, err := s.AddDoor("missing", 0.5); err == nil {
		t.Error("Expected error for a door on a missing wall")
	}
}

func TestDeleteDoorAndWindow(t *testing.T) {
	s := newTestStore()
	_, wids := buildSquare(t, s)

	did, _ := s.AddDoor(wids[0], 0.5)
	nid, _ := s.AddWindow(wids[2], 0.5)

	if err := s.DeleteDoor(did); err != nil {
		t.Fatalf("DeleteDoor() error = %v", err)
	}
	if err := s.DeleteWindow(nid); err != nil {
		t.Fatalf("DeleteWindow() error = %v", err)
	}
	if err := s.DeleteDoor(did); err == nil {
		t.Error("Expected error deleting an already-deleted door")
	}

	plan := s.Plan()
	if len(plan.Doors) != 0 || len(plan.Windows) != 0 {
		t.Errorf("Expected no openings, got %d doors %d windows", len(plan.Doors), len(plan.Windows))
	}
	// Rooms are untouched by opening deletes
	if len(plan.Rooms) != 1 {
		t.Errorf("Expected the room to survive, got %d", len(plan.Rooms))
	}
}

func TestAutoFixConverges(t *testing.T) {
	s := newTestStore()
	vids, _ := buildSquare(t, s)

	// A short wall hosting a door that cannot legally fit
	v5 := s.AddVertex(0, 340)
	wShort, err := s.AddWall(vids[3], v5)
	if err != nil {
		t.Fatalf("AddWall() error = %v", err)
	}
	if _, err := s.AddDoor(wShort, 0.9); err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}

	// The 90 cm door on the 40 cm wall is reported too wide
	if !anyError(s.Validation().Errors, model.ErrDoorTooWide) {
		t.Fatalf("Expected a door-too-wide error before fixing, got %v", s.Validation().Errors)
	}

	changed := s.AutoFix()
	if changed == 0 {
		t.Fatal("Expected auto-fix to change something")
	}
	if anyError(s.Validation().Errors, model.ErrDoorTooWide) {
		t.Errorf("Expected the too-wide error to clear, got %v", s.Validation().Errors)
	}

	// Second pass finds nothing left to do
	if again := s.AutoFix(); again != 0 {
		t.Errorf("Expected auto-fix to converge, second pass changed %d", again)
	}
}

func anyError(errs []model.EditorError, errType model.ErrorType) bool {
	for _, e := range errs {
		if e.Type == errType {
			return true
		}
	}
	return false
}

func TestLoadPlanReplacesStateInOneCommit(t *testing.T) {
	s := newTestStore()
	buildSquare(t, s)

	plan, err := preset.Get("two-room")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	commits := 0
	s.SetCommitHook(func(*model.FloorPlan, *model.ValidationResult) { commits++ })
	s.LoadPlan(plan)

	if commits != 1 {
		t.Errorf("Expected exactly one commit for a plan load, got %d", commits)
	}
	rooms := s.Rooms()
	if len(rooms) != 2 {
		t.Fatalf("Expected 2 rooms after loading the two-room preset, got %d", len(rooms))
	}
	if rooms[0].Name == rooms[1].Name {
		t.Errorf("Expected distinct display names, got %q and %q", rooms[0].Name, rooms[1].Name)
	}
	if !s.Validation().CanExport {
		t.Errorf("Expected the preset to be exportable, errors: %v", s.Validation().Errors)
	}
}

func TestLoadPlanSkipsDanglingReferences(t *testing.T) {
	s := newTestStore()
	s.LoadPlan(&model.FloorPlan{
		Vertices: []model.Vertex{
			{ID: "v1", X: 0, Y: 0},
			{ID: "v2", X: 100, Y: 0},
		},
		Walls: []model.Wall{
			{ID: "w1", StartVertexID: "v1", EndVertexID: "v2"},
			{ID: "w2", StartVertexID: "v2", EndVertexID: "ghost"},
		},
		Doors: []model.Door{
			{ID: "d1", WallID: "w1", Position: 0.5, Width: 90},
			{ID: "d2", WallID: "gone", Position: 0.5, Width: 90},
		},
		Windows: []model.Window{
			{ID: "n1", WallID: "gone", Position: 0.5, Width: 120},
		},
	})

	plan := s.Plan()
	if len(plan.Walls) != 1 {
		t.Errorf("Expected the dangling wall to be skipped, got %d walls", len(plan.Walls))
	}
	if len(plan.Doors) != 1 {
		t.Errorf("Expected the dangling door to be skipped, got %d doors", len(plan.Doors))
	}
	if len(plan.Windows) != 0 {
		t.Errorf("Expected the dangling window to be skipped, got %d windows", len(plan.Windows))
	}
}

func TestClear(t *testing.T) {
	s := newTestStore()
	buildSquare(t, s)

	s.Clear()

	plan := s.Plan()
	if len(plan.Vertices)+len(plan.Walls)+len(plan.Rooms) != 0 {
		t.Errorf("Expected an empty plan after Clear, got %+v", plan)
	}
	if s.Validation().CanExport {
		t.Error("Cleared plan must not be exportable")
	}
}

func TestCommitHookFiresOnMutation(t *testing.T) {
	s := newTestStore()

	var last *model.ValidationResult
	var lastPlan *model.FloorPlan
	s.SetCommitHook(func(p *model.FloorPlan, r *model.ValidationResult) {
		lastPlan, last = p, r
	})

	buildSquare(t, s)

	if last == nil {
		t.Fatal("Expected the commit hook to fire")
	}
	if last.RoomCount != 1 {
		t.Errorf("Expected the hook to see the fresh result, got %d rooms", last.RoomCount)
	}
	if len(lastPlan.Walls) != 4 {
		t.Errorf("Expected the hook to see the fresh plan, got %d walls", len(lastPlan.Walls))
	}
}

func TestReferentialIntegrityAfterMutationStorm(t *testing.T) {
	s := newTestStore()
	vids, wids := buildSquare(t, s)

	if _, err := s.AddDoor(wids[1], 0.5); err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}
	if err := s.DeleteVertex(vids[0]); err != nil {
		t.Fatalf("DeleteVertex() error = %v", err)
	}
	if err := s.DeleteWall(wids[1]); err != nil {
		t.Fatalf("DeleteWall() error = %v", err)
	}

	plan := s.Plan()
	vertexSet := make(map[string]bool)
	for _, v := range plan.Vertices {
		vertexSet[v.ID] = true
	}
	wallSet := make(map[string]bool)
	for _, w := range plan.Walls {
		wallSet[w.ID] = true
		if !vertexSet[w.StartVertexID] || !vertexSet[w.EndVertexID] {
			t.Errorf("Wall %s references a missing vertex", w.ID)
		}
	}
	for _, d := range plan.Doors {
		if !wallSet[d.WallID] {
			t.Errorf("Door %s references a missing wall", d.ID)
		}
	}
	for _, w := range plan.Windows {
		if !wallSet[w.WallID] {
			t.Errorf("Window %s references a missing wall", w.ID)
		}
	}
	for _, r := range plan.Rooms {
		for _, vid := range r.VertexIDs {
			if !vertexSet[vid] {
				t.Errorf("Room %s references a missing vertex", r.ID)
			}
		}
	}
}
