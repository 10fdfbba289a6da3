package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ritzau/floorplan-editor/pkg/autofix"
	"github.com/ritzau/floorplan-editor/pkg/config"
	"github.com/ritzau/floorplan-editor/pkg/cycles"
	"github.com/ritzau/floorplan-editor/pkg/geometry"
	"github.com/ritzau/floorplan-editor/pkg/graph"
	"github.com/ritzau/floorplan-editor/pkg/logging"
	"github.com/ritzau/floorplan-editor/pkg/model"
	"github.com/ritzau/floorplan-editor/pkg/validate"
)

// roomPalette cycles through fill colors assigned to detected rooms
var roomPalette = []string{
	"#e8f4f8", "#f8ece8", "#edf8e8", "#f8f5e8", "#f0e8f8", "#e8f8f3",
}

// displayNames maps inferred room types to user-facing names
var displayNames = map[model.RoomType]string{
	model.RoomTypeLiving:   "Living Room",
	model.RoomTypeBedroom:  "Bedroom",
	model.RoomTypeKitchen:  "Kitchen",
	model.RoomTypeBathroom: "Bathroom",
	model.RoomTypeBalcony:  "Balcony",
	model.RoomTypeStorage:  "Storage",
	model.RoomTypeUnknown:  "Room",
}

// Store owns the mutable vertex/wall/room/door/window collections and
// orchestrates recomputation after each mutation. Rooms, errors, and
// the validation result are derived: every structural mutation
// triggers a full synchronous recompute before the new state is
// observable. All cross-references between entities are id lookups
// into the store; there are no owning pointers between entities.
type Store struct {
	mu sync.Mutex

	thresholds config.Thresholds
	runner     *validate.Runner
	fixer      *autofix.Engine

	vertices map[string]*model.Vertex
	walls    map[string]*model.Wall
	doors    map[string]*model.Door
	windows  map[string]*model.Window

	// derived state, rebuilt by commit
	graph  *graph.PlanGraph
	rooms  []*model.Room
	result *model.ValidationResult

	onCommit func(*model.FloorPlan, *model.ValidationResult)
}

// New creates an empty store with the given thresholds
func New(t config.Thresholds) *Store {
	s := &Store{
		thresholds: t,
		runner:     validate.NewRunner(t),
		fixer:      autofix.NewEngine(t),
		vertices:   make(map[string]*model.Vertex),
		walls:      make(map[string]*model.Wall),
		doors:      make(map[string]*model.Door),
		windows:    make(map[string]*model.Window),
	}
	s.commit()
	return s
}

// SetCommitHook registers a callback invoked after every commit with a
// snapshot of the plan and the fresh validation result. Used by the web
// layer to publish state. The hook runs with the store locked and must
// not call back into it.
func (s *Store) SetCommitHook(fn func(*model.FloorPlan, *model.ValidationResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = fn
}

// AddVertex adds a vertex at the given coordinates and returns its id
func (s *Store) AddVertex(x, y float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.addVertexLocked(x, y)
	s.commit()
	return id
}

// AddVertexSnapped adds a vertex at the given coordinates after
// applying vertex snapping. When the point snaps onto an existing
// vertex, that vertex is reused and its id returned: snapping is how
// walls come to share endpoints.
func (s *Store) AddVertexSnapped(x, y float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := geometry.NearestVertex(r2.Vec{X: x, Y: y}, s.vertexList(), s.thresholds.SnapRadius); ok {
		return id
	}
	id := s.addVertexLocked(x, y)
	s.commit()
	return id
}

func (s *Store) addVertexLocked(x, y float64) string {
	v := &model.Vertex{ID: uuid.New().String(), X: x, Y: y}
	s.vertices[v.ID] = v
	return v.ID
}

// AddWall adds a wall between two existing, distinct vertices
func (s *Store) AddWall(startID, endID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vertices[startID] == nil {
		return "", fmt.Errorf("start vertex %s does not exist", startID)
	}
	if s.vertices[endID] == nil {
		return "", fmt.Errorf("end vertex %s does not exist", endID)
	}
	if startID == endID {
		return "", fmt.Errorf("wall endpoints must be distinct vertices")
	}

	w := &model.Wall{
		ID:            uuid.New().String(),
		StartVertexID: startID,
		EndVertexID:   endID,
		Thickness:     s.thresholds.WallThickness,
	}
	s.walls[w.ID] = w
	s.commit()
	return w.ID, nil
}

// DeleteWall removes a wall, its doors and windows, and any endpoint
// vertex left without a referencing wall
func (s *Store) DeleteWall(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.walls[id] == nil {
		return fmt.Errorf("wall %s does not exist", id)
	}
	s.deleteWallLocked(id)
	s.commit()
	return nil
}

func (s *Store) deleteWallLocked(id string) {
	w := s.walls[id]
	for did, d := range s.doors {
		if d.WallID == id {
			delete(s.doors, did)
		}
	}
	for wid, win := range s.windows {
		if win.WallID == id {
			delete(s.windows, wid)
		}
	}
	delete(s.walls, id)

	// orphan cleanup
	for _, vid := range []string{w.StartVertexID, w.EndVertexID} {
		if s.vertexDegreeLocked(vid) == 0 {
			delete(s.vertices, vid)
		}
	}
}

// DeleteVertex removes a vertex and cascades to all incident walls
// (and transitively their doors and windows)
func (s *Store) DeleteVertex(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vertices[id] == nil {
		return fmt.Errorf("vertex %s does not exist", id)
	}
	for wid, w := range s.walls {
		if w.StartVertexID == id || w.EndVertexID == id {
			s.deleteWallLocked(wid)
		}
	}
	delete(s.vertices, id)
	s.commit()
	return nil
}

// MoveVertex moves a vertex to the given coordinates
func (s *Store) MoveVertex(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.vertices[id]
	if v == nil {
		return fmt.Errorf("vertex %s does not exist", id)
	}
	v.X, v.Y = x, y
	s.commit()
	return nil
}

// MoveVertexSnapped moves a vertex, snapping the destination to any
// other vertex within the snap radius
func (s *Store) MoveVertexSnapped(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.vertices[id]
	if v == nil {
		return fmt.Errorf("vertex %s does not exist", id)
	}
	p := s.fixer.SnapVertex(r2.Vec{X: x, Y: y}, s.vertexList(), id)
	v.X, v.Y = p.X, p.Y
	s.commit()
	return nil
}

// AddDoor attaches a door to a wall at the given fractional position.
// The position is auto-corrected for clearance before storage.
func (s *Store) AddDoor(wallID string, position float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	length, err := s.wallLengthLocked(wallID)
	if err != nil {
		return "", err
	}
	d := &model.Door{
		ID:        uuid.New().String(),
		WallID:    wallID,
		Position:  s.fixer.CorrectOpeningPosition(position, s.thresholds.DoorWidth, length),
		Width:     s.thresholds.DoorWidth,
		Direction: model.DoorDirectionRight,
	}
	s.doors[d.ID] = d
	s.commit()
	return d.ID, nil
}

// AddWindow attaches a window to a wall at the given fractional
// position, auto-corrected like a door
func (s *Store) AddWindow(wallID string, position float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	length, err := s.wallLengthLocked(wallID)
	if err != nil {
		return "", err
	}
	w := &model.Window{
		ID:       uuid.New().String(),
		WallID:   wallID,
		Position: s.fixer.CorrectOpeningPosition(position, s.thresholds.WindowWidth, length),
		Width:    s.thresholds.WindowWidth,
		Height:   s.thresholds.WindowHeight,
	}
	s.windows[w.ID] = w
	s.commit()
	return w.ID, nil
}

// DeleteDoor removes a door. Room topology is unaffected, so only
// validation reruns.
func (s *Store) DeleteDoor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doors[id] == nil {
		return fmt.Errorf("door %s does not exist", id)
	}
	delete(s.doors, id)
	s.revalidate()
	return nil
}

// DeleteWindow removes a window, revalidating without a room recompute
func (s *Store) DeleteWindow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.windows[id] == nil {
		return fmt.Errorf("window %s does not exist", id)
	}
	delete(s.windows, id)
	s.revalidate()
	return nil
}

// AutoFix batch-applies opening corrections: too-wide openings are
// clamped to fit their wall and out-of-range positions are
// repositioned. Returns the number of changed elements; the plan is
// revalidated once afterwards.
func (s *Store) AutoFix() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, d := range s.doors {
		length, err := s.wallLengthLocked(d.WallID)
		if err != nil {
			continue
		}
		if w := s.clampWidthLocked(d.Width, length); w != d.Width {
			d.Width = w
			changed++
		}
		if p := s.fixer.CorrectOpeningPosition(d.Position, d.Width, length); p != d.Position {
			d.Position = p
			changed++
		}
	}
	for _, win := range s.windows {
		length, err := s.wallLengthLocked(win.WallID)
		if err != nil {
			continue
		}
		if w := s.clampWidthLocked(win.Width, length); w != win.Width {
			win.Width = w
			changed++
		}
		if p := s.fixer.CorrectOpeningPosition(win.Position, win.Width, length); p != win.Position {
			win.Position = p
			changed++
		}
	}

	if changed > 0 {
		logging.Info("auto-fix applied", "changes", changed)
	}
	s.revalidate()
	return changed
}

// clampWidthLocked shrinks an opening that cannot fit its wall
func (s *Store) clampWidthLocked(width, wallLength float64) float64 {
	if width < wallLength {
		return width
	}
	if fit := wallLength - 2*s.thresholds.MinClearance; fit > 0 {
		return fit
	}
	return wallLength / 2
}

// LoadPlan replaces the whole plan in one mutation with a single
// recompute at the end. Rooms in the incoming record are derived data
// and ignored.
func (s *Store) LoadPlan(plan *model.FloorPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	for i := range plan.Vertices {
		v := plan.Vertices[i]
		s.vertices[v.ID] = &v
	}
	for i := range plan.Walls {
		w := plan.Walls[i]
		if s.vertices[w.StartVertexID] == nil || s.vertices[w.EndVertexID] == nil {
			logging.Warn("skipping wall with missing endpoints", "wall", w.ID)
			continue
		}
		s.walls[w.ID] = &w
	}
	for i := range plan.Doors {
		d := plan.Doors[i]
		if s.walls[d.WallID] == nil {
			logging.Warn("skipping door with missing wall", "door", d.ID)
			continue
		}
		s.doors[d.ID] = &d
	}
	for i := range plan.Windows {
		w := plan.Windows[i]
		if s.walls[w.WallID] == nil {
			logging.Warn("skipping window with missing wall", "window", w.ID)
			continue
		}
		s.windows[w.ID] = &w
	}
	s.commit()
}

// Clear removes everything from the plan
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.commit()
}

func (s *Store) clearLocked() {
	s.vertices = make(map[string]*model.Vertex)
	s.walls = make(map[string]*model.Wall)
	s.doors = make(map[string]*model.Door)
	s.windows = make(map[string]*model.Window)
}

// Validation returns the result of the most recent validation pass
func (s *Store) Validation() *model.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Rooms returns the rooms derived by the most recent recompute
func (s *Store) Rooms() []*model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]*model.Room, len(s.rooms))
	copy(rooms, s.rooms)
	return rooms
}

// Plan returns a value snapshot of the complete plan, rooms included
func (s *Store) Plan() *model.FloorPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planLocked()
}

func (s *Store) planLocked() *model.FloorPlan {
	plan := &model.FloorPlan{
		Vertices: make([]model.Vertex, 0, len(s.vertices)),
		Walls:    make([]model.Wall, 0, len(s.walls)),
		Rooms:    make([]model.Room, 0, len(s.rooms)),
		Doors:    make([]model.Door, 0, len(s.doors)),
		Windows:  make([]model.Window, 0, len(s.windows)),
	}
	for _, v := range s.vertices {
		plan.Vertices = append(plan.Vertices, *v)
	}
	for _, w := range s.walls {
		plan.Walls = append(plan.Walls, *w)
	}
	for _, r := range s.rooms {
		plan.Rooms = append(plan.Rooms, *r)
	}
	for _, d := range s.doors {
		plan.Doors = append(plan.Doors, *d)
	}
	for _, w := range s.windows {
		plan.Windows = append(plan.Windows, *w)
	}
	return plan
}

// commit is the synchronous recompute pipeline triggered by every
// structural mutation: rebuild the incidence graph, re-derive rooms,
// and revalidate. No partial state is observable outside the store.
func (s *Store) commit() {
	s.graph = graph.Build(s.vertices, s.walls)

	loops := cycles.FindRooms(s.graph, s.vertices, s.walls)
	s.rooms = make([]*model.Room, 0, len(loops))
	typeCounts := make(map[model.RoomType]int)
	for i, loop := range loops {
		room := &model.Room{
			ID:        uuid.New().String(),
			VertexIDs: loop,
			Color:     roomPalette[i%len(roomPalette)],
			Area:      geometry.PolygonArea(geometry.Polygon(loop, s.vertices)),
		}
		room.Type = s.fixer.InferRoomType(room, s.doors, s.walls)
		typeCounts[room.Type]++
		room.Name = displayNames[room.Type]
		if n := typeCounts[room.Type]; n > 1 {
			room.Name = fmt.Sprintf("%s %d", room.Name, n)
		}
		s.rooms = append(s.rooms, room)
	}

	s.revalidate()
}

// revalidate reruns validation over the current snapshot without
// re-deriving rooms
func (s *Store) revalidate() {
	if s.graph == nil {
		s.graph = graph.Build(s.vertices, s.walls)
	}
	s.result = s.runner.Run(validate.Snapshot{
		Vertices: s.vertices,
		Walls:    s.walls,
		Rooms:    s.rooms,
		Doors:    s.doors,
		Windows:  s.windows,
		Graph:    s.graph,
	})
	if s.onCommit != nil {
		s.onCommit(s.planLocked(), s.result)
	}
}

func (s *Store) vertexList() []*model.Vertex {
	list := make([]*model.Vertex, 0, len(s.vertices))
	for _, v := range s.vertices {
		list = append(list, v)
	}
	return list
}

func (s *Store) vertexDegreeLocked(vertexID string) int {
	degree := 0
	for _, w := range s.walls {
		if w.StartVertexID == vertexID || w.EndVertexID == vertexID {
			degree++
		}
	}
	return degree
}

func (s *Store) wallLengthLocked(wallID string) (float64, error) {
	w := s.walls[wallID]
	if w == nil {
		return 0, fmt.Errorf("wall %s does not exist", wallID)
	}
	start := s.vertices[w.StartVertexID]
	end := s.vertices[w.EndVertexID]
	if start == nil || end == nil {
		return 0, fmt.Errorf("wall %s has missing endpoints", wallID)
	}
	return r2.Norm(r2.Sub(end.Pos(), start.Pos())), nil
}
