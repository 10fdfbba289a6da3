package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/ritzau/floorplan-editor/pkg/model"
)

// PlanGraph is the undirected incidence structure of a floor plan:
// vertices are nodes, walls are edges. It wraps a gonum graph with a
// registry mapping vertex ids to gonum node ids, plus a per-vertex
// list of incident wall ids.
type PlanGraph struct {
	graph     *simple.UndirectedGraph
	ids       map[string]int64 // vertex id -> gonum node id
	paths     map[int64]string // gonum node id -> vertex id
	incidence map[string][]string
	nextID    int64
}

// NewPlanGraph creates an empty plan graph
func NewPlanGraph() *PlanGraph {
	return &PlanGraph{
		graph:     simple.NewUndirectedGraph(),
		ids:       make(map[string]int64),
		paths:     make(map[int64]string),
		incidence: make(map[string][]string),
	}
}

// AddVertex adds a vertex to the graph. Adding twice is a no-op.
func (pg *PlanGraph) AddVertex(id string) {
	if _, exists := pg.ids[id]; exists {
		return
	}
	pg.ids[id] = pg.nextID
	pg.paths[pg.nextID] = id
	pg.graph.AddNode(simple.Node(pg.nextID))
	pg.nextID++
}

// AddWall adds a wall edge between its endpoint vertices. Walls whose
// endpoints coincide are skipped; both endpoints are created on demand.
func (pg *PlanGraph) AddWall(w *model.Wall) {
	if w.StartVertexID == w.EndVertexID {
		return
	}
	pg.AddVertex(w.StartVertexID)
	pg.AddVertex(w.EndVertexID)

	startID := pg.ids[w.StartVertexID]
	endID := pg.ids[w.EndVertexID]
	if !pg.graph.HasEdgeBetween(startID, endID) {
		edge := pg.graph.NewEdge(pg.graph.Node(startID), pg.graph.Node(endID))
		pg.graph.SetEdge(edge)
	}

	pg.incidence[w.StartVertexID] = append(pg.incidence[w.StartVertexID], w.ID)
	pg.incidence[w.EndVertexID] = append(pg.incidence[w.EndVertexID], w.ID)
}

// HasVertex reports whether the vertex is present
func (pg *PlanGraph) HasVertex(id string) bool {
	_, exists := pg.ids[id]
	return exists
}

// Neighbors returns the ids of vertices connected to the given vertex
// by a wall, sorted so traversal order is deterministic.
func (pg *PlanGraph) Neighbors(vertexID string) []string {
	id, exists := pg.ids[vertexID]
	if !exists {
		return nil
	}

	var neighbors []string
	iter := pg.graph.From(id)
	for iter.Next() {
		neighbors = append(neighbors, pg.paths[iter.Node().ID()])
	}
	sort.Strings(neighbors)
	return neighbors
}

// IncidentWalls returns the ids of walls touching the given vertex
func (pg *PlanGraph) IncidentWalls(vertexID string) []string {
	return pg.incidence[vertexID]
}

// Degree returns the number of walls touching the given vertex
func (pg *PlanGraph) Degree(vertexID string) int {
	return len(pg.incidence[vertexID])
}

// VertexIDs returns all vertex ids in the graph, sorted
func (pg *PlanGraph) VertexIDs() []string {
	ids := make([]string, 0, len(pg.ids))
	for id := range pg.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Graph returns the underlying gonum graph
func (pg *PlanGraph) Graph() *simple.UndirectedGraph {
	return pg.graph
}

// Build constructs the incidence structure for the given vertex and
// wall sets. Walls whose endpoints do not resolve are skipped: the
// graph layer degrades on malformed input rather than failing.
func Build(vertices map[string]*model.Vertex, walls map[string]*model.Wall) *PlanGraph {
	pg := NewPlanGraph()

	for id := range vertices {
		pg.AddVertex(id)
	}
	for _, w := range walls {
		if vertices[w.StartVertexID] == nil || vertices[w.EndVertexID] == nil {
			continue
		}
		pg.AddWall(w)
	}

	return pg
}
