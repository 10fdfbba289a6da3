package cycles

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ritzau/floorplan-editor/pkg/geometry"
	"github.com/ritzau/floorplan-editor/pkg/graph"
	"github.com/ritzau/floorplan-editor/pkg/model"
)

// Faces below this signed area are treated as degenerate and dropped
const areaEpsilon = 1e-9

// FindRooms extracts the minimal enclosed faces of the plan graph as
// ordered vertex-id loops, one per visually closed area.
//
// For every wall, a walk is attempted in both directions: at each
// vertex the walk takes the neighbor with the smallest positive
// clockwise angular offset from the reversed incoming direction. This
// traces every face of the planar subdivision exactly once per
// starting edge; bounded faces come out with positive signed area and
// the unbounded outer face with negative area, so keeping the positive
// loops yields exactly the rooms. Duplicates found from different
// starting edges are removed by normalizing each loop.
func FindRooms(pg *graph.PlanGraph, vertices map[string]*model.Vertex, walls map[string]*model.Wall) [][]string {
	wallIDs := make([]string, 0, len(walls))
	for id := range walls {
		wallIDs = append(wallIDs, id)
	}
	sort.Strings(wallIDs)

	seen := make(map[string]bool)
	var rooms [][]string

	for _, id := range wallIDs {
		w := walls[id]
		if vertices[w.StartVertexID] == nil || vertices[w.EndVertexID] == nil {
			continue
		}
		for _, dir := range [][2]string{
			{w.StartVertexID, w.EndVertexID},
			{w.EndVertexID, w.StartVertexID},
		} {
			cycle := walkFace(pg, vertices, dir[0], dir[1])
			if cycle == nil {
				continue
			}
			if geometry.SignedArea(geometry.Polygon(cycle, vertices)) <= areaEpsilon {
				continue
			}
			normalized := normalize(cycle)
			key := strings.Join(normalized, "|")
			if seen[key] {
				continue
			}
			seen[key] = true
			rooms = append(rooms, normalized)
		}
	}

	sort.Slice(rooms, func(i, j int) bool {
		return strings.Join(rooms[i], "|") < strings.Join(rooms[j], "|")
	})
	return rooms
}

// walkFace walks from the directed edge start->second, always taking
// the most clockwise turn, until it returns to start (face found) or
// aborts. Returns nil on dead ends, revisits, or when the step cap is
// exceeded (malformed graphs must not loop forever).
func walkFace(pg *graph.PlanGraph, vertices map[string]*model.Vertex, start, second string) []string {
	maxSteps := len(vertices) + 1

	path := []string{start, second}
	visited := map[string]bool{start: true, second: true}
	prev, cur := start, second

	for step := 0; step < maxSteps; step++ {
		next := clockwiseNext(pg, vertices, prev, cur)
		if next == "" {
			return nil // dead end
		}
		if next == start {
			if len(path) < 3 {
				return nil
			}
			return path
		}
		if visited[next] {
			return nil
		}
		path = append(path, next)
		visited[next] = true
		prev, cur = cur, next
	}
	return nil
}

// clockwiseNext picks, among the neighbors of cur other than prev, the
// one whose outgoing direction has the smallest positive clockwise
// angular offset from the reversed incoming direction. Exact angle
// ties resolve to the smallest vertex id; the neighbor list is already
// sorted, so the first minimal candidate wins.
func clockwiseNext(pg *graph.PlanGraph, vertices map[string]*model.Vertex, prev, cur string) string {
	curPos := vertices[cur].Pos()
	back := r2.Sub(vertices[prev].Pos(), curPos)
	baseAngle := math.Atan2(back.Y, back.X)

	best := ""
	bestOffset := math.Inf(1)
	for _, n := range pg.Neighbors(cur) {
		if n == prev {
			continue
		}
		out := r2.Sub(vertices[n].Pos(), curPos)
		offset := clockwiseOffset(baseAngle, math.Atan2(out.Y, out.X))
		if offset < bestOffset {
			best = n
			bestOffset = offset
		}
	}
	return best
}

// clockwiseOffset returns the clockwise angle from base to a in (0, 2π]
func clockwiseOffset(base, a float64) float64 {
	offset := math.Mod(base-a, 2*math.Pi)
	if offset <= 0 {
		offset += 2 * math.Pi
	}
	return offset
}

// normalize rotates the loop to start at its smallest vertex id and
// fixes the direction so that the two rotations of the same face
// compare equal.
func normalize(cycle []string) []string {
	n := len(cycle)

	smallest := 0
	for i := 1; i < n; i++ {
		if cycle[i] < cycle[smallest] {
			smallest = i
		}
	}

	rotated := make([]string, n)
	for i := 0; i < n; i++ {
		rotated[i] = cycle[(smallest+i)%n]
	}

	// Canonical direction: the neighbor following the smallest id must
	// be the smaller of the two adjacent ids.
	if rotated[n-1] < rotated[1] {
		for i, j := 1, n-1; i < j; i, j = i+1, j-1 {
			rotated[i], rotated[j] = rotated[j], rotated[i]
		}
	}
	return rotated
}
