package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ritzau/floorplan-editor/pkg/model"
)

// All functions in this package are total over degenerate input: they
// return zero/false/empty sentinels instead of failing. Domain-level
// defects are reported by the validate package, never here.

// SignedArea returns the signed shoelace area of the closed point
// sequence. Positive for counterclockwise winding in the raw coordinate
// algebra, negative for clockwise. Returns 0 for fewer than 3 points.
func SignedArea(points []r2.Vec) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return area / 2
}

// PolygonArea returns the unsigned area of the closed point sequence.
// Invariant under rotation of the point list and under winding reversal.
func PolygonArea(points []r2.Vec) float64 {
	return math.Abs(SignedArea(points))
}

// PointInPolygon reports whether p lies inside the polygon using the
// even-odd ray-casting rule. Points exactly on the boundary are not
// guaranteed either way.
func PointInPolygon(p r2.Vec, polygon []r2.Vec) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// NearestVertex returns the id of the vertex closest to p within
// maxDistance. Returns ("", false) when no vertex qualifies. Distance
// ties resolve to the lexicographically smallest id so repeated calls
// are stable.
func NearestVertex(p r2.Vec, vertices []*model.Vertex, maxDistance float64) (string, bool) {
	bestID := ""
	bestDist := maxDistance
	for _, v := range vertices {
		d := r2.Norm(r2.Sub(v.Pos(), p))
		if d > bestDist {
			continue
		}
		if d < bestDist || bestID == "" || v.ID < bestID {
			bestID = v.ID
			bestDist = d
		}
	}
	return bestID, bestID != ""
}

// SegmentsIntersect reports whether segments p1-p2 and p3-p4 properly
// cross. Segments that only touch at a shared endpoint, or that are
// collinear, are not considered intersecting: walls sharing a vertex
// are a normal state and must not be flagged.
func SegmentsIntersect(p1, p2, p3, p4 r2.Vec) bool {
	d1 := r2.Cross(r2.Sub(p2, p1), r2.Sub(p3, p1))
	d2 := r2.Cross(r2.Sub(p2, p1), r2.Sub(p4, p1))
	d3 := r2.Cross(r2.Sub(p4, p3), r2.Sub(p1, p3))
	d4 := r2.Cross(r2.Sub(p4, p3), r2.Sub(p2, p3))

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// PointToSegmentDistance returns the distance from p to the segment
// a-b, with the projection parameter clamped to [0,1]. Degenerate
// segments (a == b) reduce to the point distance.
func PointToSegmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	len2 := r2.Norm2(ab)
	if len2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / len2
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p, closest))
}

// Polygon resolves an ordered vertex-id loop into its point sequence.
// Missing ids are skipped.
func Polygon(vertexIDs []string, vertices map[string]*model.Vertex) []r2.Vec {
	points := make([]r2.Vec, 0, len(vertexIDs))
	for _, id := range vertexIDs {
		if v := vertices[id]; v != nil {
			points = append(points, v.Pos())
		}
	}
	return points
}

// PolygonsOverlap reports whether two polygons overlap: any vertex of
// one lies inside the other, or any pair of edges properly crosses.
func PolygonsOverlap(polyA, polyB []r2.Vec) bool {
	if len(polyA) < 3 || len(polyB) < 3 {
		return false
	}
	for _, p := range polyA {
		if PointInPolygon(p, polyB) {
			return true
		}
	}
	for _, p := range polyB {
		if PointInPolygon(p, polyA) {
			return true
		}
	}
	return edgesCross(polyA, polyB)
}

// edgesCross tests every edge pair of the two polygons
func edgesCross(polyA, polyB []r2.Vec) bool {
	na, nb := len(polyA), len(polyB)
	for i := 0; i < na; i++ {
		a1 := polyA[i]
		a2 := polyA[(i+1)%na]
		for j := 0; j < nb; j++ {
			b1 := polyB[j]
			b2 := polyB[(j+1)%nb]
			if SegmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}
