// Package geom provides the 2D geometry primitives used by the focal-plane
// model: points, segments, and closed polygons with rigid-motion operations
// and polygon-polygon intersection.
//
// Points are gonum r2 vectors in millimetres. Rotations take precomputed
// cosine/sine pairs so callers can amortise the trig across many shapes
// rotated by the same angle.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// orientEps is the tolerance below which an orientation value in segment
// intersection counts as zero: near-collinear configurations are handled by
// the touching tests rather than the strict crossing test, and a touch,
// including a shared endpoint, registers as a hit.
const orientEps = 1e-12

// CosSin is a precomputed rotation, cos and sin of the rotation angle.
type CosSin struct {
	Cos float64
	Sin float64
}

// NewCosSin computes the rotation pair for an angle in radians.
func NewCosSin(angRad float64) CosSin {
	return CosSin{Cos: math.Cos(angRad), Sin: math.Sin(angRad)}
}

// Segment is a directed line segment between two points.
type Segment struct {
	P1 r2.Vec
	P2 r2.Vec
}

// Shape is a closed polygon stored as an ordered list of segments, where
// consecutive segments share endpoints, plus a mutable pivot used as the
// rotation centre for Rotate. Rigid motions preserve the shared-endpoint
// invariant because every vertex receives the same transform.
type Shape struct {
	Segments []Segment
	Pivot    r2.Vec
}

// NewShape builds a closed polygon from an ordered vertex ring. The last
// vertex is joined back to the first. A ring of fewer than two vertices
// yields an empty shape.
func NewShape(vertices []r2.Vec, pivot r2.Vec) *Shape {
	s := &Shape{Pivot: pivot}
	if len(vertices) < 2 {
		return s
	}
	s.Segments = make([]Segment, len(vertices))
	for i, v := range vertices {
		next := vertices[(i+1)%len(vertices)]
		s.Segments[i] = Segment{P1: v, P2: next}
	}
	return s
}

// Clone returns a deep copy. Placements always work on clones so the model
// templates are never mutated.
func (s *Shape) Clone() *Shape {
	c := &Shape{Pivot: s.Pivot}
	if len(s.Segments) > 0 {
		c.Segments = make([]Segment, len(s.Segments))
		copy(c.Segments, s.Segments)
	}
	return c
}

// Translate shifts every vertex and the pivot by delta.
func (s *Shape) Translate(delta r2.Vec) {
	for i := range s.Segments {
		s.Segments[i].P1 = r2.Add(s.Segments[i].P1, delta)
		s.Segments[i].P2 = r2.Add(s.Segments[i].P2, delta)
	}
	s.Pivot = r2.Add(s.Pivot, delta)
}

func rotate(v r2.Vec, cs CosSin) r2.Vec {
	return r2.Vec{
		X: cs.Cos*v.X - cs.Sin*v.Y,
		Y: cs.Sin*v.X + cs.Cos*v.Y,
	}
}

// RotateOrigin rotates every vertex and the pivot about (0,0).
func (s *Shape) RotateOrigin(cs CosSin) {
	for i := range s.Segments {
		s.Segments[i].P1 = rotate(s.Segments[i].P1, cs)
		s.Segments[i].P2 = rotate(s.Segments[i].P2, cs)
	}
	s.Pivot = rotate(s.Pivot, cs)
}

// Rotate rotates every vertex about the current pivot. The pivot itself is
// unchanged.
func (s *Shape) Rotate(cs CosSin) {
	for i := range s.Segments {
		s.Segments[i].P1 = r2.Add(s.Pivot, rotate(r2.Sub(s.Segments[i].P1, s.Pivot), cs))
		s.Segments[i].P2 = r2.Add(s.Pivot, rotate(r2.Sub(s.Segments[i].P2, s.Pivot), cs))
	}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Norm2 returns the squared norm of v.
func Norm2(v r2.Vec) float64 {
	return r2.Norm2(v)
}

// orient is twice the signed area of the triangle (a, b, c).
func orient(a, b, c r2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment reports whether p, known to be collinear with the segment
// endpoints, lies within its bounding box.
func onSegment(a, b, p r2.Vec) bool {
	return math.Min(a.X, b.X)-orientEps <= p.X && p.X <= math.Max(a.X, b.X)+orientEps &&
		math.Min(a.Y, b.Y)-orientEps <= p.Y && p.Y <= math.Max(a.Y, b.Y)+orientEps
}

// segmentsIntersect reports whether the two segments cross or touch.
func segmentsIntersect(s, t Segment) bool {
	d1 := orient(t.P1, t.P2, s.P1)
	d2 := orient(t.P1, t.P2, s.P2)
	d3 := orient(s.P1, s.P2, t.P1)
	d4 := orient(s.P1, s.P2, t.P2)

	if ((d1 > orientEps && d2 < -orientEps) || (d1 < -orientEps && d2 > orientEps)) &&
		((d3 > orientEps && d4 < -orientEps) || (d3 < -orientEps && d4 > orientEps)) {
		return true
	}

	// Collinear or endpoint-touching cases. Zero-area overlap counts.
	if math.Abs(d1) <= orientEps && onSegment(t.P1, t.P2, s.P1) {
		return true
	}
	if math.Abs(d2) <= orientEps && onSegment(t.P1, t.P2, s.P2) {
		return true
	}
	if math.Abs(d3) <= orientEps && onSegment(s.P1, s.P2, t.P1) {
		return true
	}
	if math.Abs(d4) <= orientEps && onSegment(s.P1, s.P2, t.P2) {
		return true
	}
	return false
}

// contains reports whether p lies strictly inside the polygon, by ray
// casting against every edge.
func (s *Shape) contains(p r2.Vec) bool {
	inside := false
	for _, sg := range s.Segments {
		a, b := sg.P1, sg.P2
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// Intersect reports whether two polygons overlap: any segment of one
// crosses or touches a segment of the other, or either polygon wholly
// contains a vertex of the other. Empty shapes never intersect anything.
func Intersect(a, b *Shape) bool {
	if len(a.Segments) == 0 || len(b.Segments) == 0 {
		return false
	}
	for _, sa := range a.Segments {
		for _, sb := range b.Segments {
			if segmentsIntersect(sa, sb) {
				return true
			}
		}
	}
	// No edge crossings: one polygon may still sit entirely inside the
	// other, so a single vertex test per direction suffices.
	if b.contains(a.Segments[0].P1) {
		return true
	}
	if a.contains(b.Segments[0].P1) {
		return true
	}
	return false
}
