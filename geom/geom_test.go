package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func square(cx, cy, half float64) *Shape {
	return NewShape([]r2.Vec{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}, r2.Vec{X: cx, Y: cy})
}

func TestNewShapeClosed(t *testing.T) {
	s := square(0, 0, 1)
	if len(s.Segments) != 4 {
		t.Fatalf("segments = %d, want 4", len(s.Segments))
	}
	for i, sg := range s.Segments {
		next := s.Segments[(i+1)%len(s.Segments)]
		if sg.P2 != next.P1 {
			t.Errorf("segment %d end %v != next start %v", i, sg.P2, next.P1)
		}
	}
}

func TestTranslate(t *testing.T) {
	s := square(0, 0, 1)
	s.Translate(r2.Vec{X: 3, Y: -2})
	if got := s.Segments[0].P1; got != (r2.Vec{X: 2, Y: -3}) {
		t.Errorf("vertex = %v, want (2,-3)", got)
	}
	if s.Pivot != (r2.Vec{X: 3, Y: -2}) {
		t.Errorf("pivot = %v, want (3,-2)", s.Pivot)
	}
}

func TestRotateOrigin(t *testing.T) {
	s := NewShape([]r2.Vec{{X: 1, Y: 0}, {X: 2, Y: 0}}, r2.Vec{X: 1, Y: 0})
	s.RotateOrigin(NewCosSin(math.Pi / 2))
	got := s.Segments[0].P1
	if math.Abs(got.X) > 1e-12 || math.Abs(got.Y-1) > 1e-12 {
		t.Errorf("vertex = %v, want (0,1)", got)
	}
	if math.Abs(s.Pivot.X) > 1e-12 || math.Abs(s.Pivot.Y-1) > 1e-12 {
		t.Errorf("pivot = %v, want (0,1)", s.Pivot)
	}
}

func TestRotateAboutPivot(t *testing.T) {
	// A segment from (1,0) to (2,0) with pivot (1,0); a half turn about
	// the pivot sends (2,0) to (0,0) and leaves the pivot alone.
	s := NewShape([]r2.Vec{{X: 1, Y: 0}, {X: 2, Y: 0}}, r2.Vec{X: 1, Y: 0})
	s.Rotate(NewCosSin(math.Pi))
	got := s.Segments[0].P2
	if math.Abs(got.X) > 1e-12 || math.Abs(got.Y) > 1e-12 {
		t.Errorf("vertex = %v, want (0,0)", got)
	}
	if s.Pivot != (r2.Vec{X: 1, Y: 0}) {
		t.Errorf("pivot moved: %v", s.Pivot)
	}
}

func TestCloneIndependent(t *testing.T) {
	s := square(0, 0, 1)
	c := s.Clone()
	c.Translate(r2.Vec{X: 10})
	if s.Segments[0].P1 == c.Segments[0].P1 {
		t.Error("clone shares vertex storage with original")
	}
}

func TestIntersectCrossing(t *testing.T) {
	a := square(0, 0, 1)
	b := square(1.5, 0, 1)
	if !Intersect(a, b) {
		t.Error("overlapping squares should intersect")
	}
}

func TestIntersectDisjoint(t *testing.T) {
	a := square(0, 0, 1)
	b := square(5, 0, 1)
	if Intersect(a, b) {
		t.Error("distant squares should not intersect")
	}
}

func TestIntersectEdgeTouch(t *testing.T) {
	// Squares sharing the edge x=1. Zero-area overlap counts.
	a := square(0, 0, 1)
	b := square(2, 0, 1)
	if !Intersect(a, b) {
		t.Error("edge-touching squares should intersect")
	}
}

func TestIntersectContained(t *testing.T) {
	outer := square(0, 0, 5)
	inner := square(0.5, 0.5, 1)
	if !Intersect(outer, inner) {
		t.Error("contained square should intersect")
	}
	if !Intersect(inner, outer) {
		t.Error("containment should be symmetric")
	}
}

func TestIntersectEmpty(t *testing.T) {
	empty := &Shape{}
	a := square(0, 0, 1)
	if Intersect(empty, a) || Intersect(a, empty) || Intersect(empty, empty) {
		t.Error("empty shapes never intersect")
	}
}

func TestDist(t *testing.T) {
	d := Dist(r2.Vec{X: 1, Y: 2}, r2.Vec{X: 4, Y: 6})
	if math.Abs(d-5) > 1e-12 {
		t.Errorf("dist = %v, want 5", d)
	}
}

func TestNorm2(t *testing.T) {
	if got := Norm2(r2.Vec{X: 3, Y: 4}); math.Abs(got-25) > 1e-12 {
		t.Errorf("norm2 = %v, want 25", got)
	}
}

func TestRigidMotionPreservesClosure(t *testing.T) {
	s := square(2, 3, 1.5)
	s.RotateOrigin(NewCosSin(0.37))
	s.Rotate(NewCosSin(-1.2))
	s.Translate(r2.Vec{X: -4, Y: 9})
	for i, sg := range s.Segments {
		next := s.Segments[(i+1)%len(s.Segments)]
		if Dist(sg.P2, next.P1) > 1e-12 {
			t.Errorf("segment %d endpoint drifted from next start", i)
		}
	}
}
