package hardware

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ameisner/fiberassign/geom"
)

func radialFixture(t *testing.T) *Hardware {
	t.Helper()
	return mustHardware(t, testConfig([]r2.Vec{{}}, 3.0, geom.Shape{}, geom.Shape{}))
}

func TestRadialAng2DistPlateScale(t *testing.T) {
	hw := radialFixture(t)
	// The linear coefficient dominates near the centre: one degree is
	// roughly 247 mm, 243 mm of it from the linear term.
	got := hw.RadialAng2Dist(math.Pi / 180.0)
	if got < 240.0 || got > 250.0 {
		t.Errorf("RadialAng2Dist(1 deg) = %v mm, want ~247 mm", got)
	}
	if hw.RadialAng2Dist(0) != 0 {
		t.Errorf("RadialAng2Dist(0) = %v, want 0", hw.RadialAng2Dist(0))
	}
}

func TestRadialMonotonic(t *testing.T) {
	hw := radialFixture(t)
	prev := hw.RadialAng2Dist(0)
	for theta := 1e-4; theta <= 0.03; theta += 1e-4 {
		cur := hw.RadialAng2Dist(theta)
		if cur <= prev {
			t.Fatalf("not increasing at theta=%v", theta)
		}
		prev = cur
	}
}

func TestRadialRoundTrip(t *testing.T) {
	hw := radialFixture(t)
	for r := 0.0; r <= 420.0; r += 10.0 {
		theta, err := hw.RadialDist2Ang(r)
		if err != nil {
			t.Fatalf("RadialDist2Ang(%v): %v", r, err)
		}
		back := hw.RadialAng2Dist(theta)
		if !scalar.EqualWithinAbs(back, r, 1e-6) {
			t.Errorf("round trip %v mm -> %v rad -> %v mm", r, theta, back)
		}
	}
}
