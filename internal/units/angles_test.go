package units

import (
	"math"
	"testing"
)

func TestDeg2Rad(t *testing.T) {
	if got := Deg2Rad(180.0); math.Abs(got-math.Pi) > 1e-15 {
		t.Errorf("Deg2Rad(180) = %v, want pi", got)
	}
}

func TestRad2Deg(t *testing.T) {
	if got := Rad2Deg(math.Pi / 2); math.Abs(got-90.0) > 1e-12 {
		t.Errorf("Rad2Deg(pi/2) = %v, want 90", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for d := -360.0; d <= 360.0; d += 7.3 {
		if got := Rad2Deg(Deg2Rad(d)); math.Abs(got-d) > 1e-12 {
			t.Errorf("round trip %v -> %v", d, got)
		}
	}
}
