package hardware

import (
	"errors"
	"math"
)

// Coefficients of the radial fit, highest order first. The value is
// evaluated in Horner form as p0·θ³ + p1·θ² + p2·θ + p3; the constant p3
// is zero, and p2 is the plate scale in mm per radian at the field centre.
var radialPoly = [4]float64{8.297e5, -1750.0, 1.394e4, 0.0}

// ErrNoConvergence is returned when the radial inverse fails to converge.
// Inside the supported plate radius this cannot happen; hitting it means
// the caller asked for a distance outside the plate.
var ErrNoConvergence = errors.New("hardware: radial inverse did not converge")

const (
	radialTolMM      = 1e-7
	radialDeltaRad   = 1e-4
	radialStartRad   = 0.01
	radialMaxNewtonI = 100
)

// RadialAng2Dist returns the radial distance in mm on the focal plane for
// an angle from the field centre in radians. Monotonically increasing over
// the plate.
func (hw *Hardware) RadialAng2Dist(thetaRad float64) float64 {
	dist := 0.0
	for _, p := range radialPoly {
		dist = thetaRad*dist + p
	}
	return dist
}

// RadialDist2Ang returns the angle in radians from the field centre for a
// radial distance in mm, by Newton iteration against RadialAng2Dist using a
// forward finite difference.
func (hw *Hardware) RadialDist2Ang(distMM float64) (float64, error) {
	theta := radialStartRad
	for i := 0; i < radialMaxNewtonI; i++ {
		cur := hw.RadialAng2Dist(theta)
		err := cur - distMM
		if math.Abs(err) <= radialTolMM {
			return theta, nil
		}
		slope := (hw.RadialAng2Dist(theta+radialDeltaRad) - cur) / radialDeltaRad
		theta -= err / slope
	}
	return theta, ErrNoConvergence
}
