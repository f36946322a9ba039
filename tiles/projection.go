package tiles

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ameisner/fiberassign/hardware"
	"github.com/ameisner/fiberassign/internal/parallel"
	"github.com/ameisner/fiberassign/internal/units"
)

// SkyCoord is a celestial position in degrees.
type SkyCoord struct {
	RA  float64
	Dec float64
}

var (
	xAxis = r3.Vec{X: 1}
	yAxis = r3.Vec{Y: 1}
	zAxis = r3.Vec{Z: 1}
)

// RADecToXY projects a target at (ra, dec) onto the focal plane of a tile
// pointed at (tileRA, tileDec) with field rotation tileTheta. All inputs
// in degrees; output in mm. The focal plane is oriented with +y = +dec and
// +x = -RA.
func RADecToXY(hw *hardware.Hardware, tileRA, tileDec, tileTheta, ra, dec float64) r2.Vec {
	raRad := units.Deg2Rad(ra)
	incRad := units.Deg2Rad(90.0 - dec)
	tileRARad := units.Deg2Rad(tileRA)
	tileDecRad := units.Deg2Rad(tileDec)
	tileThetaRad := units.Deg2Rad(tileTheta)

	// Unit vector of the target on the celestial sphere.
	sinInc := math.Sin(incRad)
	v := r3.Vec{
		X: sinInc * math.Cos(raRad),
		Y: sinInc * math.Sin(raRad),
		Z: math.Cos(incRad),
	}

	// Rotate into the tile-centred frame: undo the tile RA about Z,
	// then the tile Dec about Y.
	v = r3.NewRotation(-tileRARad, zAxis).Rotate(v)
	v = r3.NewRotation(tileDecRad, yAxis).Rotate(v)

	raAng := math.Atan2(v.Y, v.X)
	if raAng < 0 {
		raAng += 2.0 * math.Pi
	}
	decAng := math.Pi/2.0 - math.Acos(v.Z/r3.Norm(v))

	// Angular separation from the field centre, by haversine.
	sd := math.Sin(decAng / 2.0)
	sr := math.Sin(raAng / 2.0)
	radiusRad := 2.0 * math.Asin(math.Sqrt(sd*sd+math.Cos(decAng)*sr*sr))

	// Position angle about the field centre.
	q := math.Atan2(v.Z, -v.Y)

	radiusMM := hw.RadialAng2Dist(radiusRad)

	// Apply the field rotation.
	rotated := q + tileThetaRad

	return r2.Vec{
		X: radiusMM * math.Cos(rotated),
		Y: radiusMM * math.Sin(rotated),
	}
}

// XYToRADec is the exact inverse of RADecToXY, mapping a focal-plane
// position in mm back to the sky. The returned RA is normalised into
// [0, 360).
func XYToRADec(hw *hardware.Hardware, tileRA, tileDec, tileTheta float64, xy r2.Vec) (SkyCoord, error) {
	tileRARad := units.Deg2Rad(tileRA)
	tileDecRad := units.Deg2Rad(tileDec)
	tileThetaRad := units.Deg2Rad(tileTheta)

	radiusMM := math.Hypot(xy.X, xy.Y)
	radiusRad, err := hw.RadialDist2Ang(radiusMM)
	if err != nil {
		return SkyCoord{}, err
	}

	// Remove the field rotation to recover the position angle.
	q := math.Atan2(xy.Y, xy.X) - tileThetaRad

	// Start from the field centre axis, open up by the radial angle,
	// swing by the position angle, then restore the tile pointing.
	v := r3.Vec{X: math.Cos(radiusRad), Y: -math.Sin(radiusRad)}
	v = r3.NewRotation(-q, xAxis).Rotate(v)
	v = r3.NewRotation(-tileDecRad, yAxis).Rotate(v)
	v = r3.NewRotation(tileRARad, zAxis).Rotate(v)

	raRad := math.Atan2(v.Y, v.X)
	if raRad < 0 {
		raRad += 2.0 * math.Pi
	}
	decRad := math.Pi/2.0 - math.Acos(v.Z)

	return SkyCoord{
		RA:  math.Mod(units.Rad2Deg(raRad), 360.0),
		Dec: units.Rad2Deg(decRad),
	}, nil
}

// RADecToXYMulti projects many targets concurrently. The output index
// matches the input index; threads <= 0 uses one worker per CPU.
func RADecToXYMulti(hw *hardware.Hardware, tileRA, tileDec, tileTheta float64,
	ra, dec []float64, threads int) []r2.Vec {

	xy := make([]r2.Vec, len(ra))
	parallel.For(len(ra), threads, func(i int) {
		xy[i] = RADecToXY(hw, tileRA, tileDec, tileTheta, ra[i], dec[i])
	})
	return xy
}

// XYToRADecMulti maps many focal-plane positions back to the sky
// concurrently. If any element fails to invert, the first error observed
// is returned alongside the partial results.
func XYToRADecMulti(hw *hardware.Hardware, tileRA, tileDec, tileTheta float64,
	xy []r2.Vec, threads int) ([]SkyCoord, error) {

	radec := make([]SkyCoord, len(xy))
	var mu sync.Mutex
	var firstErr error
	parallel.For(len(xy), threads, func(i int) {
		sc, err := XYToRADec(hw, tileRA, tileDec, tileTheta, xy[i])
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}
		radec[i] = sc
	})
	return radec, firstErr
}
