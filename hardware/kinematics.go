package hardware

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ameisner/fiberassign/geom"
)

// Tolerance for deciding that a target sits exactly on the patrol annulus
// boundary. Single precision, since the arm metrology is no better.
var armEps = float64(math.Nextafter32(1, 2) - 1)

// checkAngleRange normalises ang into [zero+min, zero+max] by adding or
// subtracting one full turn, and reports true if it still falls outside.
func checkAngleRange(ang, zero, min, max float64) (float64, bool) {
	absMin := zero + min
	absMax := zero + max
	if ang < absMin {
		ang += 2.0 * math.Pi
	}
	if ang > absMax {
		ang -= 2.0 * math.Pi
	}
	if ang < absMin || ang > absMax {
		return ang, true
	}
	return ang, false
}

// XYToThetaPhi solves the inverse kinematics of a two-arm positioner at
// center for a fiber position. It always picks the elbow-up branch; the
// hardware only supports one branch inside its angle limits and the range
// check rejects the rest. fail is true when the target is unreachable.
func XYToThetaPhi(center, position r2.Vec,
	thetaArm, phiArm, thetaZero, phiZero,
	thetaMin, phiMin, thetaMax, phiMax float64) (theta, phi float64, fail bool) {

	offset := r2.Sub(position, center)

	sqThetaArm := thetaArm * thetaArm
	sqPhiArm := phiArm * phiArm
	sqOffset := geom.Norm2(offset)
	sqTotalArm := (thetaArm + phiArm) * (thetaArm + phiArm)
	sqDiffArm := (thetaArm - phiArm) * (thetaArm - phiArm)

	switch {
	case math.Abs(sqOffset-sqTotalArm) <= armEps:
		// Maximum arm extension. Force phi to zero and compute theta.
		phi = 0.0
		theta = math.Atan2(offset.Y, offset.X)
	case math.Abs(sqDiffArm-sqOffset) <= armEps:
		// Arm folded fully inwards. Force phi to PI and compute theta.
		phi = math.Pi
		theta = math.Atan2(offset.Y, offset.X)
	case sqOffset > sqTotalArm || sqOffset < sqDiffArm:
		// Outside the patrol annulus for any choice of angles.
		return 0, math.Pi, true
	default:
		// Law of cosines for the opening angle at the elbow; phi is
		// its supplement.
		opening := math.Acos((sqThetaArm + sqPhiArm - sqOffset) /
			(2.0 * thetaArm * phiArm))
		phi = math.Pi - opening

		// Angle between the theta arm and the line from the center
		// to the target.
		txy := math.Acos((sqThetaArm + sqOffset - sqPhiArm) /
			(2.0 * thetaArm * math.Sqrt(sqOffset)))
		theta = math.Atan2(offset.Y, offset.X) - txy
	}

	phi, badPhi := checkAngleRange(phi, phiZero, phiMin, phiMax)
	theta, badTheta := checkAngleRange(theta, thetaZero, thetaMin, thetaMax)
	if badPhi || badTheta {
		return theta, phi, true
	}
	return theta, phi, false
}

// ThetaPhiToXY is the forward solution: the fiber position for joint
// angles theta and phi.
func ThetaPhiToXY(center r2.Vec, theta, phi, thetaArm, phiArm float64) r2.Vec {
	elbow := r2.Add(center, r2.Vec{
		X: thetaArm * math.Cos(theta),
		Y: thetaArm * math.Sin(theta),
	})
	return r2.Add(elbow, r2.Vec{
		X: phiArm * math.Cos(theta+phi),
		Y: phiArm * math.Sin(theta+phi),
	})
}

// MovePositionerThetaPhi places the theta and phi exclusion shapes for a
// positioner at center driven to joint angles theta and phi. Both shapes
// are mutated in place. Returns true if either angle is out of range, in
// which case the shapes are left untouched.
func MovePositionerThetaPhi(thetaShape, phiShape *geom.Shape,
	center r2.Vec, theta, phi,
	thetaArm, phiArm, thetaZero, phiZero,
	thetaMin, phiMin, thetaMax, phiMax float64) bool {

	phi, badPhi := checkAngleRange(phi, phiZero, phiMin, phiMax)
	theta, badTheta := checkAngleRange(theta, thetaZero, thetaMin, thetaMax)
	if badPhi || badTheta {
		return true
	}

	csTheta := geom.NewCosSin(theta)
	csPhi := geom.NewCosSin(phi)

	// Move the phi polygon into the fully extended position along the
	// X axis.
	phiShape.Translate(r2.Vec{X: thetaArm, Y: 0.0})

	// Rotate the fully extended positioner by theta about the origin.
	thetaShape.RotateOrigin(csTheta)
	phiShape.RotateOrigin(csTheta)

	// Rotate just the phi arm by phi about its pivot at the elbow.
	phiShape.Rotate(csPhi)

	// Translate the whole positioner to its centre.
	phiShape.Translate(center)
	thetaShape.Translate(center)

	return false
}

// MovePositionerXY places the exclusion shapes for a fiber position,
// solving the inverse kinematics first. Returns true if the position is
// unreachable.
func MovePositionerXY(thetaShape, phiShape *geom.Shape,
	center, position r2.Vec,
	thetaArm, phiArm, thetaZero, phiZero,
	thetaMin, phiMin, thetaMax, phiMax float64) bool {

	theta, phi, fail := XYToThetaPhi(center, position,
		thetaArm, phiArm, thetaZero, phiZero,
		thetaMin, phiMin, thetaMax, phiMax)
	if fail {
		return true
	}
	return MovePositionerThetaPhi(thetaShape, phiShape, center, theta, phi,
		thetaArm, phiArm, thetaZero, phiZero,
		thetaMin, phiMin, thetaMax, phiMax)
}
