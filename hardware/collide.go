package hardware

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ameisner/fiberassign/geom"
	"github.com/ameisner/fiberassign/internal/parallel"
)

// Placement is the result of positioning one device: whether the move
// failed and the placed theta and phi exclusion shapes. The shapes are
// clones of the model templates, owned by the caller.
type Placement struct {
	Fail  bool
	Theta *geom.Shape
	Phi   *geom.Shape
}

// PositionXYBad reports whether the kinematics alone make the fiber
// position infeasible for this location: outside the patrol annulus, or
// implying joint angles beyond the mechanical range.
func (hw *Hardware) PositionXYBad(loc int32, xy r2.Vec) bool {
	pos := hw.Positioners[loc]
	_, _, fail := XYToThetaPhi(pos.Center, xy,
		pos.ThetaArm, pos.PhiArm, pos.ThetaOffset, pos.PhiOffset,
		pos.ThetaMin, pos.PhiMin, pos.ThetaMax, pos.PhiMax)
	return fail
}

// LocPositionXY places the exclusion shapes of a location for a fiber
// position. The returned shapes are fresh clones of the templates.
func (hw *Hardware) LocPositionXY(loc int32, xy r2.Vec) (bool, *geom.Shape, *geom.Shape) {
	pos := hw.Positioners[loc]
	thetaShape := pos.ExclTheta.Clone()
	phiShape := pos.ExclPhi.Clone()
	fail := MovePositionerXY(thetaShape, phiShape, pos.Center, xy,
		pos.ThetaArm, pos.PhiArm, pos.ThetaOffset, pos.PhiOffset,
		pos.ThetaMin, pos.PhiMin, pos.ThetaMax, pos.PhiMax)
	return fail, thetaShape, phiShape
}

// LocPositionThetaPhi places the exclusion shapes of a location for joint
// angles theta and phi.
func (hw *Hardware) LocPositionThetaPhi(loc int32, theta, phi float64) (bool, *geom.Shape, *geom.Shape) {
	pos := hw.Positioners[loc]
	thetaShape := pos.ExclTheta.Clone()
	phiShape := pos.ExclPhi.Clone()
	fail := MovePositionerThetaPhi(thetaShape, phiShape, pos.Center,
		theta, phi,
		pos.ThetaArm, pos.PhiArm, pos.ThetaOffset, pos.PhiOffset,
		pos.ThetaMin, pos.PhiMin, pos.ThetaMax, pos.PhiMax)
	return fail, thetaShape, phiShape
}

// placedPairHit runs the three shape intersection tests between two placed
// positioners. The theta bodies are central columns that cannot reach each
// other, so theta against theta is never tested.
func placedPairHit(p1, p2 Placement) bool {
	if p1.Fail || p2.Fail {
		// An unreachable placement is treated the same as a
		// collision: the configuration cannot be accepted.
		return true
	}
	if geom.Intersect(p1.Phi, p2.Phi) {
		return true
	}
	if geom.Intersect(p1.Theta, p2.Phi) {
		return true
	}
	if geom.Intersect(p2.Theta, p1.Phi) {
		return true
	}
	return false
}

// CollideXY reports whether two positioners driven to fiber positions xy1
// and xy2 collide, or whether either placement is infeasible.
func (hw *Hardware) CollideXY(loc1 int32, xy1 r2.Vec, loc2 int32, xy2 r2.Vec) bool {
	fail1, theta1, phi1 := hw.LocPositionXY(loc1, xy1)
	p1 := Placement{Fail: fail1, Theta: theta1, Phi: phi1}
	fail2, theta2, phi2 := hw.LocPositionXY(loc2, xy2)
	p2 := Placement{Fail: fail2, Theta: theta2, Phi: phi2}
	return placedPairHit(p1, p2)
}

// CollideThetaPhi is CollideXY on joint angles.
func (hw *Hardware) CollideThetaPhi(loc1 int32, theta1, phi1 float64,
	loc2 int32, theta2, phi2 float64) bool {
	fail1, ts1, ps1 := hw.LocPositionThetaPhi(loc1, theta1, phi1)
	p1 := Placement{Fail: fail1, Theta: ts1, Phi: ps1}
	fail2, ts2, ps2 := hw.LocPositionThetaPhi(loc2, theta2, phi2)
	p2 := Placement{Fail: fail2, Theta: ts2, Phi: ps2}
	return placedPairHit(p1, p2)
}

// CollideXYEdges reports whether a positioner driven to a fiber position
// crosses the GFA or petal boundary of its own petal, or whether the
// placement is infeasible. Only the phi arm is tested: the central body
// cannot reach either boundary.
func (hw *Hardware) CollideXYEdges(loc int32, xy r2.Vec) bool {
	fail, _, phiShape := hw.LocPositionXY(loc, xy)
	if fail {
		return true
	}
	pos := hw.Positioners[loc]
	if geom.Intersect(phiShape, &pos.ExclGFA) {
		return true
	}
	if geom.Intersect(phiShape, &pos.ExclPetal) {
		return true
	}
	return false
}

// PositionXYMulti places many positioners concurrently. Results are
// indexed by input order. threads <= 0 uses one worker per CPU.
func (hw *Hardware) PositionXYMulti(locs []int32, xy []r2.Vec, threads int) []Placement {
	result := make([]Placement, len(locs))
	parallel.For(len(locs), threads, func(i int) {
		fail, thetaShape, phiShape := hw.LocPositionXY(locs[i], xy[i])
		result[i] = Placement{Fail: fail, Theta: thetaShape, Phi: phiShape}
	})
	return result
}

// PositionThetaPhiMulti places many positioners concurrently from joint
// angles.
func (hw *Hardware) PositionThetaPhiMulti(locs []int32, theta, phi []float64, threads int) []Placement {
	result := make([]Placement, len(locs))
	parallel.For(len(locs), threads, func(i int) {
		fail, thetaShape, phiShape := hw.LocPositionThetaPhi(locs[i], theta[i], phi[i])
		result[i] = Placement{Fail: fail, Theta: thetaShape, Phi: phiShape}
	})
	return result
}

// locPair is an unordered neighbor pair stored as (lo, hi) with lo < hi so
// every intersection test runs exactly once.
type locPair struct {
	lo int32
	hi int32
}

// neighborPairs collects the deduplicated neighbor pairs restricted to the
// input set, together with the input index of every location.
func (hw *Hardware) neighborPairs(locs []int32) (map[int32]int, []locPair) {
	locIndex := make(map[int32]int, len(locs))
	for i, lid := range locs {
		locIndex[lid] = i
	}
	seen := make(map[locPair]struct{})
	var pairs []locPair
	for _, lid := range locs {
		for _, nb := range hw.Neighbors[lid] {
			if _, ok := locIndex[nb]; !ok {
				continue
			}
			p := locPair{lo: lid, hi: nb}
			if nb < lid {
				p = locPair{lo: nb, hi: lid}
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	return locIndex, pairs
}

// checkCollisions marks both members of every placed neighbor pair that
// collides. Writes go through a single mutex; the marking is idempotent so
// the critical section stays short.
func checkCollisions(placements []Placement, locIndex map[int32]int,
	pairs []locPair, threads int) []bool {

	result := make([]bool, len(placements))
	var mu sync.Mutex
	parallel.For(len(pairs), threads, func(i int) {
		i1 := locIndex[pairs[i].lo]
		i2 := locIndex[pairs[i].hi]
		if placedPairHit(placements[i1], placements[i2]) {
			mu.Lock()
			result[i1] = true
			result[i2] = true
			mu.Unlock()
		}
	})
	return result
}

// CheckCollisionsXY places every positioner at its fiber position and
// tests all neighbor pairs within the input set. The result is parallel to
// the input: true means the positioner conflicts with at least one
// neighbor or is itself infeasible as part of a tested pair. Note that
// only pairs are tested here; boundary checks are CollideXYEdges.
func (hw *Hardware) CheckCollisionsXY(locs []int32, xy []r2.Vec, threads int) []bool {
	placements := hw.PositionXYMulti(locs, xy, threads)
	locIndex, pairs := hw.neighborPairs(locs)
	return checkCollisions(placements, locIndex, pairs, threads)
}

// CheckCollisionsThetaPhi is CheckCollisionsXY on joint angles.
func (hw *Hardware) CheckCollisionsThetaPhi(locs []int32, theta, phi []float64, threads int) []bool {
	placements := hw.PositionThetaPhiMulti(locs, theta, phi, threads)
	locIndex, pairs := hw.neighborPairs(locs)
	return checkCollisions(placements, locIndex, pairs, threads)
}
