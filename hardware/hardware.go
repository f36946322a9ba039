// Package hardware models the focal plane of the instrument: the static
// description of every fiber positioner, the radial angle/distance mapping,
// the theta/phi arm kinematics, and the collision engine that decides which
// positioner configurations are feasible.
//
// The model is constructed once from externally supplied columns and is
// read-only afterwards, so a single Hardware value can be shared freely
// across goroutines for the lifetime of a planning run.
package hardware

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ameisner/fiberassign/geom"
	"github.com/ameisner/fiberassign/internal/monitoring"
	"github.com/ameisner/fiberassign/internal/units"
)

// Fiber state bits. A state of StateOK (all bits clear) means the
// positioner is fully operational.
const (
	StateOK       int32 = 0
	StateStuck    int32 = 1
	StateBroken   int32 = 2
	StateSafe     int32 = 4
	StateRestrict int32 = 8
)

const knownStateMask = StateStuck | StateBroken | StateSafe | StateRestrict

// Instrument constants fixed at construction.
const (
	// NFiberPetal is the number of science positioners per petal.
	NFiberPetal = 500

	// FocalplaneRadiusDeg is the focal-plane radius in degrees, used when
	// selecting targets available to a tile.
	FocalplaneRadiusDeg = 1.65

	// NeighborRadiusMM is the centre distance within which two
	// positioners are considered neighbors.
	NeighborRadiusMM = 14.05

	// PatrolBufferMM reduces the total arm length when deciding which
	// targets a positioner can reach.
	PatrolBufferMM = 0.2
)

// Construction errors. The model is never partially initialised: any of
// these aborts New before state is published.
var (
	ErrLengthMismatch    = errors.New("hardware: column length mismatch")
	ErrDuplicateLocation = errors.New("hardware: duplicate location id")
	ErrUnknownStateBits  = errors.New("hardware: unknown state bits")
)

// Positioner is the immutable record for a single device location. Angles
// are stored in radians, positions and arm lengths in millimetres. The
// four exclusion shapes are templates: placements clone them, never mutate
// them.
type Positioner struct {
	Location   int32
	Petal      int32
	Device     int32
	Slitblock  int32
	Blockfiber int32
	Fiber      int32
	DeviceType string

	Center r2.Vec
	State  int32

	ThetaOffset float64
	ThetaMin    float64
	ThetaMax    float64
	ThetaArm    float64
	PhiOffset   float64
	PhiMin      float64
	PhiMax      float64
	PhiArm      float64

	ExclTheta geom.Shape
	ExclPhi   geom.Shape
	ExclGFA   geom.Shape
	ExclPetal geom.Shape
}

// Config is the construction record for the focal-plane model: equal-length
// per-location columns plus a time stamp identifying the mechanical
// snapshot. Angular columns are in degrees and converted to radians on
// ingest.
type Config struct {
	TimeStr string

	Location   []int32
	Petal      []int32
	Device     []int32
	Slitblock  []int32
	Blockfiber []int32
	Fiber      []int32
	DeviceType []string

	XMM   []float64
	YMM   []float64
	State []int32

	ThetaOffset []float64 // degrees
	ThetaMin    []float64 // degrees, relative to offset
	ThetaMax    []float64 // degrees, relative to offset
	ThetaArm    []float64 // mm
	PhiOffset   []float64 // degrees
	PhiMin      []float64 // degrees, relative to offset
	PhiMax      []float64 // degrees, relative to offset
	PhiArm      []float64 // mm

	// Polygon-scan radii and angles, informational only.
	PSRadius []float64
	PSTheta  []float64

	ExclTheta []geom.Shape
	ExclPhi   []geom.Shape
	ExclGFA   []geom.Shape
	ExclPetal []geom.Shape
}

// Hardware is the focal-plane model: every positioner record, the per-petal
// location lists, and the neighbor graph. Read-only after New returns.
type Hardware struct {
	// NLoc is the number of device locations.
	NLoc int

	// NPetal is the number of petals (max petal index + 1).
	NPetal int32

	// Locations holds all location ids, sorted ascending.
	Locations []int32

	// PetalLocations maps petal index to its sorted location ids.
	PetalLocations map[int32][]int32

	// Positioners maps location id to its device record.
	Positioners map[int32]*Positioner

	// Neighbors maps each location to the locations within
	// NeighborRadiusMM of its centre. The adjacency is symmetric.
	Neighbors map[int32][]int32

	// PSRadius and PSTheta carry the polygon-scan columns unchanged.
	PSRadius []float64
	PSTheta  []float64

	timestr string
}

func (cfg *Config) checkLengths() error {
	n := len(cfg.Location)
	same := []int{
		len(cfg.Petal), len(cfg.Device), len(cfg.Slitblock),
		len(cfg.Blockfiber), len(cfg.Fiber), len(cfg.DeviceType),
		len(cfg.XMM), len(cfg.YMM), len(cfg.State),
		len(cfg.ThetaOffset), len(cfg.ThetaMin), len(cfg.ThetaMax),
		len(cfg.ThetaArm),
		len(cfg.PhiOffset), len(cfg.PhiMin), len(cfg.PhiMax),
		len(cfg.PhiArm),
		len(cfg.ExclTheta), len(cfg.ExclPhi), len(cfg.ExclGFA),
		len(cfg.ExclPetal),
	}
	for _, l := range same {
		if l != n {
			return fmt.Errorf("%w: %d locations, column of length %d",
				ErrLengthMismatch, n, l)
		}
	}
	return nil
}

// New builds the focal-plane model from a construction record. It
// validates the columns, converts angles to radians, sorts the location
// lists, builds the neighbor graph, and rotates the per-location GFA and
// petal exclusion templates to their petal position.
func New(cfg Config) (*Hardware, error) {
	if err := cfg.checkLengths(); err != nil {
		return nil, err
	}

	nloc := len(cfg.Location)
	hw := &Hardware{
		NLoc:           nloc,
		Locations:      make([]int32, 0, nloc),
		PetalLocations: make(map[int32][]int32),
		Positioners:    make(map[int32]*Positioner, nloc),
		Neighbors:      make(map[int32][]int32, nloc),
		PSRadius:       cfg.PSRadius,
		PSTheta:        cfg.PSTheta,
		timestr:        cfg.TimeStr,
	}

	maxPetal := int32(0)
	stuck := 0
	for i := 0; i < nloc; i++ {
		lid := cfg.Location[i]
		if _, ok := hw.Positioners[lid]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateLocation, lid)
		}
		if cfg.State[i]&^knownStateMask != 0 {
			return nil, fmt.Errorf("%w: location %d state %#x",
				ErrUnknownStateBits, lid, cfg.State[i])
		}
		if cfg.Petal[i] > maxPetal {
			maxPetal = cfg.Petal[i]
		}
		if cfg.State[i] != StateOK {
			stuck++
		}
		hw.Positioners[lid] = &Positioner{
			Location:    lid,
			Petal:       cfg.Petal[i],
			Device:      cfg.Device[i],
			Slitblock:   cfg.Slitblock[i],
			Blockfiber:  cfg.Blockfiber[i],
			Fiber:       cfg.Fiber[i],
			DeviceType:  cfg.DeviceType[i],
			Center:      r2.Vec{X: cfg.XMM[i], Y: cfg.YMM[i]},
			State:       cfg.State[i],
			ThetaOffset: units.Deg2Rad(cfg.ThetaOffset[i]),
			ThetaMin:    units.Deg2Rad(cfg.ThetaMin[i]),
			ThetaMax:    units.Deg2Rad(cfg.ThetaMax[i]),
			ThetaArm:    cfg.ThetaArm[i],
			PhiOffset:   units.Deg2Rad(cfg.PhiOffset[i]),
			PhiMin:      units.Deg2Rad(cfg.PhiMin[i]),
			PhiMax:      units.Deg2Rad(cfg.PhiMax[i]),
			PhiArm:      cfg.PhiArm[i],
			ExclTheta:   *cfg.ExclTheta[i].Clone(),
			ExclPhi:     *cfg.ExclPhi[i].Clone(),
			ExclGFA:     *cfg.ExclGFA[i].Clone(),
			ExclPetal:   *cfg.ExclPetal[i].Clone(),
		}
		hw.Locations = append(hw.Locations, lid)
		hw.PetalLocations[cfg.Petal[i]] =
			append(hw.PetalLocations[cfg.Petal[i]], lid)
	}
	hw.NPetal = maxPetal + 1

	monitoring.Logf("focalplane has %d fibers that are stuck / broken", stuck)

	sort.Slice(hw.Locations, func(i, j int) bool {
		return hw.Locations[i] < hw.Locations[j]
	})
	for p := range hw.PetalLocations {
		locs := hw.PetalLocations[p]
		sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	}

	// Neighbor graph: every ordered pair within the neighbor radius,
	// recorded in both directions. O(N^2) once per model is trivial next
	// to the collision checks that consume it.
	for x := 0; x < nloc; x++ {
		xid := hw.Locations[x]
		for y := x + 1; y < nloc; y++ {
			yid := hw.Locations[y]
			d := geom.Dist(hw.Positioners[xid].Center,
				hw.Positioners[yid].Center)
			if d <= NeighborRadiusMM {
				hw.Neighbors[xid] = append(hw.Neighbors[xid], yid)
				hw.Neighbors[yid] = append(hw.Neighbors[yid], xid)
			}
		}
	}

	// Rotate the GFA and petal exclusion templates into place. The
	// canonical templates are drawn for one petal wedge; location l on
	// petal p gets them rotated by ((7+p)*36) mod 360 degrees about the
	// focal-plane origin.
	for _, lid := range hw.Locations {
		pos := hw.Positioners[lid]
		rotDeg := float64((7+pos.Petal)*36 % 360)
		cs := geom.NewCosSin(units.Deg2Rad(rotDeg))
		pos.ExclGFA.RotateOrigin(cs)
		pos.ExclPetal.RotateOrigin(cs)
	}

	return hw, nil
}

// Time returns the time stamp string identifying the mechanical snapshot.
func (hw *Hardware) Time() string {
	return hw.timestr
}

// DeviceLocations returns the sorted location ids whose device type matches
// the given string ("POS", "ETC", "FIF", ...).
func (hw *Hardware) DeviceLocations(deviceType string) []int32 {
	var ret []int32
	for _, lid := range hw.Locations {
		if hw.Positioners[lid].DeviceType == deviceType {
			ret = append(ret, lid)
		}
	}
	return ret
}

// Center returns the nominal centre of a location in mm.
func (hw *Hardware) Center(loc int32) r2.Vec {
	return hw.Positioners[loc].Center
}

// LocStateOK reports whether the location has no state bits set.
func (hw *Hardware) LocStateOK(loc int32) bool {
	return hw.Positioners[loc].State == StateOK
}

// PatrolRadius returns the reach of a positioner reduced by the patrol
// buffer.
func (hw *Hardware) PatrolRadius(loc int32) float64 {
	pos := hw.Positioners[loc]
	return pos.ThetaArm + pos.PhiArm - PatrolBufferMM
}
