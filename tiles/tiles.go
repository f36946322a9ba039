// Package tiles holds the observation plan table and the projection
// between celestial coordinates and focal-plane millimetres. It is the
// only surface of the core that knows about RA and Dec.
package tiles

import (
	"errors"
	"fmt"

	"github.com/ameisner/fiberassign/hardware"
)

// ErrLengthMismatch is returned when the tile columns are not index
// aligned.
var ErrLengthMismatch = errors.New("tiles: column length mismatch")

// Tiles is the table of telescope pointings for a planning run. Columns
// are index aligned; Order maps a tile ID back to its row.
type Tiles struct {
	// ID holds the tile identifiers in plan order.
	ID []int32

	// RA and Dec are the pointing centres in degrees.
	RA  []float64
	Dec []float64

	// ObsCond is the observing-conditions bitmask for each tile.
	ObsCond []int32

	// ObsTheta is the field rotation in degrees applied during
	// projection, encoding the hour-angle correction.
	ObsTheta []float64

	// ObsHA is the design hour angle in degrees baked into ObsTheta.
	ObsHA []float64

	// Order maps tile ID to its index in the table.
	Order map[int32]int

	hw *hardware.Hardware
}

// New builds the tile table against a focal-plane model. All columns must
// have the same length.
func New(hw *hardware.Hardware, id []int32, ra, dec []float64,
	obscond []int32, obstheta, obsha []float64) (*Tiles, error) {

	n := len(id)
	for _, l := range []int{len(ra), len(dec), len(obscond), len(obstheta), len(obsha)} {
		if l != n {
			return nil, fmt.Errorf("%w: %d tiles, column of length %d",
				ErrLengthMismatch, n, l)
		}
	}
	t := &Tiles{
		ID:       id,
		RA:       ra,
		Dec:      dec,
		ObsCond:  obscond,
		ObsTheta: obstheta,
		ObsHA:    obsha,
		Order:    make(map[int32]int, n),
		hw:       hw,
	}
	for i, tid := range id {
		t.Order[tid] = i
	}
	return t, nil
}

// Hardware returns the focal-plane model the table was built against.
func (t *Tiles) Hardware() *hardware.Hardware {
	return t.hw
}
