package noise

import (
	"math"

	"github.com/terramesh/worldgen/internal/mathx"
)

// CellularChannel samples cell-value noise: the plane is divided into a unit
// lattice (scaled by frequency), each lattice square holds one hashed feature
// point, and the value at (x, z) is a per-cell constant derived from the
// nearest feature point. Quantizing the result yields contiguous irregular
// cells of roughly equal area.
type CellularChannel struct {
	seed      uint32
	frequency float64
}

// NewCellularChannel creates a cellular channel. Frequency is the reciprocal
// of the typical cell diameter in world units.
func NewCellularChannel(seed int64, frequency float64) *CellularChannel {
	return &CellularChannel{
		seed:      uint32(seed) ^ uint32(uint64(seed)>>32),
		frequency: frequency,
	}
}

// Sample returns the cell value at (x, z) in [-1, 1]. Every position within
// one Voronoi region of a feature point maps to the same value.
func (c *CellularChannel) Sample(x, z float64) float64 {
	fx := x * c.frequency
	fz := z * c.frequency
	xi := int32(math.Floor(fx))
	zi := int32(math.Floor(fz))

	best := math.MaxFloat64
	var bestHash uint32

	for dz := int32(-1); dz <= 1; dz++ {
		for dx := int32(-1); dx <= 1; dx++ {
			cx := xi + dx
			cz := zi + dz
			h := mathx.Hash2(c.seed, cx, cz)

			// Feature point somewhere inside the lattice square.
			px := float64(cx) + float64(h&0xffff)/65536.0
			pz := float64(cz) + float64((h>>16)&0xffff)/65536.0

			ddx := fx - px
			ddz := fz - pz
			d := ddx*ddx + ddz*ddz
			if d < best {
				best = d
				bestHash = mathx.Mix32(h)
			}
		}
	}

	return float64(bestHash)/float64(math.MaxUint32)*2 - 1
}
