package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// WarpChannel perturbs sample coordinates with auxiliary simplex noise before
// the primary noise function is evaluated, producing irregular boundaries.
// The two displacement samples are decorrelated by fixed +1000 offsets, one
// applied on the x axis and one on the z axis.
type WarpChannel struct {
	noise     opensimplex.Noise
	frequency float64
	strength  float64
}

// NewWarpChannel creates a warp channel with its own seed, sampling frequency
// and displacement strength in world units.
func NewWarpChannel(seed int64, frequency, strength float64) *WarpChannel {
	return &WarpChannel{
		noise:     opensimplex.New(seed),
		frequency: frequency,
		strength:  strength,
	}
}

// Warp returns the displaced coordinates for (x, z).
func (w *WarpChannel) Warp(x, z float64) (float64, float64) {
	dx := w.noise.Eval2((x+1000)*w.frequency, z*w.frequency)
	dz := w.noise.Eval2(x*w.frequency, (z+1000)*w.frequency)
	return x + dx*w.strength, z + dz*w.strength
}

// ZoneChannel samples low-frequency simplex noise remapped to [0, 1], used by
// sub-zone classifiers as the banded zone value.
type ZoneChannel struct {
	noise     opensimplex.Noise
	frequency float64
}

func NewZoneChannel(seed int64, frequency float64) *ZoneChannel {
	return &ZoneChannel{
		noise:     opensimplex.New(seed),
		frequency: frequency,
	}
}

// Sample returns the zone value at (x, z), clamped to [0, 1].
func (zc *ZoneChannel) Sample(x, z float64) float64 {
	v := (zc.noise.Eval2(x*zc.frequency, z*zc.frequency) + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
