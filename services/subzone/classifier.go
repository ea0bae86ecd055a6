// Package subzone refines one macro biome into 2-3 named zones using a
// low-frequency zone channel domain-warped by a higher-frequency warp
// channel, the same technique the partitioner uses at a smaller scale.
package subzone

import (
	"github.com/terramesh/worldgen/services/biome"
	"github.com/terramesh/worldgen/services/noise"
)

// Channel seed layout: each biome owns a stride of ids above zoneSeedBase so
// its zone and warp channels never collide with the partitioner channels.
const (
	zoneSeedBase   = 1000
	zoneSeedStride = 10
	zoneWarpDelta  = 5
)

const (
	zoneFrequency     = 0.0012
	zoneWarpFrequency = 0.004
	zoneWarpStrength  = 180

	// transitionHalfWidth is half the width of the linear ramp straddling
	// each threshold boundary, in normalized zone-value units. Must stay
	// below half a band so at most two zones blend at any point.
	transitionHalfWidth = 0.06
)

// Classifier produces a discrete sub-zone plus smooth blend factors within
// one macro biome. Stateless after construction; safe for concurrent use.
type Classifier struct {
	biome biome.Type
	zones []biome.SubZone
	zone  *noise.ZoneChannel
	warp  *noise.WarpChannel
}

// NewClassifier builds the classifier for one macro biome, deriving its
// channels from the world seed at fixed per-biome offsets.
func NewClassifier(seed int64, b biome.Type) *Classifier {
	base := seed + zoneSeedBase + int64(b)*zoneSeedStride
	return &Classifier{
		biome: b,
		zones: biome.SubZonesOf(b),
		zone:  noise.NewZoneChannel(base, zoneFrequency),
		warp:  noise.NewWarpChannel(base+zoneWarpDelta, zoneWarpFrequency, zoneWarpStrength),
	}
}

// Biome returns the macro biome this classifier refines.
func (c *Classifier) Biome() biome.Type {
	return c.biome
}

// Zones returns the ordered sub-zones, ascending by threshold band.
func (c *Classifier) Zones() []biome.SubZone {
	return c.zones
}

// Classify returns the sub-zone at (x, z) and the normalized blend factors
// over all zones of the biome. Factors sum to 1 and at most two zones are
// nonzero at any boundary-adjacent point.
func (c *Classifier) Classify(x, z float64) (biome.SubZone, map[biome.SubZone]float64) {
	wx, wz := c.warp.Warp(x, z)
	v := c.zone.Sample(wx, wz)

	n := len(c.zones)
	band := 1.0 / float64(n)

	factors := make(map[biome.SubZone]float64, 2)
	total := 0.0
	for i, zn := range c.zones {
		lo := float64(i) * band
		f := bandFactor(v, lo, lo+band, i == 0, i == n-1)
		if f > 0 {
			factors[zn] = f
			total += f
		}
	}
	for zn, f := range factors {
		factors[zn] = f / total
	}

	// The discrete zone is the band containing the value; blending never
	// moves a position out of its core classification.
	idx := int(v / band)
	if idx >= n {
		idx = n - 1
	}
	return c.zones[idx], factors
}

// bandFactor is 1 inside the core of [lo, hi], ramps linearly to 0 across
// the transition straddling each boundary, and is 0 outside. The first and
// last bands have no outer ramp.
func bandFactor(v, lo, hi float64, first, last bool) float64 {
	rise := 1.0
	if !first {
		rise = linearRamp(v, lo-transitionHalfWidth, lo+transitionHalfWidth)
	}
	fall := 1.0
	if !last {
		fall = 1 - linearRamp(v, hi-transitionHalfWidth, hi+transitionHalfWidth)
	}
	if rise < fall {
		return rise
	}
	return fall
}

// linearRamp maps v across [a, b] to [0, 1], clamped.
func linearRamp(v, a, b float64) float64 {
	if v <= a {
		return 0
	}
	if v >= b {
		return 1
	}
	return (v - a) / (b - a)
}
