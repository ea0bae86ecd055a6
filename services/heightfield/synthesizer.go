// Package heightfield combines macro blend weights, sub-zone blend factors
// and per-biome noise profiles into one continuous elevation per position,
// plus the material column derived from it.
package heightfield

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/terramesh/worldgen/internal/logging"
	"github.com/terramesh/worldgen/services/biome"
	"github.com/terramesh/worldgen/services/noise"
	"github.com/terramesh/worldgen/services/region"
	"github.com/terramesh/worldgen/services/subzone"
)

const (
	// heightSeedOffset decorrelates the elevation field from the
	// partitioner channels of the same world seed.
	heightSeedOffset = 100

	// weightEpsilon is the contribution floor below which a biome is skipped
	// during weighted averaging.
	weightEpsilon = 0.001

	// singleBiomeWeight treats a two-entry weight set with one weight this
	// close to 1 as single-biome.
	singleBiomeWeight = 0.999
)

// Config carries the synthesis parameters shared with chunk-level callers.
type Config struct {
	BlendDistance float64
	ChunkSize     int
}

// DefaultConfig returns the standard synthesis parameters.
func DefaultConfig() Config {
	return Config{
		BlendDistance: 32,
		ChunkSize:     32,
	}
}

// Validate rejects out-of-range parameters at configuration time.
func (c Config) Validate() error {
	if c.BlendDistance < 0 {
		return fmt.Errorf("heightfield: blend distance must not be negative, got %g", c.BlendDistance)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("heightfield: chunk size must be positive, got %d", c.ChunkSize)
	}
	return nil
}

// Synthesizer owns one classifier per macro biome and the seeded elevation
// field. All methods are pure functions of (seed, x, z) over a read-only
// partitioner cache, so they may run fully in parallel.
type Synthesizer struct {
	cfg         Config
	seed        int64
	region      *region.Partitioner
	classifiers map[biome.Type]*subzone.Classifier
	field       noise.FieldInterface
	logger      *log.Logger
}

// NewSynthesizer builds a synthesizer over an initialized partitioner. The
// seed must match the partitioner's session seed.
func NewSynthesizer(seed int64, part *region.Partitioner, cfg Config) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	classifiers := make(map[biome.Type]*subzone.Classifier)
	for _, b := range biome.All() {
		classifiers[b] = subzone.NewClassifier(seed, b)
	}

	return &Synthesizer{
		cfg:         cfg,
		seed:        seed,
		region:      part,
		classifiers: classifiers,
		field:       noise.NewField(seed + heightSeedOffset),
		logger:      logging.WithFields("component", "height-synthesizer"),
	}, nil
}

// SubRegionOf returns the discrete sub-zone and normalized blend factors of
// a position within the given macro biome.
func (s *Synthesizer) SubRegionOf(x, z float64, macro biome.Type) (biome.SubZone, map[biome.SubZone]float64, error) {
	cl, ok := s.classifiers[macro]
	if !ok {
		return 0, nil, fmt.Errorf("heightfield: no classifier for biome %s", macro)
	}
	zone, factors := cl.Classify(x, z)
	return zone, factors, nil
}

// HeightAt returns the terrain elevation at (x, z).
func (s *Synthesizer) HeightAt(x, z float64) (int, error) {
	w, err := s.region.BlendWeights(x, z, s.cfg.BlendDistance)
	if err != nil {
		return 0, err
	}
	return s.HeightWithWeights(x, z, w)
}

// HeightWithWeights returns the elevation at (x, z) given precomputed macro
// blend weights, the batch-optimized entry point for chunk generation.
func (s *Synthesizer) HeightWithWeights(x, z float64, w biome.BlendWeightSet) (int, error) {
	if len(w) == 0 {
		return 0, fmt.Errorf("heightfield: empty blend weight set at (%g, %g)", x, z)
	}

	// Fast path: a single biome skips weighted averaging entirely.
	if len(w) == 1 {
		for b := range w {
			return roundHeight(s.biomeHeight(b, x, z)), nil
		}
	}
	if len(w) == 2 {
		if b, wt := w.Dominant(); wt >= singleBiomeWeight {
			return roundHeight(s.biomeHeight(b, x, z)), nil
		}
	}

	sum := 0.0
	total := 0.0
	for _, b := range w.Types() {
		wt := w[b]
		if wt <= weightEpsilon {
			continue
		}
		sum += wt * s.biomeHeight(b, x, z)
		total += wt
	}
	if total <= 0 {
		return 0, fmt.Errorf("heightfield: degenerate blend weights at (%g, %g)", x, z)
	}
	return roundHeight(sum / total), nil
}

func roundHeight(h float64) int {
	return int(math.Round(h))
}

// biomeHeight is the elevation contribution of one macro biome at (x, z):
// the composite sub-zone profile sampled, remapped to [0,1], scaled into the
// biome's envelope on top of the factor-nudged base height.
func (s *Synthesizer) biomeHeight(b biome.Type, x, z float64) float64 {
	cl := s.classifiers[b]
	_, factors := cl.Classify(x, z)

	if b == biome.Islands {
		return s.islandHeight(cl, factors, x, z)
	}

	prof, ridged := compositeProfile(cl, factors)
	n01 := (s.sampleTerrain(prof, ridged, x, z) + 1) / 2

	hp := biome.HeightParamsFor(b)
	base := hp.Base
	for _, zn := range cl.Zones() {
		if f, ok := factors[zn]; ok {
			base += f * biome.BaseOffsetFor(zn)
		}
	}
	return base + n01*hp.Contribution
}

// islandHeight applies hard thresholding instead of rolling terrain: below
// the threshold the sample maps to a flat shallow floor; at or above it the
// excess is rescaled and squared into [base, base+contribution], producing
// discrete landmasses with steep shores.
func (s *Synthesizer) islandHeight(cl *subzone.Classifier, factors map[biome.SubZone]float64, x, z float64) float64 {
	prof, ridged := compositeProfile(cl, factors)
	v := (s.sampleTerrain(prof, ridged, x, z) + 1) / 2

	if v < biome.IslandThreshold {
		return biome.UnderwaterHeight
	}

	t := (v - biome.IslandThreshold) / (1 - biome.IslandThreshold)
	hp := biome.HeightParamsFor(biome.Islands)
	return hp.Base + t*t*hp.Contribution
}

// compositeProfile blends the sub-zone noise parameters proportionally to
// the blend factors. Frequency, lacunarity and gain interpolate numerically;
// octaves round to the nearest integer. The fractal type is discrete and
// cannot be averaged inside one sample, so the second return value is the
// summed factor of ridged zones; sampleTerrain crossfades the two variants
// with it rather than switching, which would step the elevation wherever the
// dominant sub-zone flips.
func compositeProfile(cl *subzone.Classifier, factors map[biome.SubZone]float64) (noise.Profile, float64) {
	var out noise.Profile
	octaves := 0.0
	ridged := 0.0

	for _, zn := range cl.Zones() {
		f, ok := factors[zn]
		if !ok || f <= 0 {
			continue
		}
		p := biome.ProfileFor(zn)
		out.Frequency += f * p.Frequency
		out.Lacunarity += f * p.Lacunarity
		out.Gain += f * p.Gain
		octaves += f * float64(p.Octaves)
		if p.Fractal == noise.FractalRidged {
			ridged += f
		}
	}

	out.Octaves = int(math.Round(octaves))
	if out.Octaves < 1 {
		out.Octaves = 1
	}
	return out, ridged
}

// sampleTerrain samples the composite profile, blending the fBm and ridged
// fractal variants by the ridged factor so elevation stays continuous across
// sub-zone transitions where the two sides disagree on the fractal type.
func (s *Synthesizer) sampleTerrain(prof noise.Profile, ridged float64, x, z float64) float64 {
	if ridged <= 0 {
		prof.Fractal = noise.FractalFBm
		return s.field.SampleProfile(prof, x, z)
	}
	if ridged >= 1 {
		prof.Fractal = noise.FractalRidged
		return s.field.SampleProfile(prof, x, z)
	}

	fbm := prof
	fbm.Fractal = noise.FractalFBm
	rid := prof
	rid.Fractal = noise.FractalRidged
	return (1-ridged)*s.field.SampleProfile(fbm, x, z) + ridged*s.field.SampleProfile(rid, x, z)
}
