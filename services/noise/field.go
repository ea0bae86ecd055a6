package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// FractalType selects how octaves are folded into the fractal sum.
type FractalType int

const (
	FractalFBm FractalType = iota
	FractalRidged
)

func (f FractalType) String() string {
	switch f {
	case FractalFBm:
		return "fbm"
	case FractalRidged:
		return "ridged"
	default:
		return "unknown"
	}
}

// Profile is an immutable fractal parameter bundle. Profiles are built once
// per (biome, sub-zone) combination and looked up, never mutated.
type Profile struct {
	Frequency  float64
	Octaves    int
	Lacunarity float64
	Gain       float64
	Fractal    FractalType
}

// FieldInterface defines the interface for seeded scalar noise sampling.
// This enables dependency injection and makes services easily testable.
type FieldInterface interface {
	Sample(x, z float64) float64
	SampleProfile(p Profile, x, z float64) float64
	Seed() int64
}

// Field implements FieldInterface on top of Perlin gradient noise.
type Field struct {
	noise *perlin.Perlin
	seed  int64
}

// NewField creates a new noise field with the given seed.
func NewField(seed int64) *Field {
	// alpha=2, beta=2 give terrain-like noise; octave folding is done in
	// SampleProfile so the base stays single-pass.
	return &Field{
		noise: perlin.NewPerlin(2, 2, 1, seed),
		seed:  seed,
	}
}

// Sample returns a noise value in [-1, 1] for the given coordinates.
func (f *Field) Sample(x, z float64) float64 {
	return f.noise.Noise2D(x, z)
}

// SampleProfile folds Octaves layers of base noise according to the profile.
// The sum is normalized by the accumulated amplitude, so results stay in [-1, 1].
func (f *Field) SampleProfile(p Profile, x, z float64) float64 {
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := p.Frequency

	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	}

	for i := 0; i < octaves; i++ {
		n := f.noise.Noise2D(x*freq, z*freq)
		if p.Fractal == FractalRidged {
			// Ridge: fold around zero so crests become sharp lines.
			n = 1 - 2*math.Abs(n)
		}
		sum += n * amp
		norm += amp
		amp *= p.Gain
		freq *= p.Lacunarity
	}

	return sum / norm
}

// Seed returns the seed the field was created with.
func (f *Field) Seed() int64 {
	return f.seed
}
