package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDeterminism(t *testing.T) {
	f1 := NewField(42)
	f2 := NewField(42)

	coords := [][2]float64{
		{0, 0},
		{0.5, 0.5},
		{123.456, -789.012},
		{-1000, 1000},
	}

	for _, c := range coords {
		assert.Equal(t, f1.Sample(c[0], c[1]), f2.Sample(c[0], c[1]),
			"same seed must produce identical samples at (%g,%g)", c[0], c[1])
	}
}

func TestFieldSeedDivergence(t *testing.T) {
	f1 := NewField(1)
	f2 := NewField(2)

	differs := false
	for i := 0; i < 50; i++ {
		x := float64(i) * 0.37
		if f1.Sample(x, x*2) != f2.Sample(x, x*2) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "different seeds should diverge somewhere")
	assert.Equal(t, int64(1), f1.Seed())
	assert.Equal(t, int64(2), f2.Seed())
}

func TestSampleProfileRange(t *testing.T) {
	f := NewField(99)

	profiles := []struct {
		name    string
		profile Profile
	}{
		{
			name:    "fbm single octave",
			profile: Profile{Frequency: 0.01, Octaves: 1, Lacunarity: 2, Gain: 0.5, Fractal: FractalFBm},
		},
		{
			name:    "fbm five octaves",
			profile: Profile{Frequency: 0.005, Octaves: 5, Lacunarity: 2, Gain: 0.5, Fractal: FractalFBm},
		},
		{
			name:    "ridged four octaves",
			profile: Profile{Frequency: 0.008, Octaves: 4, Lacunarity: 2.2, Gain: 0.45, Fractal: FractalRidged},
		},
		{
			name:    "zero octaves treated as one",
			profile: Profile{Frequency: 0.01, Octaves: 0, Lacunarity: 2, Gain: 0.5, Fractal: FractalFBm},
		},
	}

	for _, tt := range profiles {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				x := float64(i) * 13.7
				z := float64(i*i) * 0.91
				v := f.SampleProfile(tt.profile, x, z)
				require.GreaterOrEqual(t, v, -1.0, "sample out of range at (%g,%g)", x, z)
				require.LessOrEqual(t, v, 1.0, "sample out of range at (%g,%g)", x, z)
			}
		})
	}
}

func TestSampleProfileOctavesAddDetail(t *testing.T) {
	f := NewField(7)

	one := Profile{Frequency: 0.01, Octaves: 1, Lacunarity: 2, Gain: 0.5}
	four := Profile{Frequency: 0.01, Octaves: 4, Lacunarity: 2, Gain: 0.5}

	differs := false
	for i := 0; i < 20; i++ {
		x := float64(i) * 31.3
		if f.SampleProfile(one, x, -x) != f.SampleProfile(four, x, -x) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "extra octaves should change the folded sum")
}

func TestFractalTypeString(t *testing.T) {
	assert.Equal(t, "fbm", FractalFBm.String())
	assert.Equal(t, "ridged", FractalRidged.String())
	assert.Equal(t, "unknown", FractalType(99).String())
}

func BenchmarkSampleProfile(b *testing.B) {
	f := NewField(42)
	p := Profile{Frequency: 0.005, Octaves: 5, Lacunarity: 2, Gain: 0.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.SampleProfile(p, float64(i%1024), float64(i%512))
	}
}
