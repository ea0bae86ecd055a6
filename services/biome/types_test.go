package biome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeStringRoundTrip(t *testing.T) {
	for _, b := range All() {
		parsed, err := ParseType(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, parsed)
	}

	_, err := ParseType("swamp")
	assert.Error(t, err)
	_, err = ParseType("")
	assert.Error(t, err)
}

func TestAllOrdersCommonBeforeRare(t *testing.T) {
	all := All()
	require.Len(t, all, len(Common)+len(Rare))
	assert.Equal(t, Common, all[:len(Common)])
	assert.Equal(t, Rare, all[len(Common):])
}

func TestSubZonesOfCoverEveryBiome(t *testing.T) {
	for _, b := range All() {
		zones := SubZonesOf(b)
		assert.NotEmpty(t, zones, "biome %s has no sub-zones", b)
		for _, z := range zones {
			assert.NotEqual(t, "unknown", z.String())
		}
	}
}

func TestBlendWeightSetNormalize(t *testing.T) {
	w := BlendWeightSet{Plains: 2, Forest: 1, Desert: 1}
	w.Normalize()

	assert.InDelta(t, 0.5, w[Plains], 1e-12)
	assert.InDelta(t, 0.25, w[Forest], 1e-12)
	assert.InDelta(t, 0.25, w[Desert], 1e-12)

	sum := 0.0
	for _, v := range w {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestBlendWeightSetNormalizeDegenerate(t *testing.T) {
	w := BlendWeightSet{Plains: 0}
	w.Normalize()
	assert.Equal(t, 0.0, w[Plains])

	empty := BlendWeightSet{}
	empty.Normalize()
	assert.Empty(t, empty)
}

func TestBlendWeightSetTypesSorted(t *testing.T) {
	w := BlendWeightSet{Tundra: 0.2, Plains: 0.5, Desert: 0.3}
	types := w.Types()
	require.Len(t, types, 3)
	assert.Equal(t, []Type{Plains, Desert, Tundra}, types)
}

func TestBlendWeightSetDominant(t *testing.T) {
	w := BlendWeightSet{Plains: 0.2, Mountains: 0.7, Tundra: 0.1}
	b, wt := w.Dominant()
	assert.Equal(t, Mountains, b)
	assert.Equal(t, 0.7, wt)
}

func TestHeightTablesComplete(t *testing.T) {
	for _, b := range All() {
		hp := HeightParamsFor(b)
		assert.Greater(t, hp.Base, 0.0, "biome %s missing height params", b)
		assert.Greater(t, hp.Contribution, 0.0)
		assert.Less(t, hp.Base+hp.Contribution, float64(WorldHeight),
			"biome %s envelope exceeds world height", b)

		surface := SurfaceFor(b)
		assert.NotEqual(t, MaterialAir, surface.Top)
		assert.Greater(t, surface.FillerDepth, 0)
	}
}

func TestProfileTableComplete(t *testing.T) {
	for _, b := range All() {
		for _, z := range SubZonesOf(b) {
			p := ProfileFor(z)
			assert.Greater(t, p.Frequency, 0.0, "zone %s missing profile", z)
			assert.GreaterOrEqual(t, p.Octaves, 1)
			assert.Greater(t, p.Gain, 0.0)
			assert.Greater(t, p.Lacunarity, 1.0)
		}
	}
}
