package biome

import (
	"github.com/terramesh/worldgen/services/noise"
)

// World vertical layout.
const (
	WorldHeight = 160
	SeaLevel    = 64

	// Island-type thresholding: remapped samples below IslandThreshold map to
	// a flat shallow floor, samples at or above are rescaled and squared into
	// [base, base+contribution].
	IslandThreshold  = 0.58
	UnderwaterHeight = 58
)

// HeightParams is the per-biome elevation envelope: noise contributes in
// [Base, Base+Contribution] before sub-zone base offsets.
type HeightParams struct {
	Base         float64
	Contribution float64
}

var heightTable = map[Type]HeightParams{
	Plains:    {Base: 66, Contribution: 12},
	Forest:    {Base: 68, Contribution: 16},
	Desert:    {Base: 64, Contribution: 10},
	Mountains: {Base: 78, Contribution: 56},
	Tundra:    {Base: 66, Contribution: 9},
	Islands:   {Base: 64, Contribution: 38},
	Crystal:   {Base: 70, Contribution: 22},
}

// HeightParamsFor returns the elevation envelope for a biome.
func HeightParamsFor(t Type) HeightParams {
	return heightTable[t]
}

// profileTable holds the precomputed noise profile per (biome, sub-zone)
// combination. Immutable; composite profiles near zone boundaries are blended
// from these at sample time.
var profileTable = map[SubZone]noise.Profile{
	PlainsFlat:    {Frequency: 0.004, Octaves: 3, Lacunarity: 2.0, Gain: 0.45, Fractal: noise.FractalFBm},
	PlainsRolling: {Frequency: 0.007, Octaves: 4, Lacunarity: 2.0, Gain: 0.5, Fractal: noise.FractalFBm},

	ForestSparse: {Frequency: 0.006, Octaves: 3, Lacunarity: 2.0, Gain: 0.5, Fractal: noise.FractalFBm},
	ForestDense:  {Frequency: 0.008, Octaves: 4, Lacunarity: 2.1, Gain: 0.5, Fractal: noise.FractalFBm},
	ForestGrove:  {Frequency: 0.005, Octaves: 3, Lacunarity: 1.9, Gain: 0.4, Fractal: noise.FractalFBm},

	DesertFlats: {Frequency: 0.003, Octaves: 2, Lacunarity: 2.0, Gain: 0.4, Fractal: noise.FractalFBm},
	DesertDunes: {Frequency: 0.009, Octaves: 3, Lacunarity: 2.2, Gain: 0.55, Fractal: noise.FractalFBm},
	DesertRocky: {Frequency: 0.012, Octaves: 4, Lacunarity: 2.0, Gain: 0.5, Fractal: noise.FractalRidged},

	MountainFoothills: {Frequency: 0.006, Octaves: 4, Lacunarity: 2.0, Gain: 0.5, Fractal: noise.FractalFBm},
	MountainSlopes:    {Frequency: 0.008, Octaves: 5, Lacunarity: 2.1, Gain: 0.5, Fractal: noise.FractalRidged},
	MountainPeaks:     {Frequency: 0.010, Octaves: 5, Lacunarity: 2.3, Gain: 0.55, Fractal: noise.FractalRidged},

	TundraSteppe: {Frequency: 0.004, Octaves: 3, Lacunarity: 2.0, Gain: 0.45, Fractal: noise.FractalFBm},
	TundraFrozen: {Frequency: 0.006, Octaves: 3, Lacunarity: 1.9, Gain: 0.4, Fractal: noise.FractalFBm},

	IslandShallows: {Frequency: 0.005, Octaves: 3, Lacunarity: 2.0, Gain: 0.5, Fractal: noise.FractalFBm},
	IslandAtolls:   {Frequency: 0.008, Octaves: 4, Lacunarity: 2.1, Gain: 0.5, Fractal: noise.FractalFBm},

	CrystalFields: {Frequency: 0.006, Octaves: 3, Lacunarity: 2.0, Gain: 0.5, Fractal: noise.FractalFBm},
	CrystalSpires: {Frequency: 0.011, Octaves: 4, Lacunarity: 2.2, Gain: 0.55, Fractal: noise.FractalRidged},
}

// ProfileFor returns the immutable noise profile for a sub-zone.
func ProfileFor(z SubZone) noise.Profile {
	return profileTable[z]
}

// baseOffsetTable nudges the biome base height per sub-zone: mountainous
// zones raise it, low-lying zones lower it.
var baseOffsetTable = map[SubZone]float64{
	PlainsFlat:    -1,
	PlainsRolling: 2,

	ForestSparse: 0,
	ForestDense:  2,
	ForestGrove:  -2,

	DesertFlats: -2,
	DesertDunes: 1,
	DesertRocky: 4,

	MountainFoothills: -8,
	MountainSlopes:    4,
	MountainPeaks:     18,

	TundraSteppe: 0,
	TundraFrozen: -2,

	IslandShallows: -3,
	IslandAtolls:   2,

	CrystalFields: 0,
	CrystalSpires: 6,
}

// BaseOffsetFor returns the base-height nudge for a sub-zone.
func BaseOffsetFor(z SubZone) float64 {
	return baseOffsetTable[z]
}

// Surface describes the top of a material column for one biome.
type Surface struct {
	Top         Material
	Filler      Material
	FillerDepth int
}

var surfaceTable = map[Type]Surface{
	Plains:    {Top: MaterialGrass, Filler: MaterialDirt, FillerDepth: 3},
	Forest:    {Top: MaterialGrass, Filler: MaterialDirt, FillerDepth: 4},
	Desert:    {Top: MaterialSand, Filler: MaterialSandstone, FillerDepth: 5},
	Mountains: {Top: MaterialStone, Filler: MaterialStone, FillerDepth: 2},
	Tundra:    {Top: MaterialSnow, Filler: MaterialDirt, FillerDepth: 3},
	Islands:   {Top: MaterialGrass, Filler: MaterialSand, FillerDepth: 3},
	Crystal:   {Top: MaterialCrystal, Filler: MaterialStone, FillerDepth: 2},
}

// SurfaceFor returns the surface stack description for a biome.
func SurfaceFor(t Type) Surface {
	return surfaceTable[t]
}
