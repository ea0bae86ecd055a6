package heightfield

import (
	"github.com/terramesh/worldgen/internal/mathx"
	"github.com/terramesh/worldgen/services/biome"
)

// snowLine is the elevation at or above which mountain surfaces carry snow.
const snowLine = 110

// Column is the material stack of one (x, z) position, bottom-up with index
// 0 at elevation 0. DecorSeed feeds downstream decoration placers.
type Column struct {
	Height    int
	Biome     biome.Type
	Zone      biome.SubZone
	DecorSeed uint32
	Materials []biome.Material
}

// ColumnAt derives the full material column at (x, z) from the synthesized
// elevation and the biome surface tables.
func (s *Synthesizer) ColumnAt(x, z float64) (Column, error) {
	b, err := s.region.BiomeAt(x, z)
	if err != nil {
		return Column{}, err
	}
	h, err := s.HeightAt(x, z)
	if err != nil {
		return Column{}, err
	}
	zone, _ := s.classifiers[b].Classify(x, z)

	return Column{
		Height:    h,
		Biome:     b,
		Zone:      zone,
		DecorSeed: mathx.Hash2(uint32(s.seed), int32(x), int32(z)),
		Materials: buildStack(b, h),
	}, nil
}

// SurfaceMaterial returns the cap material of a column: the biome surface,
// silted or sanded over when submerged, snow-capped above the mountain snow
// line.
func SurfaceMaterial(b biome.Type, height int) biome.Material {
	if b == biome.Mountains && height >= snowLine {
		return biome.MaterialSnow
	}
	if height < biome.SeaLevel {
		// Island shallows and desert shores stay sandy, everything else
		// silts over.
		switch b {
		case biome.Islands, biome.Desert:
			return biome.MaterialSand
		default:
			return biome.MaterialGravel
		}
	}
	return biome.SurfaceFor(b).Top
}

// buildStack lays out stone body, the biome filler band, the surface cap,
// then water up to sea level and air above.
func buildStack(b biome.Type, height int) []biome.Material {
	if height < 1 {
		height = 1
	}
	if height > biome.WorldHeight-1 {
		height = biome.WorldHeight - 1
	}

	surface := biome.SurfaceFor(b)
	top := SurfaceMaterial(b, height)
	submerged := height < biome.SeaLevel

	stack := make([]biome.Material, biome.WorldHeight)
	fillerFloor := height - surface.FillerDepth

	for y := 0; y < biome.WorldHeight; y++ {
		switch {
		case y < fillerFloor:
			stack[y] = biome.MaterialStone
		case y < height:
			stack[y] = surface.Filler
		case y == height:
			stack[y] = top
		case y <= biome.SeaLevel && submerged:
			if b == biome.Tundra && y == biome.SeaLevel {
				stack[y] = biome.MaterialIce
			} else {
				stack[y] = biome.MaterialWater
			}
		default:
			stack[y] = biome.MaterialAir
		}
	}
	return stack
}
