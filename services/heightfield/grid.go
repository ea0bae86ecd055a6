package heightfield

import (
	"github.com/terramesh/worldgen/services/biome"
)

// WeightGrid holds coarse blend weights for one chunk: either a uniform
// single-biome set when the chunk is far from every boundary, or a 2x2
// corner grid bilinearly interpolated per position. It replaces the
// per-voxel boundary search, the costliest primitive, during bulk
// generation.
type WeightGrid struct {
	originX, originZ float64
	size             float64

	uniform biome.BlendWeightSet
	corners [2][2]biome.BlendWeightSet
}

// ChunkWeights runs the coarse boundary pre-check for the chunk at the given
// origin and, only when the chunk is near a boundary, computes full blend
// weights at its four corners.
func (s *Synthesizer) ChunkWeights(originX, originZ float64, chunkSize int) (*WeightGrid, error) {
	near, err := s.region.IsChunkNearBoundary(originX, originZ, chunkSize, s.cfg.BlendDistance)
	if err != nil {
		return nil, err
	}

	size := float64(chunkSize)
	grid := &WeightGrid{originX: originX, originZ: originZ, size: size}

	if !near {
		b, err := s.region.BiomeAt(originX+size/2, originZ+size/2)
		if err != nil {
			return nil, err
		}
		grid.uniform = biome.BlendWeightSet{b: 1.0}
		return grid, nil
	}

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			w, err := s.region.BlendWeights(originX+float64(i)*size, originZ+float64(j)*size, s.cfg.BlendDistance)
			if err != nil {
				return nil, err
			}
			grid.corners[i][j] = w
		}
	}
	return grid, nil
}

// At returns the interpolated blend weights for a position inside the chunk.
func (g *WeightGrid) At(x, z float64) biome.BlendWeightSet {
	if g.uniform != nil {
		return g.uniform
	}

	tx := clamp01((x - g.originX) / g.size)
	tz := clamp01((z - g.originZ) / g.size)

	coeffs := [2][2]float64{
		{(1 - tx) * (1 - tz), (1 - tx) * tz},
		{tx * (1 - tz), tx * tz},
	}

	out := make(biome.BlendWeightSet)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			c := coeffs[i][j]
			if c == 0 {
				continue
			}
			for b, w := range g.corners[i][j] {
				out[b] += c * w
			}
		}
	}
	out.Normalize()
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
