package chunk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terramesh/worldgen/internal/logging"
	"github.com/terramesh/worldgen/services/biome"
	"github.com/terramesh/worldgen/services/heightfield"
	"github.com/terramesh/worldgen/services/region"
)

// Service generates chunks through the partitioner/synthesizer pipeline and
// caches them in a Store. Generation is deterministic, so a regenerated
// chunk is byte-identical to its stored copy.
type Service struct {
	store     Store
	worldID   uuid.UUID
	seed      int64
	chunkSize int32
	region    *region.Partitioner
	synth     *heightfield.Synthesizer
}

// NewService wires a chunk service over an initialized partitioner and
// synthesizer pair.
func NewService(store Store, worldID uuid.UUID, seed int64, part *region.Partitioner, synth *heightfield.Synthesizer) *Service {
	logger := logging.GetLogger()
	logger.Debug("Creating new chunk service", "chunk_size", DefaultChunkSize, "world_id", worldID)

	return &Service{
		store:     store,
		worldID:   worldID,
		seed:      seed,
		chunkSize: DefaultChunkSize,
		region:    part,
		synth:     synth,
	}
}

// GenerateChunk builds a chunk from scratch. The coarse weight grid replaces
// the per-position boundary search whenever the chunk sits away from every
// biome boundary.
func (s *Service) GenerateChunk(chunkX, chunkZ int32) (*Data, error) {
	logger := logging.WithChunkCoords(chunkX, chunkZ)
	logger.Debug("Starting chunk generation")
	start := time.Now()

	size := s.chunkSize
	originX := float64(chunkX * size)
	originZ := float64(chunkZ * size)

	grid, err := s.synth.ChunkWeights(originX, originZ, int(size))
	if err != nil {
		return nil, fmt.Errorf("chunk: weight grid for (%d,%d): %w", chunkX, chunkZ, err)
	}

	data := &Data{
		ChunkX:      chunkX,
		ChunkZ:      chunkZ,
		Size:        size,
		Seed:        s.seed,
		Heights:     make([]int32, size*size),
		Biomes:      make([]biome.Type, size*size),
		Surface:     make([]biome.Material, size*size),
		GeneratedAt: time.Now().UTC(),
	}

	for z := int32(0); z < size; z++ {
		for x := int32(0); x < size; x++ {
			worldX := originX + float64(x)
			worldZ := originZ + float64(z)

			b, err := s.region.BiomeAt(worldX, worldZ)
			if err != nil {
				return nil, err
			}
			h, err := s.synth.HeightWithWeights(worldX, worldZ, grid.At(worldX, worldZ))
			if err != nil {
				return nil, err
			}

			i := data.Index(x, z)
			data.Heights[i] = int32(h)
			data.Biomes[i] = b
			data.Surface[i] = heightfield.SurfaceMaterial(b, h)
		}
	}

	logger.Debug("Chunk generation completed", "duration", time.Since(start))
	return data, nil
}

// GetOrCreateChunk retrieves a chunk from the store or generates and stores
// it on first access.
func (s *Service) GetOrCreateChunk(ctx context.Context, chunkX, chunkZ int32) (*Data, error) {
	data, err := s.store.GetChunk(ctx, s.worldID, chunkX, chunkZ)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrChunkNotFound) {
		return nil, err
	}

	generated, err := s.GenerateChunk(chunkX, chunkZ)
	if err != nil {
		return nil, fmt.Errorf("chunk: failed to generate chunk: %w", err)
	}
	if err := s.store.SaveChunk(ctx, s.worldID, generated); err != nil {
		return nil, fmt.Errorf("chunk: failed to save chunk: %w", err)
	}
	return generated, nil
}

// GetChunksInRange retrieves every chunk in a rectangular area, generating
// missing ones in parallel.
func (s *Service) GetChunksInRange(ctx context.Context, minX, maxX, minZ, maxZ int32) ([]*Data, error) {
	var coordinates [][2]int32
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			coordinates = append(coordinates, [2]int32{x, z})
		}
	}
	return s.getChunksParallel(ctx, coordinates)
}

// GetChunksInRadius retrieves chunks within a Manhattan-distance radius of a
// center chunk.
func (s *Service) GetChunksInRadius(ctx context.Context, centerX, centerZ, radius int32) ([]*Data, error) {
	var coordinates [][2]int32
	for x := centerX - radius; x <= centerX+radius; x++ {
		for z := centerZ - radius; z <= centerZ+radius; z++ {
			if abs(x-centerX)+abs(z-centerZ) <= radius {
				coordinates = append(coordinates, [2]int32{x, z})
			}
		}
	}
	return s.getChunksParallel(ctx, coordinates)
}

// GenerateView runs the initial view sweep around a center chunk: chunks are
// generated closest-first so the area around the viewer fills in before the
// fringe.
func (s *Service) GenerateView(ctx context.Context, centerX, centerZ, radius int32) ([]*Data, error) {
	var coordinates [][2]int32
	for x := centerX - radius; x <= centerX+radius; x++ {
		for z := centerZ - radius; z <= centerZ+radius; z++ {
			coordinates = append(coordinates, [2]int32{x, z})
		}
	}
	SortClosestFirst(coordinates, centerX, centerZ)
	return s.getChunksParallel(ctx, coordinates)
}

// SortClosestFirst orders chunk coordinates by ascending squared distance
// from the center, breaking ties by (x, z) so the order is deterministic.
func SortClosestFirst(coords [][2]int32, centerX, centerZ int32) {
	sort.Slice(coords, func(i, j int) bool {
		di := sqDist(coords[i], centerX, centerZ)
		dj := sqDist(coords[j], centerX, centerZ)
		if di != dj {
			return di < dj
		}
		if coords[i][0] != coords[j][0] {
			return coords[i][0] < coords[j][0]
		}
		return coords[i][1] < coords[j][1]
	})
}

func sqDist(c [2]int32, x, z int32) int64 {
	dx := int64(c[0] - x)
	dz := int64(c[1] - z)
	return dx*dx + dz*dz
}

func abs(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// getChunksParallel processes a list of chunk coordinates with a small
// worker pool, preserving the submission order of the coordinates in the
// work queue.
func (s *Service) getChunksParallel(ctx context.Context, coordinates [][2]int32) ([]*Data, error) {
	if len(coordinates) == 0 {
		return []*Data{}, nil
	}

	workerCount := 4
	if len(coordinates) < workerCount {
		workerCount = len(coordinates)
	}

	coordChan := make(chan [2]int32, len(coordinates))
	for _, coord := range coordinates {
		coordChan <- coord
	}
	close(coordChan)

	var (
		mu       sync.Mutex
		chunks   []*Data
		firstErr error
	)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for coord := range coordChan {
				if ctx.Err() != nil {
					return
				}
				data, err := s.GetOrCreateChunk(ctx, coord[0], coord[1])

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("chunk: failed to get chunk (%d,%d): %w", coord[0], coord[1], err)
					}
					mu.Unlock()
					return
				}
				chunks = append(chunks, data)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}
