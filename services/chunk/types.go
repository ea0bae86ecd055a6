package chunk

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/terramesh/worldgen/services/biome"
)

// DefaultChunkSize is the edge length of a chunk in world units.
const DefaultChunkSize = 32

// ErrChunkNotFound is returned by stores when a chunk has not been generated.
var ErrChunkNotFound = errors.New("chunk: not found")

// Data is one generated chunk: per-position heights, macro biomes and
// surface materials in row-major order (index = z*Size + x).
type Data struct {
	ChunkX      int32            `json:"chunk_x"`
	ChunkZ      int32            `json:"chunk_z"`
	Size        int32            `json:"size"`
	Seed        int64            `json:"seed"`
	Heights     []int32          `json:"heights"`
	Biomes      []biome.Type     `json:"biomes"`
	Surface     []biome.Material `json:"surface"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Index returns the row-major cell index for local coordinates.
func (d *Data) Index(x, z int32) int {
	return int(z*d.Size + x)
}

// Store persists generated chunks per world.
type Store interface {
	GetChunk(ctx context.Context, worldID uuid.UUID, chunkX, chunkZ int32) (*Data, error)
	SaveChunk(ctx context.Context, worldID uuid.UUID, data *Data) error
}
