package chunk

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type chunkKey struct {
	worldID uuid.UUID
	x, z    int32
}

// MemoryStore is an in-process Store for single-node runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[chunkKey]*Data
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chunks: make(map[chunkKey]*Data),
	}
}

// GetChunk returns the stored chunk or ErrChunkNotFound.
func (s *MemoryStore) GetChunk(_ context.Context, worldID uuid.UUID, chunkX, chunkZ int32) (*Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.chunks[chunkKey{worldID: worldID, x: chunkX, z: chunkZ}]
	if !ok {
		return nil, ErrChunkNotFound
	}
	return d, nil
}

// SaveChunk stores a chunk. The first write wins; chunks are immutable once
// generated.
func (s *MemoryStore) SaveChunk(_ context.Context, worldID uuid.UUID, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := chunkKey{worldID: worldID, x: data.ChunkX, z: data.ChunkZ}
	if _, ok := s.chunks[key]; ok {
		return nil
	}
	s.chunks[key] = data
	return nil
}

// Len returns the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
