package chunk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxStore persists chunks to postgres as JSON blobs keyed by
// (world_id, chunk_x, chunk_z).
type PgxStore struct {
	db DBTX
}

// NewPgxStore creates a store over an existing connection pool.
func NewPgxStore(db DBTX) *PgxStore {
	return &PgxStore{db: db}
}

// EnsureSchema creates the chunk table if it does not exist.
func (s *PgxStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chunks (
			world_id     UUID NOT NULL,
			chunk_x      INTEGER NOT NULL,
			chunk_z      INTEGER NOT NULL,
			data         BYTEA NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (world_id, chunk_x, chunk_z)
		)`)
	if err != nil {
		return fmt.Errorf("chunk: failed to ensure schema: %w", err)
	}
	return nil
}

// GetChunk loads and deserializes a stored chunk, or returns
// ErrChunkNotFound.
func (s *PgxStore) GetChunk(ctx context.Context, worldID uuid.UUID, chunkX, chunkZ int32) (*Data, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM chunks WHERE world_id = $1 AND chunk_x = $2 AND chunk_z = $3`,
		worldID, chunkX, chunkZ,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("chunk: failed to load chunk (%d,%d): %w", chunkX, chunkZ, err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("chunk: failed to deserialize chunk (%d,%d): %w", chunkX, chunkZ, err)
	}
	return &data, nil
}

// SaveChunk serializes and stores a chunk. Conflicts are ignored: the first
// write wins and regenerated data is identical by construction.
func (s *PgxStore) SaveChunk(ctx context.Context, worldID uuid.UUID, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("chunk: failed to serialize chunk (%d,%d): %w", data.ChunkX, data.ChunkZ, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO chunks (world_id, chunk_x, chunk_z, data) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (world_id, chunk_x, chunk_z) DO NOTHING`,
		worldID, data.ChunkX, data.ChunkZ, raw,
	)
	if err != nil {
		return fmt.Errorf("chunk: failed to save chunk (%d,%d): %w", data.ChunkX, data.ChunkZ, err)
	}
	return nil
}
