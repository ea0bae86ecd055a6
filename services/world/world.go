// Package world is the registry of seeded worlds. A world row carries the
// seed that every partitioner session for that world is initialized with.
package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/terramesh/worldgen/internal/logging"
)

// ErrWorldNotFound is returned when no world matches a lookup.
var ErrWorldNotFound = errors.New("world: not found")

// DefaultWorldName names the world created on first startup.
const DefaultWorldName = "default"

// World is one seeded world.
type World struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

// DB is the subset of pgxpool.Pool the service needs; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service provides operations on worlds.
type Service struct {
	db     DB
	logger *log.Logger
}

// NewService creates a new world service over an existing connection pool.
func NewService(db DB) *Service {
	return &Service{
		db:     db,
		logger: logging.WithFields("component", "world-service"),
	}
}

// EnsureSchema creates the worlds table if it does not exist.
func (s *Service) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS worlds (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			seed       BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("world: failed to ensure schema: %w", err)
	}
	return nil
}

// CreateWorld inserts a new named world with the given seed.
func (s *Service) CreateWorld(ctx context.Context, name string, seed int64) (World, error) {
	if name == "" {
		return World{}, fmt.Errorf("world: name must not be empty")
	}

	w := World{ID: uuid.New(), Name: name, Seed: seed}
	err := s.db.QueryRow(ctx,
		`INSERT INTO worlds (id, name, seed) VALUES ($1, $2, $3) RETURNING created_at`,
		w.ID, w.Name, w.Seed,
	).Scan(&w.CreatedAt)
	if err != nil {
		return World{}, fmt.Errorf("world: failed to create world %q: %w", name, err)
	}

	s.logger.Info("created world", "world_id", w.ID, "name", w.Name, "seed", w.Seed)
	return w, nil
}

// GetWorldByID retrieves a world by id.
func (s *Service) GetWorldByID(ctx context.Context, id uuid.UUID) (World, error) {
	var w World
	err := s.db.QueryRow(ctx,
		`SELECT id, name, seed, created_at FROM worlds WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.Seed, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return World{}, ErrWorldNotFound
	}
	if err != nil {
		return World{}, fmt.Errorf("world: failed to get world %s: %w", id, err)
	}
	return w, nil
}

// GetDefaultWorld returns the oldest world, creating the default one with a
// random seed on first call.
func (s *Service) GetDefaultWorld(ctx context.Context) (World, error) {
	var w World
	err := s.db.QueryRow(ctx,
		`SELECT id, name, seed, created_at FROM worlds ORDER BY created_at LIMIT 1`,
	).Scan(&w.ID, &w.Name, &w.Seed, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.CreateWorld(ctx, DefaultWorldName, rand.Int63())
	}
	if err != nil {
		return World{}, fmt.Errorf("world: failed to get default world: %w", err)
	}
	return w, nil
}

// ListWorlds retrieves all worlds, oldest first.
func (s *Service) ListWorlds(ctx context.Context) ([]World, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, seed, created_at FROM worlds ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("world: failed to list worlds: %w", err)
	}
	defer rows.Close()

	var worlds []World
	for rows.Next() {
		var w World
		if err := rows.Scan(&w.ID, &w.Name, &w.Seed, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("world: failed to scan world row: %w", err)
		}
		worlds = append(worlds, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("world: failed to iterate world rows: %w", err)
	}
	return worlds, nil
}

// DeleteWorld removes a world.
func (s *Service) DeleteWorld(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM worlds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("world: failed to delete world %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorldNotFound
	}
	return nil
}
