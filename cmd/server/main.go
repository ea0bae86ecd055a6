package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terramesh/worldgen/internal/api"
	"github.com/terramesh/worldgen/internal/config"
	"github.com/terramesh/worldgen/internal/logging"
	"github.com/terramesh/worldgen/services/chunk"
	"github.com/terramesh/worldgen/services/heightfield"
	"github.com/terramesh/worldgen/services/region"
	"github.com/terramesh/worldgen/services/world"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// Misconfiguration fails fast rather than degrading into visually
		// inconsistent terrain.
		log.Fatal("Invalid configuration", "error", err)
	}

	logging.InitLogger()
	logger := logging.GetLogger()
	logger.Debug("Configuration loaded", "port", cfg.Server.Port, "seed", cfg.WorldGen.Seed)

	ctx := context.Background()

	var (
		store    chunk.Store
		worlds   *world.Service
		worldID  uuid.UUID
		seed     = cfg.WorldGen.Seed
		dbPool   *pgxpool.Pool
	)

	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal("Failed to connect to database", "error", err)
		}
		dbPool = pool

		worlds = world.NewService(pool)
		if err := worlds.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to ensure world schema", "error", err)
		}

		pgxStore := chunk.NewPgxStore(pool)
		if err := pgxStore.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to ensure chunk schema", "error", err)
		}
		store = pgxStore

		defaultWorld, err := worlds.GetDefaultWorld(ctx)
		if err != nil {
			log.Fatal("Failed to get default world", "error", err)
		}
		worldID = defaultWorld.ID
		if seed == 0 {
			seed = defaultWorld.Seed
		}
		logger.Info("Using persistent chunk store", "world_id", worldID, "seed", seed)
	} else {
		store = chunk.NewMemoryStore()
		worldID = uuid.New()
		logger.Info("No DATABASE_URL set, using in-memory chunk store", "seed", seed)
	}

	partitioner, err := region.NewPartitioner(region.Config{
		RegionScale:       cfg.WorldGen.RegionScale,
		WarpStrength:      cfg.WorldGen.WarpStrength,
		MaxBoundaryRadius: region.DefaultConfig().MaxBoundaryRadius,
		BoundarySamples:   region.DefaultConfig().BoundarySamples,
		RareChance:        cfg.WorldGen.RareChance,
	})
	if err != nil {
		log.Fatal("Failed to configure partitioner", "error", err)
	}
	partitioner.Initialize(seed)

	synth, err := heightfield.NewSynthesizer(seed, partitioner, heightfield.Config{
		BlendDistance: cfg.WorldGen.BlendDistance,
		ChunkSize:     cfg.WorldGen.ChunkSize,
	})
	if err != nil {
		log.Fatal("Failed to configure height synthesizer", "error", err)
	}

	chunks := chunk.NewService(store, worldID, seed, partitioner, synth)

	handler := api.NewHandler(partitioner, synth, chunks, worlds, cfg.WorldGen.BlendDistance)
	router := api.SetupRoutes(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting worldgen server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutting down server", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if dbPool != nil {
		dbPool.Close()
	}
	logger.Info("Server exited")
}
