package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.Equal(t, int64(0), cfg.WorldGen.Seed)
	assert.Equal(t, 0.00015, cfg.WorldGen.RegionScale)
	assert.Equal(t, 1500.0, cfg.WorldGen.WarpStrength)
	assert.Equal(t, 32.0, cfg.WorldGen.BlendDistance)
	assert.Equal(t, 32, cfg.WorldGen.ChunkSize)
	assert.Equal(t, 0.15, cfg.WorldGen.RareChance)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WORLD_SEED", "12345")
	t.Setenv("REGION_SCALE", "0.0002")
	t.Setenv("BLEND_DISTANCE", "48")
	t.Setenv("CHUNK_SIZE", "64")
	t.Setenv("READ_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(12345), cfg.WorldGen.Seed)
	assert.Equal(t, 0.0002, cfg.WorldGen.RegionScale)
	assert.Equal(t, 48.0, cfg.WorldGen.BlendDistance)
	assert.Equal(t, 64, cfg.WorldGen.ChunkSize)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("WORLD_SEED", "not-a-number")
	t.Setenv("REGION_SCALE", "banana")
	t.Setenv("READ_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, int64(0), cfg.WorldGen.Seed)
	assert.Equal(t, 0.00015, cfg.WorldGen.RegionScale)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "port",
		},
		{
			name:    "zero region scale",
			mutate:  func(c *Config) { c.WorldGen.RegionScale = 0 },
			wantErr: "region scale",
		},
		{
			name:    "negative warp strength",
			mutate:  func(c *Config) { c.WorldGen.WarpStrength = -5 },
			wantErr: "warp strength",
		},
		{
			name:    "negative blend distance",
			mutate:  func(c *Config) { c.WorldGen.BlendDistance = -1 },
			wantErr: "blend distance",
		},
		{
			name:    "zero chunk size",
			mutate:  func(c *Config) { c.WorldGen.ChunkSize = 0 },
			wantErr: "chunk size",
		},
		{
			name:    "rare chance out of range",
			mutate:  func(c *Config) { c.WorldGen.RareChance = 2 },
			wantErr: "rare biome chance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
