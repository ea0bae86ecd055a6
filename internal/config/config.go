package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	WorldGen WorldGenConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	// URL is a postgres connection string. Empty runs the server on the
	// in-memory chunk store.
	URL string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// WorldGenConfig carries the generation parameters shared by the partitioner
// and the height synthesizer. Changing these invalidates cached assignments,
// so they are fixed for the lifetime of a seeded session.
type WorldGenConfig struct {
	Seed          int64
	RegionScale   float64
	WarpStrength  float64
	BlendDistance float64
	ChunkSize     int
	RareChance    float64
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvStr("PORT", "8080"),
			ReadTimeout:     getEnvDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvDuration("IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL: getEnvStr("DATABASE_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnvStr("LOG_LEVEL", "info"),
			Format: getEnvStr("LOG_FORMAT", "text"),
		},
		WorldGen: WorldGenConfig{
			Seed:          getEnvInt64("WORLD_SEED", 0),
			RegionScale:   getEnvFloat("REGION_SCALE", 0.00015),
			WarpStrength:  getEnvFloat("WARP_STRENGTH", 1500),
			BlendDistance: getEnvFloat("BLEND_DISTANCE", 32),
			ChunkSize:     getEnvInt("CHUNK_SIZE", 32),
			RareChance:    getEnvFloat("RARE_BIOME_CHANCE", 0.15),
		},
	}
}

// Validate rejects misconfiguration at startup. A bad generation parameter
// must fail fast rather than degrade into inconsistent terrain.
func (c *Config) Validate() error {
	if err := c.WorldGen.Validate(); err != nil {
		return err
	}
	if c.Server.Port == "" {
		return fmt.Errorf("config: server port must not be empty")
	}
	return nil
}

func (w WorldGenConfig) Validate() error {
	if w.RegionScale <= 0 {
		return fmt.Errorf("config: region scale must be positive, got %g", w.RegionScale)
	}
	if w.WarpStrength < 0 {
		return fmt.Errorf("config: warp strength must not be negative, got %g", w.WarpStrength)
	}
	if w.BlendDistance < 0 {
		return fmt.Errorf("config: blend distance must not be negative, got %g", w.BlendDistance)
	}
	if w.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk size must be positive, got %d", w.ChunkSize)
	}
	if w.RareChance < 0 || w.RareChance > 1 {
		return fmt.Errorf("config: rare biome chance must be in [0,1], got %g", w.RareChance)
	}
	return nil
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
