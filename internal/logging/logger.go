package logging

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

// LogLevel represents available log levels
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// InitLogger initializes the global logger with configuration from environment variables
func InitLogger() {
	Logger = log.New(os.Stderr)

	logLevel := getLogLevelFromEnv()
	setLogLevel(Logger, logLevel)

	Logger.SetReportTimestamp(true)
	Logger.SetReportCaller(false)

	Logger.Debug("Logger initialized", "level", logLevel)
}

// getLogLevelFromEnv reads log level from LOG_LEVEL environment variable
func getLogLevelFromEnv() LogLevel {
	envLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))

	switch envLevel {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func setLogLevel(logger *log.Logger, level LogLevel) {
	switch level {
	case DebugLevel:
		logger.SetLevel(log.DebugLevel)
	case InfoLevel:
		logger.SetLevel(log.InfoLevel)
	case WarnLevel:
		logger.SetLevel(log.WarnLevel)
	case ErrorLevel:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// GetLogger returns the global logger instance
func GetLogger() *log.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}

// WithFields creates a logger with contextual fields
func WithFields(fields ...interface{}) *log.Logger {
	return GetLogger().With(fields...)
}

// WithSeed creates a logger with world seed context
func WithSeed(seed int64) *log.Logger {
	return WithFields("seed", seed)
}

// WithWorldCoords creates a logger with world coordinate context
func WithWorldCoords(x, z float64) *log.Logger {
	return WithFields("x", x, "z", z)
}

// WithChunkCoords creates a logger with chunk coordinate context
func WithChunkCoords(chunkX, chunkZ int32) *log.Logger {
	return WithFields("chunk_x", chunkX, "chunk_z", chunkZ)
}

// WithCell creates a logger with tessellation cell context
func WithCell(cellID int) *log.Logger {
	return WithFields("cell_id", cellID)
}
