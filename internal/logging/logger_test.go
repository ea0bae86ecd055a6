package logging

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerInitializesOnce(t *testing.T) {
	Logger = nil
	first := GetLogger()
	require.NotNil(t, first)
	assert.Same(t, first, GetLogger())
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"DEBUG", log.DebugLevel},
		{"  info  ", log.InfoLevel},
		{"nonsense", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			InitLogger()
			assert.Equal(t, tt.want, Logger.GetLevel())
		})
	}
}

func TestContextHelpers(t *testing.T) {
	Logger = nil
	assert.NotNil(t, WithSeed(42))
	assert.NotNil(t, WithWorldCoords(1.5, -2.5))
	assert.NotNil(t, WithChunkCoords(3, -4))
	assert.NotNil(t, WithCell(1234))
	assert.NotNil(t, WithFields("component", "test"))
}
