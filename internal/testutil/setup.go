// Package testutil provides the shared test harness: quiet-by-default logging,
// optional log capture into testing.T, and bounded test contexts.
package testutil

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/terramesh/worldgen/internal/logging"
)

// TestConfig holds configuration for test setup
type TestConfig struct {
	// EnableLogCapture routes log output into testing.T instead of discarding it
	EnableLogCapture bool
}

// DefaultTestConfig returns a default test configuration suitable for most tests
func DefaultTestConfig() *TestConfig {
	return &TestConfig{
		EnableLogCapture: false,
	}
}

// SetupTest initializes the test environment with the provided configuration.
//
// Usage:
//
//	func TestMyFunction(t *testing.T) {
//	    cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
//	    defer cleanup()
//	    // ... test code
//	}
func SetupTest(t *testing.T, config *TestConfig) func() {
	t.Helper()

	originalLogger := logging.Logger

	if config.EnableLogCapture {
		testLogger := log.New(testWriter{t: t})
		testLogger.SetLevel(log.DebugLevel)
		logging.Logger = testLogger
	} else {
		// Disable logging output during tests to reduce noise
		logging.Logger = log.New(io.Discard)
	}

	return func() {
		logging.Logger = originalLogger
	}
}

// testWriter adapts testing.T to implement io.Writer for log output
type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (n int, err error) {
	tw.t.Helper()
	tw.t.Log(string(p))
	return len(p), nil
}

// CreateTestContext creates a context with a reasonable timeout for testing.
// This should be used instead of context.Background() in tests.
func CreateTestContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	_ = cancel // simple test contexts are released by the timeout
	return ctx
}

// SkipIfShort skips the test if testing.Short() is true.
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()

	if testing.Short() {
		if reason == "" {
			reason = "skipping test in short mode"
		}
		t.Skip(reason)
	}
}
