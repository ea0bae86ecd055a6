package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupMiddleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// Request ID for tracing
		middleware.RequestID,

		// Logging middleware
		middleware.Logger,

		// Recovery middleware
		middleware.Recoverer,

		// CORS middleware for public API
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}),

		// Timeout middleware
		middleware.Timeout(30 * time.Second),
	}
}
