package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func SetupRoutes(handler *Handler) *chi.Mux {
	r := chi.NewRouter()

	for _, mw := range SetupMiddleware() {
		r.Use(mw)
	}

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", handler.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/biome", handler.GetBiome)
		r.Get("/height", handler.GetHeight)
		r.Get("/blend", handler.GetBlendWeights)
		r.Get("/subzones", handler.GetSubZones)
		r.Get("/chunks/{x}/{z}", handler.GetChunk)
		r.Get("/worlds", handler.ListWorlds)
	})

	return r
}
