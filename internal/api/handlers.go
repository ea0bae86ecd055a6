package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/terramesh/worldgen/services/biome"
	"github.com/terramesh/worldgen/services/chunk"
	"github.com/terramesh/worldgen/services/heightfield"
	"github.com/terramesh/worldgen/services/region"
	"github.com/terramesh/worldgen/services/world"
)

// Handler serves the read-only generation queries.
type Handler struct {
	region        *region.Partitioner
	synth         *heightfield.Synthesizer
	chunks        *chunk.Service
	worlds        *world.Service // nil when running without a database
	blendDistance float64
}

func NewHandler(part *region.Partitioner, synth *heightfield.Synthesizer, chunks *chunk.Service, worlds *world.Service, blendDistance float64) *Handler {
	return &Handler{
		region:        part,
		synth:         synth,
		chunks:        chunks,
		worlds:        worlds,
		blendDistance: blendDistance,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "terramesh-worldgen",
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

// GetBiome returns the macro biome at a world position.
func (h *Handler) GetBiome(w http.ResponseWriter, r *http.Request) {
	x, z, ok := h.parsePosition(w, r)
	if !ok {
		return
	}

	b, err := h.region.BiomeAt(x, z)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to resolve biome", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{"x": x, "z": z, "biome": b.String()})
}

// GetHeight returns the terrain elevation at a world position.
func (h *Handler) GetHeight(w http.ResponseWriter, r *http.Request) {
	x, z, ok := h.parsePosition(w, r)
	if !ok {
		return
	}

	height, err := h.synth.HeightAt(x, z)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to synthesize height", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{"x": x, "z": z, "height": height})
}

// GetBlendWeights returns the per-biome blend weights at a world position.
func (h *Handler) GetBlendWeights(w http.ResponseWriter, r *http.Request) {
	x, z, ok := h.parsePosition(w, r)
	if !ok {
		return
	}

	distance := h.blendDistance
	if raw := r.URL.Query().Get("distance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			h.renderError(w, r, http.StatusBadRequest, "invalid blend distance", err)
			return
		}
		distance = parsed
	}

	weights, err := h.region.BlendWeights(x, z, distance)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to compute blend weights", err)
		return
	}

	named := make(map[string]float64, len(weights))
	for b, wt := range weights {
		named[b.String()] = wt
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{"x": x, "z": z, "distance": distance, "weights": named})
}

// GetSubZones returns the sub-zone classification at a world position for
// its macro biome (or an explicitly requested one).
func (h *Handler) GetSubZones(w http.ResponseWriter, r *http.Request) {
	x, z, ok := h.parsePosition(w, r)
	if !ok {
		return
	}

	var macro biome.Type
	if raw := r.URL.Query().Get("biome"); raw != "" {
		parsed, err := biome.ParseType(raw)
		if err != nil {
			h.renderError(w, r, http.StatusBadRequest, "unknown biome", err)
			return
		}
		macro = parsed
	} else {
		resolved, err := h.region.BiomeAt(x, z)
		if err != nil {
			h.renderError(w, r, http.StatusInternalServerError, "failed to resolve biome", err)
			return
		}
		macro = resolved
	}

	zone, factors, err := h.synth.SubRegionOf(x, z, macro)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to classify sub-zone", err)
		return
	}

	named := make(map[string]float64, len(factors))
	for zn, f := range factors {
		named[zn.String()] = f
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"x": x, "z": z,
		"biome":   macro.String(),
		"zone":    zone.String(),
		"factors": named,
	})
}

// GetChunk returns (generating if needed) the chunk at chunk coordinates.
func (h *Handler) GetChunk(w http.ResponseWriter, r *http.Request) {
	chunkX, err := strconv.ParseInt(chi.URLParam(r, "x"), 10, 32)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid chunk x coordinate", err)
		return
	}
	chunkZ, err := strconv.ParseInt(chi.URLParam(r, "z"), 10, 32)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid chunk z coordinate", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	data, err := h.chunks.GetOrCreateChunk(ctx, int32(chunkX), int32(chunkZ))
	if err != nil {
		log.Error("failed to load chunk", "error", err, "chunk_x", chunkX, "chunk_z", chunkZ)
		h.renderError(w, r, http.StatusInternalServerError, "failed to load chunk", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, data)
}

// ListWorlds returns all registered worlds.
func (h *Handler) ListWorlds(w http.ResponseWriter, r *http.Request) {
	if h.worlds == nil {
		h.renderError(w, r, http.StatusServiceUnavailable, "world registry requires a database", nil)
		return
	}

	worlds, err := h.worlds.ListWorlds(r.Context())
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to list worlds", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, worlds)
}

// parsePosition reads the x/z query parameters as world coordinates.
func (h *Handler) parsePosition(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	z, errZ := strconv.ParseFloat(r.URL.Query().Get("z"), 64)
	if errX != nil || errZ != nil {
		h.renderError(w, r, http.StatusBadRequest, "x and z query parameters are required numbers", nil)
		return 0, 0, false
	}
	return x, z, true
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	body := map[string]interface{}{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
