// Package region partitions the world plane into contiguous irregular cells
// via warped cellular noise and stably maps each cell to one macro biome,
// with soft neighbor-distinctness and boundary-aware blend queries.
package region

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"sync"

	"github.com/charmbracelet/log"

	"github.com/terramesh/worldgen/internal/logging"
	"github.com/terramesh/worldgen/internal/mathx"
	"github.com/terramesh/worldgen/services/biome"
	"github.com/terramesh/worldgen/services/noise"
)

var (
	// ErrNotInitialized is returned by any query made before Initialize.
	// Callers must treat it as a programming error, never substitute a
	// default seed or biome.
	ErrNotInitialized = errors.New("region: partitioner not initialized")

	// ErrInvalidParameter is returned for out-of-range configuration values.
	ErrInvalidParameter = errors.New("region: invalid parameter")
)

// Fixed seed deltas decorrelating the noise channels of one world seed.
const (
	cellSeedOffset     = 0
	warpSeedOffset     = 1
	assignSeedOffset   = 2
	neighborSeedOffset = 3
)

const (
	// neighborProbes is the number of points sampled on the discovery circle
	// around a cell's representative point.
	neighborProbes = 16

	// idQuantization maps a cell-value sample v in [-1,1] to the integer id
	// floor((v+1)*idQuantization).
	idQuantization = 1000
)

// Config carries the tessellation parameters. They are fixed per seeded
// session: changing them after cells are cached would invalidate prior
// assignments, so callers must construct a new partitioner instead.
type Config struct {
	// RegionScale is the cellular noise frequency; 1/RegionScale is the
	// typical cell diameter in world units.
	RegionScale float64
	// WarpStrength scales the domain-warp displacement in world units.
	WarpStrength float64
	// MaxBoundaryRadius caps the boundary binary search. Positions with no
	// boundary inside the cap report this value ("far from boundary").
	MaxBoundaryRadius float64
	// BoundarySamples is the number of angularly spaced probes per ring.
	BoundarySamples int
	// RareChance is the independent inclusion probability for each rare
	// biome in a cell's candidate set.
	RareChance float64
}

// DefaultConfig returns the standard world tessellation parameters.
func DefaultConfig() Config {
	return Config{
		RegionScale:       0.00015,
		WarpStrength:      1500,
		MaxBoundaryRadius: 2048,
		BoundarySamples:   8,
		RareChance:        0.15,
	}
}

// Validate rejects out-of-range parameters at configuration time.
func (c Config) Validate() error {
	if c.RegionScale <= 0 {
		return fmt.Errorf("%w: region scale must be positive, got %g", ErrInvalidParameter, c.RegionScale)
	}
	if c.WarpStrength < 0 {
		return fmt.Errorf("%w: warp strength must not be negative, got %g", ErrInvalidParameter, c.WarpStrength)
	}
	if c.MaxBoundaryRadius < 1 {
		return fmt.Errorf("%w: max boundary radius must be at least 1, got %g", ErrInvalidParameter, c.MaxBoundaryRadius)
	}
	if c.BoundarySamples < 3 {
		return fmt.Errorf("%w: boundary samples must be at least 3, got %d", ErrInvalidParameter, c.BoundarySamples)
	}
	if c.RareChance < 0 || c.RareChance > 1 {
		return fmt.Errorf("%w: rare chance must be in [0,1], got %g", ErrInvalidParameter, c.RareChance)
	}
	return nil
}

// Partitioner tessellates the plane and lazily assigns one macro biome per
// cell. Assignment and neighbor caches are write-once and grow monotonically
// for the lifetime of one seeded session.
type Partitioner struct {
	cfg    Config
	logger *log.Logger

	// assignMu serializes the check-then-assign step so concurrent chunk
	// generation preserves write-once immutability.
	assignMu sync.Mutex

	mu          sync.RWMutex
	initialized bool
	seed        int64
	cellular    *noise.CellularChannel
	warp        *noise.WarpChannel
	assignments map[int]biome.Type
	neighbors   map[int][]int
}

// NewPartitioner creates an uninitialized partitioner. Every query before
// Initialize returns ErrNotInitialized.
func NewPartitioner(cfg Config) (*Partitioner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Partitioner{
		cfg:    cfg,
		logger: logging.WithFields("component", "region-partitioner"),
	}, nil
}

// Initialize clears all caches and derives the independent noise channels
// for this seed. Re-initializing with the same seed reproduces the exact
// same partition and assignments.
func (p *Partitioner) Initialize(seed int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seed = seed
	p.cellular = noise.NewCellularChannel(seed+cellSeedOffset, p.cfg.RegionScale)
	p.warp = noise.NewWarpChannel(seed+warpSeedOffset, p.cfg.RegionScale, p.cfg.WarpStrength)
	p.assignments = make(map[int]biome.Type)
	p.neighbors = make(map[int][]int)
	p.initialized = true

	p.logger.Info("partitioner initialized", "seed", seed, "region_scale", p.cfg.RegionScale)
}

// Seed returns the seed of the current session.
func (p *Partitioner) Seed() (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return 0, ErrNotInitialized
	}
	return p.seed, nil
}

func (p *Partitioner) channels() (*noise.CellularChannel, *noise.WarpChannel, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return nil, nil, ErrNotInitialized
	}
	return p.cellular, p.warp, nil
}

// CellAt returns the tessellation cell id containing (x, z): the coordinates
// are domain-warped, sampled against the cellular channel, and the scalar is
// quantized into an integer id.
func (p *Partitioner) CellAt(x, z float64) (int, error) {
	cellular, warp, err := p.channels()
	if err != nil {
		return 0, err
	}
	wx, wz := warp.Warp(x, z)
	v := cellular.Sample(wx, wz)
	return int(math.Floor((v + 1) * idQuantization)), nil
}

// BiomeAt returns the macro biome at (x, z), resolving the cell's assignment
// on first access.
func (p *Partitioner) BiomeAt(x, z float64) (biome.Type, error) {
	id, err := p.CellAt(x, z)
	if err != nil {
		return 0, err
	}
	return p.AssignBiome(id)
}

// AssignBiome returns the biome assigned to a cell id, assigning it first if
// the cell has not been seen. Assignment is a pure function of (seed, cell id):
// the distinctness filter consults each neighbor's own tentative biome, never
// the session cache, so results do not depend on the order cells resolve in.
// The caches are memoization only.
func (p *Partitioner) AssignBiome(cellID int) (biome.Type, error) {
	p.mu.RLock()
	if !p.initialized {
		p.mu.RUnlock()
		return 0, ErrNotInitialized
	}
	b, ok := p.assignments[cellID]
	p.mu.RUnlock()
	if ok {
		return b, nil
	}
	return p.assignCell(cellID)
}

// NeighborsOf returns the cached neighbor cell ids discovered when the cell
// was assigned, or ok=false if the cell has not been resolved yet.
func (p *Partitioner) NeighborsOf(cellID int) ([]int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids, ok := p.neighbors[cellID]
	if !ok {
		return nil, false
	}
	out := make([]int, len(ids))
	copy(out, ids)
	return out, true
}

// drawCandidates builds a cell's candidate list from its assignment stream:
// every common biome plus each rare biome that passes its inclusion draw.
func (p *Partitioner) drawCandidates(rng *rand.Rand) []biome.Type {
	candidates := append([]biome.Type(nil), biome.Common...)
	for _, r := range biome.Rare {
		if rng.Float64() < p.cfg.RareChance {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// tentativeBiome is a cell's first-draw biome from its own stream alone,
// with no distinctness filtering and no recursion. Feeding the filter with
// tentative biomes instead of cached assignments keeps AssignBiome a pure
// function of (seed, cell id) no matter which cell resolves first.
func (p *Partitioner) tentativeBiome(cellID int) biome.Type {
	p.mu.RLock()
	seed := p.seed
	p.mu.RUnlock()

	rng := rand.New(rand.NewSource(mathx.SeedFor(seed+assignSeedOffset, int64(cellID))))
	candidates := p.drawCandidates(rng)
	return candidates[rng.Intn(len(candidates))]
}

func (p *Partitioner) assignCell(cellID int) (biome.Type, error) {
	p.assignMu.Lock()
	defer p.assignMu.Unlock()

	// Another goroutine may have won the race while we waited.
	p.mu.RLock()
	b, ok := p.assignments[cellID]
	seed := p.seed
	p.mu.RUnlock()
	if ok {
		return b, nil
	}

	// Cell-local pseudo-random stream: repeated visits from any call site
	// consume the same draws in the same order.
	rng := rand.New(rand.NewSource(mathx.SeedFor(seed+assignSeedOffset, int64(cellID))))
	candidates := p.drawCandidates(rng)

	neighborIDs, err := p.discoverNeighbors(cellID)
	if err != nil {
		return 0, err
	}

	used := make(map[biome.Type]bool)
	for _, nid := range neighborIDs {
		used[p.tentativeBiome(nid)] = true
	}

	remaining := make([]biome.Type, 0, len(candidates))
	for _, c := range candidates {
		if !used[c] {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		// Every candidate is claimed by a neighbor's tentative biome. Restore
		// the full list so assignment always makes progress; the distinctness
		// rule is soft.
		remaining = candidates
	}

	chosen := remaining[rng.Intn(len(remaining))]

	p.mu.Lock()
	p.assignments[cellID] = chosen
	p.neighbors[cellID] = neighborIDs
	p.mu.Unlock()

	p.logger.Debug("assigned biome to cell",
		"cell_id", cellID, "biome", chosen.String(), "neighbors", len(neighborIDs))
	return chosen, nil
}

// discoverNeighbors samples points on a circle of one cell diameter around a
// deterministic representative point for the cell. A cell id is a quantized
// scalar, so no true cell geometry is recoverable from it; the representative
// point is hashed from the cell id across a span of idQuantization cell
// widths so discovery rings of different cells spread over the plane instead
// of piling up near the origin. It is only approximately centroidal and the
// discovered set may be a subset of the true geometric neighbors.
func (p *Partitioner) discoverNeighbors(cellID int) ([]int, error) {
	p.mu.RLock()
	seed := p.seed
	p.mu.RUnlock()

	rng := rand.New(rand.NewSource(mathx.SeedFor(seed+neighborSeedOffset, int64(cellID))))
	span := float64(idQuantization) / p.cfg.RegionScale
	cx := (rng.Float64()*2 - 1) * span
	cz := (rng.Float64()*2 - 1) * span
	radius := 1.0 / p.cfg.RegionScale

	seen := map[int]bool{cellID: true}
	ids := make([]int, 0, neighborProbes)
	for i := 0; i < neighborProbes; i++ {
		angle := 2 * math.Pi * float64(i) / neighborProbes
		id, err := p.CellAt(cx+math.Cos(angle)*radius, cz+math.Sin(angle)*radius)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ringHasMismatch reports whether any of the angularly spaced samples at the
// given radius falls in a different cell than the center.
func (p *Partitioner) ringHasMismatch(x, z, radius float64, centerCell int) (bool, error) {
	for i := 0; i < p.cfg.BoundarySamples; i++ {
		angle := 2 * math.Pi * float64(i) / float64(p.cfg.BoundarySamples)
		id, err := p.CellAt(x+math.Cos(angle)*radius, z+math.Sin(angle)*radius)
		if err != nil {
			return false, err
		}
		if id != centerCell {
			return true, nil
		}
	}
	return false, nil
}

// DistanceToBoundary binary-searches the smallest probe radius at which a
// ring sample crosses into another cell. When no boundary is detected inside
// MaxBoundaryRadius, the cap is returned and means "far from boundary".
func (p *Partitioner) DistanceToBoundary(x, z float64) (float64, error) {
	center, err := p.CellAt(x, z)
	if err != nil {
		return 0, err
	}

	hi := p.cfg.MaxBoundaryRadius
	mismatch, err := p.ringHasMismatch(x, z, hi, center)
	if err != nil {
		return 0, err
	}
	if !mismatch {
		return hi, nil
	}

	lo := 1.0
	for hi-lo > 0.5 {
		mid := (lo + hi) / 2
		mismatch, err = p.ringHasMismatch(x, z, mid, center)
		if err != nil {
			return 0, err
		}
		if mismatch {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}

// NeighboringBiomes sweeps angles outward up to blendDistance and records,
// for every foreign biome encountered, the smallest sample distance at which
// it first appears.
func (p *Partitioner) NeighboringBiomes(x, z, blendDistance float64) (map[biome.Type]float64, error) {
	current, err := p.BiomeAt(x, z)
	if err != nil {
		return nil, err
	}

	const radialSteps = 8
	angles := p.cfg.BoundarySamples * 2

	found := make(map[biome.Type]float64)
	for i := 0; i < angles; i++ {
		angle := 2 * math.Pi * float64(i) / float64(angles)
		for s := 1; s <= radialSteps; s++ {
			dist := blendDistance * float64(s) / float64(radialSteps)
			b, err := p.BiomeAt(x+math.Cos(angle)*dist, z+math.Sin(angle)*dist)
			if err != nil {
				return nil, err
			}
			if b == current {
				continue
			}
			if prev, ok := found[b]; !ok || dist < prev {
				found[b] = dist
			}
		}
	}
	return found, nil
}

// falloff is the blend weight of a biome first seen at the given distance:
// 1 at the position itself, a smooth cosine ramp to 0 at blendDistance.
func falloff(dist, blendDistance float64) float64 {
	if dist <= 0 {
		return 1
	}
	if dist > blendDistance {
		return 0
	}
	return math.Cos(dist / blendDistance * math.Pi / 2)
}

// BlendWeights returns the per-biome contribution factors at (x, z). Far from
// any boundary the current biome carries exactly weight 1.0; near a boundary
// the weights fall off with the cosine ramp and are renormalized to sum to 1.
func (p *Partitioner) BlendWeights(x, z, blendDistance float64) (biome.BlendWeightSet, error) {
	if blendDistance < 0 {
		return nil, fmt.Errorf("%w: blend distance must not be negative, got %g", ErrInvalidParameter, blendDistance)
	}

	current, err := p.BiomeAt(x, z)
	if err != nil {
		return nil, err
	}
	if blendDistance == 0 {
		return biome.BlendWeightSet{current: 1.0}, nil
	}

	dist, err := p.DistanceToBoundary(x, z)
	if err != nil {
		return nil, err
	}
	if dist > blendDistance {
		return biome.BlendWeightSet{current: 1.0}, nil
	}

	neighborsAt, err := p.NeighboringBiomes(x, z, blendDistance)
	if err != nil {
		return nil, err
	}

	weights := biome.BlendWeightSet{current: 1.0}
	for b, d := range neighborsAt {
		if w := falloff(d, blendDistance); w > 0 {
			weights[b] += w
		}
	}
	weights.Normalize()
	return weights, nil
}

// IsChunkNearBoundary is the coarse pre-check for chunk-granularity callers:
// it samples the chunk's corners, edge midpoints and center and reports
// whether any sample sits within blendDistance of a cell boundary (or the
// samples disagree on the biome outright).
func (p *Partitioner) IsChunkNearBoundary(originX, originZ float64, chunkSize int, blendDistance float64) (bool, error) {
	if chunkSize <= 0 {
		return false, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidParameter, chunkSize)
	}
	if blendDistance < 0 {
		return false, fmt.Errorf("%w: blend distance must not be negative, got %g", ErrInvalidParameter, blendDistance)
	}

	size := float64(chunkSize)
	half := size / 2
	points := [9][2]float64{
		{originX, originZ},
		{originX + half, originZ},
		{originX + size, originZ},
		{originX, originZ + half},
		{originX + half, originZ + half},
		{originX + size, originZ + half},
		{originX, originZ + size},
		{originX + half, originZ + size},
		{originX + size, originZ + size},
	}

	firstCell := -1
	for _, pt := range points {
		id, err := p.CellAt(pt[0], pt[1])
		if err != nil {
			return false, err
		}
		if firstCell == -1 {
			firstCell = id
		} else if id != firstCell {
			return true, nil
		}
	}

	for _, pt := range points {
		d, err := p.DistanceToBoundary(pt[0], pt[1])
		if err != nil {
			return false, err
		}
		if d <= blendDistance {
			return true, nil
		}
	}
	return false, nil
}
