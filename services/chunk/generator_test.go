package chunk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramesh/worldgen/internal/testutil"
	"github.com/terramesh/worldgen/services/heightfield"
	"github.com/terramesh/worldgen/services/region"
)

func newTestService(t *testing.T, seed int64) (*Service, *MemoryStore) {
	t.Helper()

	part, err := region.NewPartitioner(region.DefaultConfig())
	require.NoError(t, err)
	part.Initialize(seed)

	synth, err := heightfield.NewSynthesizer(seed, part, heightfield.DefaultConfig())
	require.NoError(t, err)

	store := NewMemoryStore()
	return NewService(store, uuid.New(), seed, part, synth), store
}

func TestGenerateChunkShape(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc, _ := newTestService(t, 42)

	data, err := svc.GenerateChunk(0, 0)
	require.NoError(t, err)

	assert.Equal(t, int32(0), data.ChunkX)
	assert.Equal(t, int32(0), data.ChunkZ)
	assert.Equal(t, int32(DefaultChunkSize), data.Size)
	assert.Equal(t, int64(42), data.Seed)

	cells := DefaultChunkSize * DefaultChunkSize
	require.Len(t, data.Heights, cells)
	require.Len(t, data.Biomes, cells)
	require.Len(t, data.Surface, cells)
	assert.False(t, data.GeneratedAt.IsZero())
}

func TestGenerateChunkDeterminism(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc1, _ := newTestService(t, 42)
	svc2, _ := newTestService(t, 42)

	d1, err := svc1.GenerateChunk(3, -2)
	require.NoError(t, err)
	d2, err := svc2.GenerateChunk(3, -2)
	require.NoError(t, err)

	assert.Equal(t, d1.Heights, d2.Heights)
	assert.Equal(t, d1.Biomes, d2.Biomes)
	assert.Equal(t, d1.Surface, d2.Surface)
}

func TestGenerateChunkMatchesPointQueries(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc, _ := newTestService(t, 42)

	data, err := svc.GenerateChunk(1, 1)
	require.NoError(t, err)

	// Spot-check the bulk path against direct point queries.
	for _, pos := range [][2]int32{{0, 0}, {15, 7}, {31, 31}} {
		worldX := float64(1*data.Size + pos[0])
		worldZ := float64(1*data.Size + pos[1])

		b, err := svc.region.BiomeAt(worldX, worldZ)
		require.NoError(t, err)
		assert.Equal(t, b, data.Biomes[data.Index(pos[0], pos[1])],
			"biome mismatch at local (%d,%d)", pos[0], pos[1])
		assert.Equal(t, heightfield.SurfaceMaterial(b, int(data.Heights[data.Index(pos[0], pos[1])])),
			data.Surface[data.Index(pos[0], pos[1])])
	}
}

func TestGetOrCreateChunkCaches(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc, store := newTestService(t, 42)
	ctx := testutil.CreateTestContext()

	first, err := svc.GetOrCreateChunk(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	// Second call must serve the stored chunk, not regenerate.
	second, err := svc.GetOrCreateChunk(ctx, 0, 0)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.Len())
}

func TestGetChunksInRange(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc, store := newTestService(t, 42)
	ctx := testutil.CreateTestContext()

	chunks, err := svc.GetChunksInRange(ctx, -1, 1, -1, 1)
	require.NoError(t, err)
	assert.Len(t, chunks, 9)
	assert.Equal(t, 9, store.Len())

	seen := make(map[[2]int32]bool)
	for _, c := range chunks {
		seen[[2]int32{c.ChunkX, c.ChunkZ}] = true
	}
	assert.Len(t, seen, 9, "no coordinate generated twice")
}

func TestGetChunksInRadius(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc, _ := newTestService(t, 42)
	ctx := testutil.CreateTestContext()

	// Manhattan radius 1 is the center plus four direct neighbors.
	chunks, err := svc.GetChunksInRadius(ctx, 0, 0, 1)
	require.NoError(t, err)
	assert.Len(t, chunks, 5)

	for _, c := range chunks {
		assert.LessOrEqual(t, abs(c.ChunkX)+abs(c.ChunkZ), int32(1))
	}
}

func TestGetChunksEmptyRange(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc, _ := newTestService(t, 42)
	ctx := testutil.CreateTestContext()

	chunks, err := svc.GetChunksInRange(ctx, 1, 0, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestGenerateView(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	svc, store := newTestService(t, 42)
	ctx := testutil.CreateTestContext()

	chunks, err := svc.GenerateView(ctx, 0, 0, 1)
	require.NoError(t, err)
	assert.Len(t, chunks, 9)
	assert.Equal(t, 9, store.Len())
}

func TestSortClosestFirst(t *testing.T) {
	coords := [][2]int32{
		{2, 2},
		{0, 0},
		{1, 0},
		{-1, 0},
		{0, 1},
		{1, 1},
	}

	SortClosestFirst(coords, 0, 0)

	assert.Equal(t, [2]int32{0, 0}, coords[0])

	prev := int64(-1)
	for _, c := range coords {
		d := sqDist(c, 0, 0)
		assert.GreaterOrEqual(t, d, prev, "coordinates out of distance order")
		prev = d
	}

	// Equidistant coordinates break ties by (x, z).
	assert.Equal(t, [2]int32{-1, 0}, coords[1])
	assert.Equal(t, [2]int32{0, 1}, coords[2])
	assert.Equal(t, [2]int32{1, 0}, coords[3])
}

func TestSortClosestFirstOffCenter(t *testing.T) {
	coords := [][2]int32{{0, 0}, {10, 10}, {9, 10}, {10, 9}}
	SortClosestFirst(coords, 10, 10)

	assert.Equal(t, [2]int32{10, 10}, coords[0])
	assert.Equal(t, [2]int32{0, 0}, coords[3])
}

func TestMemoryStoreFirstWriteWins(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	store := NewMemoryStore()
	ctx := testutil.CreateTestContext()
	worldID := uuid.New()

	_, err := store.GetChunk(ctx, worldID, 0, 0)
	assert.ErrorIs(t, err, ErrChunkNotFound)

	first := &Data{ChunkX: 0, ChunkZ: 0, Size: 32, Seed: 1}
	require.NoError(t, store.SaveChunk(ctx, worldID, first))
	require.NoError(t, store.SaveChunk(ctx, worldID, first))

	// A conflicting later write is dropped silently.
	later := &Data{ChunkX: 0, ChunkZ: 0, Size: 32, Seed: 2}
	require.NoError(t, store.SaveChunk(ctx, worldID, later))

	got, err := store.GetChunk(ctx, worldID, 0, 0)
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreIsolatesWorlds(t *testing.T) {
	cleanup := testutil.SetupTest(t, testutil.DefaultTestConfig())
	defer cleanup()

	store := NewMemoryStore()
	ctx := testutil.CreateTestContext()

	worldA := uuid.New()
	worldB := uuid.New()

	require.NoError(t, store.SaveChunk(ctx, worldA, &Data{ChunkX: 0, ChunkZ: 0, Size: 32}))

	_, err := store.GetChunk(ctx, worldB, 0, 0)
	assert.ErrorIs(t, err, ErrChunkNotFound)
}
