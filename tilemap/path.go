package tilemap

import (
	"sync"

	"github.com/lixenwraith/tilegrid/grid"
)

// PathTile is the per-cell traversal cost consulted by the
// pathfinder. Cost 0 means no extra cost; unreachable cells are
// simply absent from storage.
type PathTile struct {
	Cost uint32 `toml:"cost"`
}

// PathTilemap overlays traversal costs on a chunked storage. The
// mutex serializes worker-thread searches against authoring writes;
// the single-threaded cooperative mode pays only an uncontended lock.
type PathTilemap struct {
	mu      sync.RWMutex
	storage *ChunkedStorage[PathTile]
}

// NewPathTilemap creates an empty overlay with the given chunk size
// (0 selects DefaultChunkSize)
func NewPathTilemap(chunkSize int) *PathTilemap {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	return &PathTilemap{storage: NewChunkedStorage[PathTile](chunkSize)}
}

// Get returns the cost tile at p, or false for impassable cells
func (t *PathTilemap) Get(p grid.Point) (PathTile, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.storage.Get(p)
}

// Set writes a cost tile at p. A nil-equivalent removal is done with
// Remove; there is no tombstone value.
func (t *PathTilemap) Set(p grid.Point, tile PathTile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.storage.Set(p, tile)
}

// Remove makes p impassable
func (t *PathTilemap) Remove(p grid.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.storage.Remove(p)
}

// FillRect writes the same cost tile over every cell of area
func (t *PathTilemap) FillRect(area grid.Rect, tile PathTile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for y := area.Min.Y; y <= area.Max.Y; y++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			t.storage.Set(grid.Point{X: x, Y: y}, tile)
		}
	}
}

// FillRectCustom fills area from a per-cell function. Returning false
// leaves the cell impassable.
func (t *PathTilemap) FillRectCustom(area grid.Rect, fn func(grid.Point) (PathTile, bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for y := area.Min.Y; y <= area.Max.Y; y++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			p := grid.Point{X: x, Y: y}
			if tile, ok := fn(p); ok {
				t.storage.Set(p, tile)
			} else {
				t.storage.Remove(p)
			}
		}
	}
}

// Storage exposes the underlying chunked storage for persistence and
// render consumers. Callers in worker mode must hold no reference
// across concurrent authoring writes.
func (t *PathTilemap) Storage() *ChunkedStorage[PathTile] {
	return t.storage
}
