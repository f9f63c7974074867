package tilemap

import (
	"fmt"

	"github.com/lixenwraith/tilegrid/grid"
)

// DefaultChunkSize is used when callers pass no explicit size
const DefaultChunkSize = 32

// Slot is one cell position inside a materialized chunk. Live
// distinguishes a stored zero value from an empty slot.
type Slot[T any] struct {
	Value T
	Live  bool
}

// ChunkedStorage is a sparse 2D grid of optional elements partitioned
// into fixed-size square chunks. Chunks materialize lazily on first
// write; a chunk slice has length chunkSize² and is row-major within
// the chunk. Absence is a normal result everywhere, never an error.
type ChunkedStorage[T any] struct {
	chunkSize int
	chunks    map[grid.Point][]Slot[T]
	dirty     map[grid.Point]struct{}
}

// NewChunkedStorage creates an empty storage. A zero or negative
// chunk size is a programming error, not a runtime condition.
func NewChunkedStorage[T any](chunkSize int) *ChunkedStorage[T] {
	if chunkSize <= 0 {
		panic(fmt.Sprintf("tilemap: chunk size must be positive, got %d", chunkSize))
	}
	return &ChunkedStorage[T]{
		chunkSize: chunkSize,
		chunks:    make(map[grid.Point][]Slot[T]),
		dirty:     make(map[grid.Point]struct{}),
	}
}

// FromMapper populates a new storage from a flat coordinate map, the
// shape map loaders hand over. chunkSize 0 selects DefaultChunkSize.
func FromMapper[T any](mapper map[grid.Point]T, chunkSize int) *ChunkedStorage[T] {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	s := NewChunkedStorage[T](chunkSize)
	for p, v := range mapper {
		s.Set(p, v)
	}
	return s
}

// ChunkSize returns the immutable chunk side length
func (s *ChunkedStorage[T]) ChunkSize() int {
	return s.chunkSize
}

// ToChunkAndLocal maps a grid coordinate to its chunk coordinate and
// row-major in-chunk index, using floor division so negative
// coordinates land in negative chunks.
func (s *ChunkedStorage[T]) ToChunkAndLocal(p grid.Point) (grid.Point, int) {
	c := p.DivToFloor(s.chunkSize)
	local := p.Sub(c.Scale(s.chunkSize))
	return c, local.Y*s.chunkSize + local.X
}

// FromChunkAndLocal is the inverse of ToChunkAndLocal
func (s *ChunkedStorage[T]) FromChunkAndLocal(c grid.Point, i int) grid.Point {
	return c.Scale(s.chunkSize).Add(grid.Point{X: i % s.chunkSize, Y: i / s.chunkSize})
}

// Get returns the element at p, or false if the chunk is unmapped or
// the slot is empty
func (s *ChunkedStorage[T]) Get(p grid.Point) (T, bool) {
	c, i := s.ToChunkAndLocal(p)
	chunk, ok := s.chunks[c]
	if !ok || !chunk[i].Live {
		var zero T
		return zero, false
	}
	return chunk[i].Value, true
}

// Set writes v at p, materializing the chunk if absent
func (s *ChunkedStorage[T]) Set(p grid.Point, v T) {
	c, i := s.ToChunkAndLocal(p)
	chunk, ok := s.chunks[c]
	if !ok {
		chunk = make([]Slot[T], s.chunkSize*s.chunkSize)
		s.chunks[c] = chunk
	}
	chunk[i] = Slot[T]{Value: v, Live: true}
	s.dirty[c] = struct{}{}
}

// Remove clears the slot at p in place and returns the previous
// value. The chunk stays materialized even if it becomes all-empty.
func (s *ChunkedStorage[T]) Remove(p grid.Point) (T, bool) {
	var zero T
	c, i := s.ToChunkAndLocal(p)
	chunk, ok := s.chunks[c]
	if !ok || !chunk[i].Live {
		return zero, false
	}
	prev := chunk[i].Value
	chunk[i] = Slot[T]{}
	s.dirty[c] = struct{}{}
	return prev, true
}

// GetChunk returns the slot slice of a materialized chunk. The slice
// is live storage, not a copy.
func (s *ChunkedStorage[T]) GetChunk(c grid.Point) ([]Slot[T], bool) {
	chunk, ok := s.chunks[c]
	return chunk, ok
}

// SetChunk installs an entire chunk at once. The slice length must be
// chunkSize².
func (s *ChunkedStorage[T]) SetChunk(c grid.Point, slots []Slot[T]) error {
	if len(slots) != s.chunkSize*s.chunkSize {
		return fmt.Errorf("tilemap: chunk slice length %d, want %d", len(slots), s.chunkSize*s.chunkSize)
	}
	s.chunks[c] = slots
	s.dirty[c] = struct{}{}
	return nil
}

// RemoveChunk deletes the chunk entry and returns its contents, for
// save-then-discard region unloading
func (s *ChunkedStorage[T]) RemoveChunk(c grid.Point) ([]Slot[T], bool) {
	chunk, ok := s.chunks[c]
	if !ok {
		return nil, false
	}
	delete(s.chunks, c)
	s.dirty[c] = struct{}{}
	return chunk, true
}

// Reserve declares a chunk existent without materializing slots,
// queueing it for downstream consumers
func (s *ChunkedStorage[T]) Reserve(c grid.Point) {
	s.dirty[c] = struct{}{}
}

// ReserveMany reserves a batch of chunk coordinates
func (s *ChunkedStorage[T]) ReserveMany(cs []grid.Point) {
	for _, c := range cs {
		s.dirty[c] = struct{}{}
	}
}

// ChunkIterator walks the live slots of one chunk. It is single-pass;
// request a fresh iterator for another walk.
type ChunkIterator[T any] struct {
	slots []Slot[T]
	pos   int
}

// Next returns the next live (in-chunk index, value) pair, or false
// when the chunk is exhausted
func (it *ChunkIterator[T]) Next() (int, T, bool) {
	for it.pos < len(it.slots) {
		i := it.pos
		it.pos++
		if it.slots[i].Live {
			return i, it.slots[i].Value, true
		}
	}
	var zero T
	return 0, zero, false
}

// IterChunk returns an iterator over the live slots of chunk c.
// An unmapped chunk yields an immediately-exhausted iterator.
func (s *ChunkedStorage[T]) IterChunk(c grid.Point) *ChunkIterator[T] {
	return &ChunkIterator[T]{slots: s.chunks[c]}
}

// ChunkCoords returns the coordinates of all materialized chunks
func (s *ChunkedStorage[T]) ChunkCoords() []grid.Point {
	out := make([]grid.Point, 0, len(s.chunks))
	for c := range s.chunks {
		out = append(out, c)
	}
	return out
}

// DrainDirty returns the set of chunk coordinates touched since the
// last drain and clears it. The render consumer calls this each frame
// to decide which meshes to rebuild.
func (s *ChunkedStorage[T]) DrainDirty() []grid.Point {
	out := make([]grid.Point, 0, len(s.dirty))
	for c := range s.dirty {
		out = append(out, c)
	}
	s.dirty = make(map[grid.Point]struct{})
	return out
}

// IntoMapper flattens the storage back into a coordinate map,
// dropping empty slots
func (s *ChunkedStorage[T]) IntoMapper() map[grid.Point]T {
	mapper := make(map[grid.Point]T)
	for c, chunk := range s.chunks {
		for i, slot := range chunk {
			if slot.Live {
				mapper[s.FromChunkAndLocal(c, i)] = slot.Value
			}
		}
	}
	return mapper
}
