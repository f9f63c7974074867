// Package persist reads and writes chunked tile storage as one TOML
// file per chunk, named "{x}_{y}.toml" after the chunk coordinate.
// Only live slots are stored, so sparse chunks stay small on disk.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/tilemap"
	"github.com/lixenwraith/tilegrid/toml"
)

const fileVersion = 1

type chunkFile[T any] struct {
	Version   int            `toml:"version"`
	Index     []int          `toml:"index"`
	ChunkSize int            `toml:"chunk_size"`
	Tiles     []slotEntry[T] `toml:"tile"`
}

type slotEntry[T any] struct {
	At   int `toml:"at"`
	Data T   `toml:"data"`
}

// ChunkFileName returns the file name for a chunk coordinate
func ChunkFileName(chunkPos grid.Point) string {
	return fmt.Sprintf("%d_%d.toml", chunkPos.X, chunkPos.Y)
}

// ParseChunkFileName recovers the chunk coordinate from a file name
// produced by ChunkFileName
func ParseChunkFileName(name string) (grid.Point, bool) {
	base, ok := strings.CutSuffix(name, ".toml")
	if !ok {
		return grid.Point{}, false
	}
	// The x part may itself start with '-', so split on the last '_'
	i := strings.LastIndexByte(base, '_')
	if i <= 0 {
		return grid.Point{}, false
	}
	x, errX := strconv.Atoi(base[:i])
	y, errY := strconv.Atoi(base[i+1:])
	if errX != nil || errY != nil {
		return grid.Point{}, false
	}
	return grid.Point{X: x, Y: y}, true
}

// SaveChunk writes one chunk to dir. A chunk not present in storage
// is an error; an all-empty chunk writes a file with no tile entries.
func SaveChunk[T any](dir string, st *tilemap.ChunkedStorage[T], chunkPos grid.Point) error {
	chunk, ok := st.GetChunk(chunkPos)
	if !ok {
		return fmt.Errorf("persist: chunk (%d, %d) not in storage", chunkPos.X, chunkPos.Y)
	}

	doc := chunkFile[T]{
		Version:   fileVersion,
		Index:     []int{chunkPos.X, chunkPos.Y},
		ChunkSize: st.ChunkSize(),
	}
	for at, slot := range chunk {
		if !slot.Live {
			continue
		}
		doc.Tiles = append(doc.Tiles, slotEntry[T]{At: at, Data: slot.Value})
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("persist: encode chunk (%d, %d): %w", chunkPos.X, chunkPos.Y, err)
	}
	path := filepath.Join(dir, ChunkFileName(chunkPos))
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	return nil
}

// SaveAll writes every chunk in storage to dir, creating it if needed
func SaveAll[T any](dir string, st *tilemap.ChunkedStorage[T]) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create %s: %w", dir, err)
	}
	for _, pos := range st.ChunkCoords() {
		if err := SaveChunk(dir, st, pos); err != nil {
			return err
		}
	}
	return nil
}

// SaveDirty writes only the chunks modified since the last drain
func SaveDirty[T any](dir string, st *tilemap.ChunkedStorage[T]) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create %s: %w", dir, err)
	}
	for _, pos := range st.DrainDirty() {
		// Reserved coordinates can be dirty without holding slots yet
		if _, ok := st.GetChunk(pos); !ok {
			continue
		}
		if err := SaveChunk(dir, st, pos); err != nil {
			return err
		}
	}
	return nil
}

// LoadChunk reads one chunk file into storage, replacing any chunk
// already present at that coordinate
func LoadChunk[T any](dir string, st *tilemap.ChunkedStorage[T], chunkPos grid.Point) error {
	path := filepath.Join(dir, ChunkFileName(chunkPos))
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("persist: read %s: %w", path, err)
	}

	var doc chunkFile[T]
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("persist: parse %s: %w", path, err)
	}
	if doc.ChunkSize != st.ChunkSize() {
		return fmt.Errorf("persist: %s has chunk size %d, storage uses %d", path, doc.ChunkSize, st.ChunkSize())
	}
	if len(doc.Index) == 2 {
		got := grid.Point{X: doc.Index[0], Y: doc.Index[1]}
		if got != chunkPos {
			return fmt.Errorf("persist: %s declares chunk (%d, %d)", path, got.X, got.Y)
		}
	}

	size := st.ChunkSize()
	chunk := make([]tilemap.Slot[T], size*size)
	for _, entry := range doc.Tiles {
		if entry.At < 0 || entry.At >= len(chunk) {
			return fmt.Errorf("persist: %s has slot %d outside chunk", path, entry.At)
		}
		chunk[entry.At] = tilemap.Slot[T]{Value: entry.Data, Live: true}
	}
	return st.SetChunk(chunkPos, chunk)
}

// LoadAll reads every chunk file in dir into storage. Files that do
// not match the chunk naming scheme are skipped.
func LoadAll[T any](dir string, st *tilemap.ChunkedStorage[T]) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("persist: scan %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pos, ok := ParseChunkFileName(entry.Name())
		if !ok {
			continue
		}
		if err := LoadChunk(dir, st, pos); err != nil {
			return err
		}
	}
	return nil
}
