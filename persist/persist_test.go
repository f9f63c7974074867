package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/tilemap"
)

func TestChunkFileNames(t *testing.T) {
	cases := []struct {
		pos  grid.Point
		name string
	}{
		{grid.Point{X: 0, Y: 0}, "0_0.toml"},
		{grid.Point{X: 3, Y: -4}, "3_-4.toml"},
		{grid.Point{X: -12, Y: -1}, "-12_-1.toml"},
	}
	for _, c := range cases {
		if got := ChunkFileName(c.pos); got != c.name {
			t.Errorf("Expected %s, got %s", c.name, got)
		}
		back, ok := ParseChunkFileName(c.name)
		if !ok || back != c.pos {
			t.Errorf("Expected %s to parse back to %v, got %v %v", c.name, c.pos, back, ok)
		}
	}

	for _, bad := range []string{"readme.md", "x_y.toml", "5.toml", "_3.toml"} {
		if _, ok := ParseChunkFileName(bad); ok {
			t.Errorf("Expected %s to be rejected", bad)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	src := tilemap.NewChunkedStorage[tilemap.Tile](8)
	src.Set(grid.Point{X: 0, Y: 0}, tilemap.NewTile(1))
	src.Set(grid.Point{X: 7, Y: 7}, tilemap.NewTile(2))
	src.Set(grid.Point{X: -1, Y: -1}, tilemap.NewTile(3)) // chunk (-1, -1)
	src.Set(grid.Point{X: 20, Y: 3}, tilemap.NewTile(4))  // chunk (2, 0)

	if err := SaveAll(dir, src); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}

	dst := tilemap.NewChunkedStorage[tilemap.Tile](8)
	if err := LoadAll(dir, dst); err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}

	for p, want := range src.IntoMapper() {
		got, ok := dst.Get(p)
		if !ok {
			t.Fatalf("Expected tile at %v after reload", p)
		}
		if got != want {
			t.Errorf("Expected %+v at %v, got %+v", want, p, got)
		}
	}
	if len(dst.IntoMapper()) != 4 {
		t.Errorf("Expected 4 tiles, got %d", len(dst.IntoMapper()))
	}
}

func TestSaveDirtyWritesOnlyTouchedChunks(t *testing.T) {
	dir := t.TempDir()

	st := tilemap.NewChunkedStorage[tilemap.PathTile](4)
	st.Set(grid.Point{X: 0, Y: 0}, tilemap.PathTile{Cost: 1})
	st.Set(grid.Point{X: 10, Y: 10}, tilemap.PathTile{Cost: 2})
	st.DrainDirty()

	st.Set(grid.Point{X: 1, Y: 1}, tilemap.PathTile{Cost: 3})
	if err := SaveDirty(dir, st); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "0_0.toml" {
		t.Errorf("Expected only chunk 0_0 on disk, got %v", entries)
	}
}

func TestLoadRejectsMismatchedChunkSize(t *testing.T) {
	dir := t.TempDir()

	src := tilemap.NewChunkedStorage[tilemap.Tile](8)
	src.Set(grid.Point{X: 0, Y: 0}, tilemap.NewTile(1))
	if err := SaveAll(dir, src); err != nil {
		t.Fatal(err)
	}

	dst := tilemap.NewChunkedStorage[tilemap.Tile](16)
	if err := LoadChunk(dir, dst, grid.Point{X: 0, Y: 0}); err == nil {
		t.Error("Expected chunk size mismatch to be rejected")
	}
}

func TestLoadRejectsBadSlotIndex(t *testing.T) {
	dir := t.TempDir()
	body := "version = 1\nchunk_size = 4\nindex = [0, 0]\n\n[[tile]]\nat = 99\n\n[tile.data]\ncost = 1\n"
	if err := os.WriteFile(filepath.Join(dir, "0_0.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	st := tilemap.NewChunkedStorage[tilemap.PathTile](4)
	if err := LoadChunk(dir, st, grid.Point{X: 0, Y: 0}); err == nil {
		t.Error("Expected out-of-range slot to be rejected")
	}
}

func TestLoadAllSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := tilemap.NewChunkedStorage[tilemap.Tile](8)
	src.Set(grid.Point{X: 0, Y: 0}, tilemap.NewTile(5))
	if err := SaveAll(dir, src); err != nil {
		t.Fatal(err)
	}

	dst := tilemap.NewChunkedStorage[tilemap.Tile](8)
	if err := LoadAll(dir, dst); err != nil {
		t.Fatalf("Expected load to skip foreign files, got %v", err)
	}
	if _, ok := dst.Get(grid.Point{X: 0, Y: 0}); !ok {
		t.Error("Expected tile to load")
	}
}
