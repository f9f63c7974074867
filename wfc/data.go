package wfc

import (
	"fmt"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/tilemap"
)

// Data is a completed generation result: one pattern index per cell,
// row-major over the area
type Data struct {
	Area     grid.Rect
	Width    int
	Height   int
	Patterns []int
}

// NewData creates an all-zero result over area, for fallbacks that
// fill with a default pattern
func NewData(area grid.Rect) *Data {
	w, h := area.Width(), area.Height()
	return &Data{
		Area:     area,
		Width:    w,
		Height:   h,
		Patterns: make([]int, w*h),
	}
}

func packData(s *Solver) *Data {
	d := NewData(s.area)
	for i := range s.elems {
		d.Patterns[i] = s.elems[i].Pattern
	}
	return d
}

// Get returns the pattern at area-relative (x, y)
func (d *Data) Get(x, y int) int {
	return d.Patterns[y*d.Width+x]
}

// Set overwrites the pattern at area-relative (x, y)
func (d *Data) Set(x, y, pattern int) {
	d.Patterns[y*d.Width+x] = pattern
}

// FillStorage writes the result into tile storage at the area's world
// position, mapping each pattern index to a texture index via lookup.
// A nil lookup uses the pattern index directly.
func (d *Data) FillStorage(st *tilemap.ChunkedStorage[tilemap.Tile], lookup func(pattern int) tilemap.Tile) error {
	if lookup == nil {
		lookup = func(pattern int) tilemap.Tile {
			return tilemap.NewTile(uint32(pattern))
		}
	}
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			p := d.Get(x, y)
			if p < 0 {
				return fmt.Errorf("wfc: uncollapsed cell at (%d, %d)", x, y)
			}
			st.Set(d.Area.Min.Add(grid.Point{X: x, Y: y}), lookup(p))
		}
	}
	return nil
}
