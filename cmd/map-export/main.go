// Renders saved chunk files, or a freshly generated map, to a PNG
// with nearest-neighbour upscaling so each tile stays a crisp square.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/mazegen"
	"github.com/lixenwraith/tilegrid/persist"
	"github.com/lixenwraith/tilegrid/tilemap"
)

var palette = []color.RGBA{
	{R: 0x1b, G: 0x4f, B: 0x9c, A: 0xff},
	{R: 0x3a, G: 0x8f, B: 0xb7, A: 0xff},
	{R: 0xe8, G: 0xd3, B: 0x82, A: 0xff},
	{R: 0x5c, G: 0xa8, B: 0x3c, A: 0xff},
	{R: 0x2e, G: 0x6b, B: 0x25, A: 0xff},
	{R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff},
	{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff},
}

func tileColor(texture uint32) color.RGBA {
	return palette[int(texture)%len(palette)]
}

func main() {
	dataDir := flag.String("data", "", "chunk file directory to render")
	out := flag.String("out", "map.png", "output file")
	scale := flag.Int("scale", 8, "pixels per tile")
	mazeSize := flag.Int("maze", 0, "ignore -data and render a generated maze of this size")
	seed := flag.Int64("seed", 0, "maze seed, 0 for random")
	flag.Parse()

	var tiles map[grid.Point]tilemap.Tile
	switch {
	case *mazeSize > 0:
		tiles = mazeTiles(*mazeSize, *seed)
	case *dataDir != "":
		st := tilemap.NewChunkedStorage[tilemap.Tile](tilemap.DefaultChunkSize)
		if err := persist.LoadAll(*dataDir, st); err != nil {
			fatal(err)
		}
		tiles = st.IntoMapper()
	default:
		fatal(fmt.Errorf("one of -data or -maze is required"))
	}
	if len(tiles) == 0 {
		fatal(fmt.Errorf("nothing to render"))
	}

	if err := render(tiles, *out, *scale); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s (%d tiles)\n", *out, len(tiles))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func mazeTiles(size int, seed int64) map[grid.Point]tilemap.Tile {
	m := mazegen.Generate(mazegen.Config{Width: size, Height: size, Braiding: 0.1, Seed: seed})
	out := make(map[grid.Point]tilemap.Tile)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.IsWall(x, y) {
				out[grid.Point{X: x, Y: y}] = tilemap.NewTile(5)
			} else {
				out[grid.Point{X: x, Y: y}] = tilemap.NewTile(6)
			}
		}
	}
	return out
}

func render(tiles map[grid.Point]tilemap.Tile, out string, scale int) error {
	bounds := tileBounds(tiles)

	// Paint one pixel per tile, then upscale without smoothing
	small := image.NewRGBA(image.Rect(0, 0, bounds.Width(), bounds.Height()))
	for p, tile := range tiles {
		small.SetRGBA(p.X-bounds.Min.X, p.Y-bounds.Min.Y, tileColor(tile.TextureIndex))
	}

	big := image.NewRGBA(image.Rect(0, 0, bounds.Width()*scale, bounds.Height()*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, big)
}

func tileBounds(tiles map[grid.Point]tilemap.Tile) grid.Rect {
	first := true
	var r grid.Rect
	for p := range tiles {
		if first {
			r = grid.Rect{Min: p, Max: p}
			first = false
			continue
		}
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return r
}
