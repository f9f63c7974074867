package mazegen

import (
	"testing"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/navigation"
	"github.com/lixenwraith/tilegrid/tilemap"
)

func TestDimensionsRoundDownToOdd(t *testing.T) {
	m := Generate(Config{Width: 20, Height: 15, Seed: 1})
	if m.Width != 19 || m.Height != 15 {
		t.Errorf("Expected 19x15, got %dx%d", m.Width, m.Height)
	}

	tiny := Generate(Config{Width: 1, Height: 0, Seed: 1})
	if tiny.Width != 3 || tiny.Height != 3 {
		t.Errorf("Expected 3x3 minimum, got %dx%d", tiny.Width, tiny.Height)
	}
}

func TestEndpointsOpen(t *testing.T) {
	m := Generate(Config{Width: 21, Height: 21, Seed: 7})
	if m.IsWall(m.Start.X, m.Start.Y) {
		t.Error("Expected start to be a passage")
	}
	if m.IsWall(m.End.X, m.End.Y) {
		t.Error("Expected end to be a passage")
	}
}

func TestPerfectMazeIsSolvable(t *testing.T) {
	m := Generate(Config{Width: 31, Height: 31, Seed: 99})

	tm := tilemap.NewPathTilemap(16)
	m.FillTilemap(tm, grid.Point{}, 1)

	path := navigation.FindPath(navigation.Pathfinder{Origin: m.Start, Dest: m.End}, tm)
	if path == nil {
		t.Fatal("Expected the maze to have a route from start to end")
	}
	if path.Points()[path.Len()-1] != m.End {
		t.Errorf("Expected route to reach %v", m.End)
	}
}

func TestSeedDeterminism(t *testing.T) {
	a := Generate(Config{Width: 25, Height: 25, Braiding: 0.5, Seed: 1234})
	b := Generate(Config{Width: 25, Height: 25, Braiding: 0.5, Seed: 1234})
	for y := range a.Cells {
		for x := range a.Cells[y] {
			if a.Cells[y][x] != b.Cells[y][x] {
				t.Fatalf("Expected identical mazes for one seed, diverged at (%d, %d)", x, y)
			}
		}
	}
}

func TestFullBraidingRemovesDeadEnds(t *testing.T) {
	m := Generate(Config{Width: 31, Height: 31, Braiding: 1.0, Seed: 5})

	// Count remaining dead ends on the node lattice. Full braiding
	// cannot always reach zero because plaza and pillar constraints
	// veto some removals, but it should eliminate most.
	deadEnds := 0
	nodes := 0
	for y := 1; y < m.Height-1; y += 2 {
		for x := 1; x < m.Width-1; x += 2 {
			if m.Cells[y][x] == wall {
				continue
			}
			nodes++
			exits := 0
			for _, d := range []grid.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
				if m.Cells[y+d.Y][x+d.X] == passage {
					exits++
				}
			}
			if exits == 1 {
				deadEnds++
			}
		}
	}
	if deadEnds*4 > nodes {
		t.Errorf("Expected braiding to remove most dead ends, %d of %d nodes remain", deadEnds, nodes)
	}
}

func TestRemoveBorders(t *testing.T) {
	m := Generate(Config{Width: 21, Height: 21, RemoveBorders: true, Seed: 3})
	for x := 0; x < m.Width; x++ {
		if m.IsWall(x, 0) || m.IsWall(x, m.Height-1) {
			t.Fatal("Expected open top and bottom borders")
		}
	}
	for y := 0; y < m.Height; y++ {
		if m.IsWall(0, y) || m.IsWall(m.Width-1, y) {
			t.Fatal("Expected open side borders")
		}
	}
}

func TestCustomEndpointsClamped(t *testing.T) {
	start := grid.Point{X: -5, Y: 3}
	end := grid.Point{X: 100, Y: 100}
	m := Generate(Config{Width: 15, Height: 15, Start: &start, End: &end, Seed: 11})

	if m.Start.X != 0 || m.Start.Y != 3 {
		t.Errorf("Expected clamped start (0, 3), got %v", m.Start)
	}
	if m.End.X != m.Width-1 || m.End.Y != m.Height-1 {
		t.Errorf("Expected clamped end, got %v", m.End)
	}
}
