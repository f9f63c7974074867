package grid

import "testing"

func TestDivToFloor(t *testing.T) {
	// Floor division, not truncation: -1/16 belongs to chunk -1
	cases := []struct {
		x    int
		want int
	}{
		{-16, -1},
		{-1, -1},
		{0, 0},
		{15, 0},
		{16, 1},
		{-17, -2},
		{31, 1},
	}
	for _, c := range cases {
		got := Point{c.x, c.x}.DivToFloor(16)
		if got.X != c.want || got.Y != c.want {
			t.Errorf("Expected DivToFloor(%d, 16) = %d, got %v", c.x, c.want, got)
		}
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := (Point{0, 0}).ManhattanDistance(Point{3, 4}); d != 7 {
		t.Errorf("Expected distance 7, got %d", d)
	}
	if d := (Point{-2, -3}).ManhattanDistance(Point{2, 3}); d != 10 {
		t.Errorf("Expected distance 10, got %d", d)
	}
	if d := (Point{5, 5}).ManhattanDistance(Point{5, 5}); d != 0 {
		t.Errorf("Expected distance 0, got %d", d)
	}
}

func TestOppositePairing(t *testing.T) {
	// Square: up/right/left/down
	for i, d := range SquareDirs {
		o := SquareDirs[Opposite(4, i)]
		if d.X != -o.X || d.Y != -o.Y {
			t.Errorf("Expected square dir %d and %d to be opposites, got %v and %v", i, Opposite(4, i), d, o)
		}
	}
	// Hexagonal: six directions
	for i, d := range HexDirs {
		o := HexDirs[Opposite(6, i)]
		if d.X != -o.X || d.Y != -o.Y {
			t.Errorf("Expected hex dir %d and %d to be opposites, got %v and %v", i, Opposite(6, i), d, o)
		}
	}
}

func TestNeighbours(t *testing.T) {
	p := Point{2, 2}

	n := Neighbours(Square, p, false)
	if len(n) != 4 {
		t.Errorf("Expected 4 neighbours, got %d", len(n))
	}
	if n[0] != (Point{2, 3}) || n[3] != (Point{2, 1}) {
		t.Errorf("Expected up/down at positions 0 and 3, got %v and %v", n[0], n[3])
	}

	n = Neighbours(Square, p, true)
	if len(n) != 8 {
		t.Errorf("Expected 8 neighbours, got %d", len(n))
	}

	n = Neighbours(Hexagonal, p, false)
	if len(n) != 6 {
		t.Errorf("Expected 6 neighbours, got %d", len(n))
	}
}

func TestRect(t *testing.T) {
	r := NewRect(Point{-2, -2}, 5, 4)
	if r.Width() != 5 || r.Height() != 4 || r.Size() != 20 {
		t.Errorf("Expected 5x4 rect of size 20, got %dx%d size %d", r.Width(), r.Height(), r.Size())
	}
	if !r.Contains(Point{-2, -2}) || !r.Contains(Point{2, 1}) {
		t.Error("Expected corners to be contained")
	}
	if r.Contains(Point{3, 0}) || r.Contains(Point{0, 2}) {
		t.Error("Expected out-of-range points to be excluded")
	}
}
