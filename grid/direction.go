package grid

// MapType selects the cell topology of a tilemap
type MapType int

const (
	Square MapType = iota
	Isometric
	Hexagonal
)

// Direction tables are positional: adjacency rule files list allowed
// neighbours per direction in exactly this order, and the opposite of
// direction d is total-d-1. Do not reorder.

// SquareDirs order: up, right, left, down
var SquareDirs = [4]Point{
	{0, 1}, {1, 0}, {-1, 0}, {0, -1},
}

// DiagonalDirs extends SquareDirs for 8-neighbour movement
var DiagonalDirs = [4]Point{
	{1, 1}, {-1, -1}, {1, -1}, {-1, 1},
}

// HexDirs order: up, up-right, right, left, down-left, down
// Axial coordinates where (1,1)/(-1,-1) is the third hex axis
var HexDirs = [6]Point{
	{0, 1}, {1, 1}, {1, 0}, {-1, 0}, {-1, -1}, {0, -1},
}

// DirectionCount returns the number of rule directions for a topology
func DirectionCount(ty MapType) int {
	if ty == Hexagonal {
		return 6
	}
	return 4
}

// Opposite returns the paired index of dir in a table of total
// directions. Rule symmetry checks and constraint propagation rely on
// this pairing.
func Opposite(total, dir int) int {
	return total - dir - 1
}

// Directions returns the positional direction table for a topology
func Directions(ty MapType) []Point {
	if ty == Hexagonal {
		return HexDirs[:]
	}
	return SquareDirs[:]
}

// Neighbours returns the adjacent coordinates of p in direction-table
// order. For square/isometric maps with allowDiagonal the four
// diagonal offsets follow the cardinal four; hexagonal maps always
// have six neighbours and ignore allowDiagonal.
func Neighbours(ty MapType, p Point, allowDiagonal bool) []Point {
	if ty == Hexagonal {
		out := make([]Point, 6)
		for i, d := range HexDirs {
			out[i] = p.Add(d)
		}
		return out
	}

	n := 4
	if allowDiagonal {
		n = 8
	}
	out := make([]Point, n)
	for i, d := range SquareDirs {
		out[i] = p.Add(d)
	}
	if allowDiagonal {
		for i, d := range DiagonalDirs {
			out[4+i] = p.Add(d)
		}
	}
	return out
}
