package grid

// Point is a signed 2D grid coordinate. The grid is unbounded in all
// four directions; chunking maps points onto fixed-size blocks.
type Point struct {
	X, Y int
}

// Add returns p + o component-wise
func (p Point) Add(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y}
}

// Sub returns p - o component-wise
func (p Point) Sub(o Point) Point {
	return Point{p.X - o.X, p.Y - o.Y}
}

// Scale returns p * s component-wise
func (p Point) Scale(s int) Point {
	return Point{p.X * s, p.Y * s}
}

// ManhattanDistance returns |dx| + |dy|
func (p Point) ManhattanDistance(o Point) uint32 {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return uint32(dx + dy)
}

// DivToFloor divides both components by s rounding toward negative
// infinity, so -1/16 maps to -1 rather than 0. Required for chunk
// addressing of negative coordinates.
func (p Point) DivToFloor(s int) Point {
	return Point{floorDiv(p.X, s), floorDiv(p.Y, s)}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Rect is an inclusive axis-aligned cell range
type Rect struct {
	Min, Max Point
}

// NewRect builds a rect from an origin and a width/height extent
func NewRect(origin Point, width, height int) Rect {
	return Rect{
		Min: origin,
		Max: Point{origin.X + width - 1, origin.Y + height - 1},
	}
}

// Width returns the number of columns covered
func (r Rect) Width() int {
	return r.Max.X - r.Min.X + 1
}

// Height returns the number of rows covered
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y + 1
}

// Size returns the cell count
func (r Rect) Size() int {
	return r.Width() * r.Height()
}

// Contains reports whether p lies inside the rect
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
