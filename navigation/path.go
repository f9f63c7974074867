package navigation

import "github.com/lixenwraith/tilegrid/grid"

// Path is a solved route: waypoints ordered from just after the
// origin to the destination, plus a cursor for a follower consuming
// it one step at a time. Immutable once built except for the cursor.
type Path struct {
	points []grid.Point
	cursor int
}

// Len returns the number of waypoints
func (p *Path) Len() int {
	return len(p.points)
}

// CurTarget returns the waypoint the follower should move toward.
// Only valid while IsArrived is false.
func (p *Path) CurTarget() grid.Point {
	return p.points[p.cursor]
}

// Step advances the follower cursor, or does nothing once arrived
func (p *Path) Step() {
	if p.cursor >= len(p.points) {
		return
	}
	p.cursor++
}

// IsArrived reports whether the follower consumed the whole path
func (p *Path) IsArrived() bool {
	return p.cursor >= len(p.points)
}

// Points returns the waypoint sequence. Callers must not mutate it.
func (p *Path) Points() []grid.Point {
	return p.points
}
