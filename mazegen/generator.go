// Package mazegen generates stochastic mazes on odd-sized grids and
// emits them as passability tilemaps for the navigation layer.
package mazegen

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/tilemap"
)

const (
	wall    = true
	passage = false
)

// Config tunes one generation run. Width and Height round down to odd
// so the wall lattice lines up; values below 3 clamp to 3.
type Config struct {
	Width, Height int

	// Braiding adds cycles: 0 keeps a perfect maze (spanning tree),
	// 1 removes every removable dead end. Plaza and pillar
	// constraints take precedence over the requested rate.
	Braiding float64

	// RemoveBorders clears the outer ring so the maze opens into the
	// surrounding map
	RemoveBorders bool

	Start *grid.Point // nil picks a default
	End   *grid.Point
	Seed  int64 // 0 draws from the clock
}

// Maze is a generated layout. Cells hold wall flags indexed [y][x].
type Maze struct {
	Cells      [][]bool
	Width      int
	Height     int
	Start, End grid.Point
}

// Generate runs the recursive backtracker and post passes
func Generate(cfg Config) *Maze {
	rows := oddClamp(cfg.Height)
	cols := oddClamp(cfg.Width)

	cells := make([][]bool, rows)
	for y := range cells {
		cells[y] = make([]bool, cols)
		for x := range cells[y] {
			cells[y][x] = wall
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	startDef := grid.Point{X: 1, Y: 1}
	endDef := grid.Point{X: cols - 2, Y: rows - 2}
	if cfg.RemoveBorders {
		// Open-border mazes start centered and exit through the edge
		startDef = grid.Point{X: (cols / 2) | 1, Y: (rows / 2) | 1}
		endDef = grid.Point{X: cols - 1, Y: (rows / 2) | 1}
	}
	start := resolve(cfg.Start, startDef, cols, rows)
	end := resolve(cfg.End, endDef, cols, rows)

	carve(cells, start, rng)

	// Border stripping runs before braiding so edge nodes already
	// count their external exits
	if cfg.RemoveBorders {
		stripBorders(cells)
	}
	if cfg.Braiding > 0 {
		braid(cells, cfg.Braiding, rng)
	}

	if cfg.RemoveBorders {
		cells[start.Y][start.X] = passage
		cells[end.Y][end.X] = passage
	} else {
		forceOpen(cells, start)
		forceOpen(cells, end)
	}

	return &Maze{Cells: cells, Width: cols, Height: rows, Start: start, End: end}
}

// IsWall reports the cell at (x, y); out of bounds counts as wall
func (m *Maze) IsWall(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return true
	}
	return m.Cells[y][x]
}

// FillTilemap writes the maze into tm at origin: passages get
// passable tiles with cost, walls stay absent
func (m *Maze) FillTilemap(tm *tilemap.PathTilemap, origin grid.Point, cost uint32) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Cells[y][x] == passage {
				tm.Set(origin.Add(grid.Point{X: x, Y: y}), tilemap.PathTile{Cost: cost})
			}
		}
	}
}

// carve runs an iterative recursive backtracker over the odd node
// lattice, knocking out the wall between each visited pair
func carve(cells [][]bool, start grid.Point, rng *rand.Rand) {
	rows, cols := len(cells), len(cells[0])
	if start.X < 0 || start.X >= cols || start.Y < 0 || start.Y >= rows {
		start = grid.Point{X: 1, Y: 1}
	}

	jumps := []grid.Point{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}
	stack := []grid.Point{start}
	cells[start.Y][start.X] = passage

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		candidates := make([]grid.Point, 0, 4)
		for _, j := range jumps {
			n := cur.Add(j)
			if n.X > 0 && n.X < cols-1 && n.Y > 0 && n.Y < rows-1 && cells[n.Y][n.X] == wall {
				candidates = append(candidates, j)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		j := candidates[rng.Intn(len(candidates))]
		mid := grid.Point{X: cur.X + j.X/2, Y: cur.Y + j.Y/2}
		next := cur.Add(j)
		cells[mid.Y][mid.X] = passage
		cells[next.Y][next.X] = passage
		stack = append(stack, next)
	}
}

// braid opens loops at dead ends with the given probability, skipping
// removals that would create a 2x2 open plaza or an isolated wall
// pillar
func braid(cells [][]bool, probability float64, rng *rand.Rand) {
	rows, cols := len(cells), len(cells[0])
	ortho := []grid.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	jumps := []grid.Point{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if cells[y][x] == wall {
				continue
			}

			exits := 0
			for _, d := range ortho {
				if cells[y+d.Y][x+d.X] == passage {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			candidates := make([]grid.Point, 0, 4)
			for _, j := range jumps {
				nx, ny := x+j.X, y+j.Y
				wx, wy := x+j.X/2, y+j.Y/2
				if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
					continue
				}
				if cells[ny][nx] == passage && cells[wy][wx] == wall && safeToOpen(cells, wx, wy) {
					candidates = append(candidates, grid.Point{X: wx, Y: wy})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				cells[c.Y][c.X] = passage
			}
		}
	}
}

// safeToOpen checks the topology constraints for removing the wall at
// (x, y): no 2x2 plaza in any quadrant around it, and no orthogonal
// wall left without another wall connection
func safeToOpen(cells [][]bool, x, y int) bool {
	rows, cols := len(cells), len(cells[0])
	open := func(tx, ty int) bool {
		if tx < 0 || tx >= cols || ty < 0 || ty >= rows {
			return false
		}
		return cells[ty][tx] == passage
	}

	if open(x-1, y-1) && open(x, y-1) && open(x-1, y) {
		return false
	}
	if open(x, y-1) && open(x+1, y-1) && open(x+1, y) {
		return false
	}
	if open(x-1, y) && open(x-1, y+1) && open(x, y+1) {
		return false
	}
	if open(x+1, y) && open(x, y+1) && open(x+1, y+1) {
		return false
	}

	ortho := []grid.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	for _, d := range ortho {
		nx, ny := x+d.X, y+d.Y
		if nx < 0 || nx >= cols || ny < 0 || ny >= rows || cells[ny][nx] != wall {
			continue
		}
		// (x, y) is about to open, so it does not count as a
		// connection for the neighbouring wall
		connections := 0
		for _, d2 := range ortho {
			nnx, nny := nx+d2.X, ny+d2.Y
			if nnx == x && nny == y {
				continue
			}
			if nnx >= 0 && nnx < cols && nny >= 0 && nny < rows && cells[nny][nnx] == wall {
				connections++
			}
		}
		if connections == 0 {
			return false
		}
	}
	return true
}

func stripBorders(cells [][]bool) {
	rows, cols := len(cells), len(cells[0])
	for x := 0; x < cols; x++ {
		cells[0][x] = passage
		cells[rows-1][x] = passage
	}
	for y := 0; y < rows; y++ {
		cells[y][0] = passage
		cells[y][cols-1] = passage
	}
}

func oddClamp(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func resolve(p *grid.Point, def grid.Point, cols, rows int) grid.Point {
	if p == nil {
		return def
	}
	out := *p
	if out.X < 0 {
		out.X = 0
	}
	if out.X >= cols {
		out.X = cols - 1
	}
	if out.Y < 0 {
		out.Y = 0
	}
	if out.Y >= rows {
		out.Y = rows - 1
	}
	return out
}

func forceOpen(cells [][]bool, p grid.Point) {
	rows, cols := len(cells), len(cells[0])
	if p.X < 0 || p.Y < 0 || p.Y >= rows || p.X >= cols {
		return
	}
	cells[p.Y][p.X] = passage

	ortho := []grid.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	for _, d := range ortho {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx >= 0 && nx < cols && ny >= 0 && ny < rows && cells[ny][nx] == passage {
			return
		}
	}
	for _, d := range ortho {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 {
			cells[ny][nx] = passage
			return
		}
	}
}
