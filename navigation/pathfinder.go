// Package navigation implements the grid pathfinding solver: an
// A*-style search over a PathTilemap with synchronous, per-frame
// budgeted, and background-worker execution modes.
package navigation

import (
	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/tilemap"
)

// Status is the search state machine
type Status int

const (
	Searching Status = iota // heap non-empty, budget not hit
	Found                   // destination popped
	Exhausted               // heap emptied without reaching destination
	Truncated               // MaxSteps cap hit first
)

// Pathfinder configures one search request
type Pathfinder struct {
	Origin, Dest  grid.Point
	MapType       grid.MapType
	AllowDiagonal bool

	// MaxSteps caps total expansions, 0 = unlimited
	MaxSteps uint32

	// f = g*WeightG + h*WeightH; both zero defaults to (1, 1)
	WeightG, WeightH uint32
}

// PathNode is the transient search record for one discovered cell
type PathNode struct {
	Index      grid.Point
	Parent     grid.Point
	HasParent  bool
	GCost      uint32
	HCost      uint32
	CostToPass uint32
}

// PathGrid is one in-flight search. It borrows the tilemap read-only
// for the search's lifetime and owns its node table, discarded on
// completion. Dropping a PathGrid before a terminal state cancels the
// search; nothing external is held.
type PathGrid struct {
	cfg     Pathfinder
	tilemap *tilemap.PathTilemap
	nodes   map[grid.Point]*PathNode
	heap    minHeap
	status  Status
	steps   uint32
	result  *Path
}

// NewPathGrid seeds a search with the origin node. An origin or
// destination absent from the tilemap terminates immediately as
// Exhausted: absent tiles are impassable.
func NewPathGrid(cfg Pathfinder, tm *tilemap.PathTilemap) *PathGrid {
	if cfg.WeightG == 0 && cfg.WeightH == 0 {
		cfg.WeightG, cfg.WeightH = 1, 1
	}

	pg := &PathGrid{
		cfg:     cfg,
		tilemap: tm,
		nodes:   make(map[grid.Point]*PathNode),
	}

	_, originOK := tm.Get(cfg.Origin)
	_, destOK := tm.Get(cfg.Dest)
	if !originOK || !destOK {
		pg.status = Exhausted
		return pg
	}

	root := &PathNode{
		Index: cfg.Origin,
		HCost: heuristic(cfg.Origin, cfg.Dest),
	}
	pg.nodes[cfg.Origin] = root
	pg.heap.push(heapEntry{index: root.Index, g: 0, f: pg.weight(root)})
	return pg
}

// heuristic is Manhattan distance. Admissible for 4-direction square
// movement; known to overestimate once diagonal or hexagonal movement
// is enabled, which can yield non-shortest paths in those modes. This
// mirrors the established behavior and is deliberately not "fixed".
func heuristic(from, to grid.Point) uint32 {
	return from.ManhattanDistance(to)
}

func (pg *PathGrid) weight(n *PathNode) uint32 {
	return n.GCost*pg.cfg.WeightG + n.HCost*pg.cfg.WeightH
}

// Status returns the current state machine position
func (pg *PathGrid) Status() Status {
	return pg.status
}

// Path returns the solved route, or nil unless Status is Found
func (pg *PathGrid) Path() *Path {
	return pg.result
}

// Step performs one expansion and reports whether the search reached
// a terminal state. Stale heap entries are skipped without counting
// as progress.
func (pg *PathGrid) Step() bool {
	if pg.status != Searching {
		return true
	}

	var cur *PathNode
	for {
		if len(pg.heap) == 0 {
			pg.status = Exhausted
			return true
		}
		e := pg.heap.pop()
		n := pg.nodes[e.index]
		if e.g != n.GCost {
			continue // Stale entry
		}
		cur = n
		break
	}

	pg.steps++
	if pg.cfg.MaxSteps > 0 && pg.steps > pg.cfg.MaxSteps {
		pg.status = Truncated
		return true
	}

	if cur.Index == pg.cfg.Dest {
		pg.result = pg.reconstruct(cur)
		pg.status = Found
		return true
	}

	for _, nb := range grid.Neighbours(pg.cfg.MapType, cur.Index, pg.cfg.AllowDiagonal) {
		node, seen := pg.nodes[nb]
		if !seen {
			tile, ok := pg.tilemap.Get(nb)
			if !ok {
				continue // Impassable
			}
			node = &PathNode{
				Index:      nb,
				Parent:     cur.Index,
				HasParent:  true,
				GCost:      cur.GCost + tile.Cost,
				HCost:      heuristic(nb, pg.cfg.Dest),
				CostToPass: tile.Cost,
			}
			pg.nodes[nb] = node
			pg.heap.push(heapEntry{index: nb, g: node.GCost, f: pg.weight(node)})
			continue
		}

		if g := cur.GCost + node.CostToPass; g < node.GCost {
			node.GCost = g
			node.Parent = cur.Index
			node.HasParent = true
			pg.heap.push(heapEntry{index: nb, g: g, f: pg.weight(node)})
		}
	}

	return false
}

// Run steps until a terminal state or the per-invocation budget is
// exhausted (0 = unlimited). A budget return leaves the search
// Searching with all state preserved for the next frame.
func (pg *PathGrid) Run(budget int) Status {
	for i := 0; budget == 0 || i < budget; i++ {
		if pg.Step() {
			break
		}
	}
	return pg.status
}

func (pg *PathGrid) reconstruct(dest *PathNode) *Path {
	var rev []grid.Point
	for cur := dest; cur.Index != pg.cfg.Origin; {
		rev = append(rev, cur.Index)
		if !cur.HasParent {
			break
		}
		cur = pg.nodes[cur.Parent]
	}

	points := make([]grid.Point, len(rev))
	for i, p := range rev {
		points[len(rev)-1-i] = p
	}
	return &Path{points: points}
}

// FindPath runs a full synchronous search and returns the path, or
// nil when the search exhausts or truncates
func FindPath(cfg Pathfinder, tm *tilemap.PathTilemap) *Path {
	pg := NewPathGrid(cfg, tm)
	pg.Run(0)
	return pg.Path()
}
