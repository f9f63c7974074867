package navigation

import (
	"github.com/lixenwraith/tilegrid/task"
	"github.com/lixenwraith/tilegrid/tilemap"
)

// AsyncSearch is a search running to completion on a worker
// goroutine. The tilemap's own lock serializes worker reads against
// authoring writes; the search state must not be inspected until Poll
// reports completion.
type AsyncSearch struct {
	grid   *PathGrid
	worker *task.Worker
}

// FindPathAsync spawns a background search with no per-frame budget
func FindPathAsync(cfg Pathfinder, tm *tilemap.PathTilemap) *AsyncSearch {
	pg := NewPathGrid(cfg, tm)
	return &AsyncSearch{
		grid:   pg,
		worker: task.Spawn(pg),
	}
}

// Poll returns (path, true) once the search finished; path is nil
// for Exhausted/Truncated outcomes. Before completion it returns
// (nil, false) without blocking.
func (a *AsyncSearch) Poll() (*Path, bool) {
	if !a.worker.Done() {
		return nil, false
	}
	return a.grid.Path(), true
}

// Status is only meaningful after Poll reports completion
func (a *AsyncSearch) Status() Status {
	return a.grid.status
}

var _ task.Stepper = (*PathGrid)(nil)
