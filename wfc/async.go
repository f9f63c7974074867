package wfc

import (
	"github.com/lixenwraith/tilegrid/task"
)

var _ task.Stepper = (*Solver)(nil)

// AsyncRun is a generation run executing on a background worker
type AsyncRun struct {
	solver *Solver
	worker *task.Worker
}

// RunAsync starts the solver on a worker goroutine. The solver must
// not be touched until Poll reports completion.
func RunAsync(s *Solver) *AsyncRun {
	return &AsyncRun{solver: s, worker: task.Spawn(s)}
}

// Poll reports whether the run reached a terminal state and, once it
// has, hands back the result. Data is nil on an unrecovered failure.
func (a *AsyncRun) Poll() (*Data, bool) {
	if !a.worker.Done() {
		return nil, false
	}
	return a.solver.Data(), true
}

// Status returns the solver status. Only meaningful after Poll
// reports completion.
func (a *AsyncRun) Status() SolveStatus {
	return a.solver.Status()
}
