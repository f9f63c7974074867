// Package task provides the two scheduling strategies shared by the
// pathfinding and WFC solvers: cooperative per-frame stepping on the
// caller's thread, and whole-run offload to a worker goroutine polled
// without blocking.
package task

import "sync/atomic"

// Stepper is one in-flight solver run. Step performs one bounded unit
// of work and reports whether the run reached a terminal state.
type Stepper interface {
	Step() bool
}

// Cooperative drives a Stepper from an external per-frame scheduler.
// All mutation happens on the calling thread; no locking is involved.
type Cooperative struct {
	stepper Stepper
	done    bool
}

// NewCooperative wraps a stepper for budgeted stepping
func NewCooperative(s Stepper) *Cooperative {
	return &Cooperative{stepper: s}
}

// Update performs at most budget steps (0 = unlimited) and reports
// whether the run is finished. Call once per frame until true.
func (c *Cooperative) Update(budget int) bool {
	if c.done {
		return true
	}
	for i := 0; budget == 0 || i < budget; i++ {
		if c.stepper.Step() {
			c.done = true
			return true
		}
	}
	return false
}

// Worker runs a Stepper to completion on its own goroutine. The
// caller polls Done; cancellation is best-effort by discarding the
// Worker and ignoring the eventual result.
type Worker struct {
	done atomic.Bool
}

// Spawn starts the run. The stepper must not be touched by the caller
// until Done reports true; shared inputs (the path tilemap) guard
// themselves with their own lock.
func Spawn(s Stepper) *Worker {
	w := &Worker{}
	go func() {
		for !s.Step() {
		}
		w.done.Store(true)
	}()
	return w
}

// Done is a non-blocking completion poll
func (w *Worker) Done() bool {
	return w.done.Load()
}
