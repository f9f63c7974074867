package wfc

import (
	"math/rand"

	"github.com/lixenwraith/tilegrid/grid"
)

// SolveStatus is the generation state machine
type SolveStatus int

const (
	Running  SolveStatus = iota
	Complete             // every cell collapsed, no pending contradiction
	Failed               // failure counter reached the ceiling
)

// Element is one cell's solver state. Index is relative to the
// generation area; Pattern is -1 until the cell collapses.
type Element struct {
	Index     grid.Point
	Collapsed bool
	Pattern   int
	Psbs      Bitset128

	heapIndex int // -1 once collapsed and removed from the entropy heap
}

// snapshot captures the whole solver state before one collapse step
type snapshot struct {
	elems     []Element
	remaining int
}

// Solver executes one generation run: collapse, propagate, retrace.
// It owns its element table for the run and borrows the rule set
// read-only. Dropping it before a terminal state cancels the run.
type Solver struct {
	rules    *Rules
	area     grid.Rect
	w, h     int
	mode     SampleMode
	weights  []uint32
	sampler  Sampler
	fallback Fallback
	rng      *rand.Rand

	elems     []Element // dense, row-major over the area
	heap      []int     // element indices, min by (entropy, y, x)
	remaining int

	history []snapshot
	cursor  int
	histLen int

	retraceFactor  int
	maxRetraceTime int
	escalation     int
	failures       int

	queue  []int // propagation scratch
	status SolveStatus
	data   *Data
}

func newSolver(r *Runner, rng *rand.Rand) *Solver {
	w, h := r.area.Width(), r.area.Height()
	all := AllPatterns(r.rules.PatternCount())

	s := &Solver{
		rules:          r.rules,
		area:           r.area,
		w:              w,
		h:              h,
		mode:           r.mode,
		weights:        r.weights,
		sampler:        r.sampler,
		fallback:       r.fallback,
		rng:            rng,
		elems:          make([]Element, w*h),
		heap:           make([]int, 0, w*h),
		remaining:      w * h,
		history:        make([]snapshot, r.historyCap),
		retraceFactor:  r.retraceFactor,
		maxRetraceTime: r.maxRetraceTime,
		escalation:     1,
	}

	for i := range s.elems {
		s.elems[i] = Element{
			Index:     grid.Point{X: i % w, Y: i / w},
			Pattern:   -1,
			Psbs:      all,
			heapIndex: -1,
		}
		s.heapPush(i)
	}
	return s
}

// Status returns the current state machine position
func (s *Solver) Status() SolveStatus {
	return s.status
}

// Data returns the packed result: non-nil after Complete, or after
// Failed when a fallback produced substitute output
func (s *Solver) Data() *Data {
	return s.data
}

// Remaining returns the count of uncollapsed cells
func (s *Solver) Remaining() int {
	return s.remaining
}

// Element returns the solver state of the cell at area-relative
// (x, y), for observers such as the sandbox renderer
func (s *Solver) Element(x, y int) *Element {
	return &s.elems[y*s.w+x]
}

// Step performs one collapse step (snapshot, collapse, propagate,
// retrace on contradiction) and reports whether the run reached a
// terminal state.
func (s *Solver) Step() bool {
	if s.status != Running {
		return true
	}
	if s.remaining == 0 {
		s.complete()
		return true
	}

	s.snapshot()

	ei := s.heapPopMin()
	elem := &s.elems[ei]

	pattern := s.sample(elem.Psbs)
	if pattern < 0 || !elem.Psbs.Has(pattern) {
		// A custom sampler picked outside the possibility set
		return s.retrace()
	}

	elem.Collapsed = true
	elem.Pattern = pattern
	elem.Psbs = Single(pattern)
	s.remaining--

	if !s.propagate(ei) {
		return s.retrace()
	}

	s.escalation = 1
	if s.remaining == 0 {
		s.complete()
		return true
	}
	return false
}

// Run steps to a terminal state
func (s *Solver) Run() SolveStatus {
	for !s.Step() {
	}
	return s.status
}

func (s *Solver) complete() {
	s.status = Complete
	s.data = packData(s)
}

func (s *Solver) sample(psbs Bitset128) int {
	switch s.mode {
	case Weighted:
		total := uint64(0)
		for _, p := range psbs.Patterns() {
			total += uint64(s.weights[p])
		}
		if total == 0 {
			return -1
		}
		pick := s.rng.Int63n(int64(total))
		for _, p := range psbs.Patterns() {
			pick -= int64(s.weights[p])
			if pick < 0 {
				return p
			}
		}
		return -1
	case Custom:
		return s.sampler(s.rng, psbs)
	default:
		return psbs.Nth(s.rng.Intn(psbs.Count()))
	}
}

// propagate floods constraints outward from the just-collapsed cell.
// Possibility sets only shrink, so re-enqueueing changed cells
// terminates. Returns false on contradiction.
func (s *Solver) propagate(from int) bool {
	dirs := grid.Directions(s.rules.MapType())
	s.queue = append(s.queue[:0], from)

	for len(s.queue) > 0 {
		si := s.queue[len(s.queue)-1]
		s.queue = s.queue[:len(s.queue)-1]
		src := &s.elems[si]

		for d, off := range dirs {
			np := src.Index.Add(off)
			if np.X < 0 || np.X >= s.w || np.Y < 0 || np.Y >= s.h {
				continue
			}
			ni := np.Y*s.w + np.X
			nb := &s.elems[ni]
			if nb.Collapsed {
				continue
			}

			var union Bitset128
			for _, p := range src.Psbs.Patterns() {
				union = union.Or(s.rules.Allowed(p, d))
			}

			narrowed := nb.Psbs.And(union)
			if narrowed == nb.Psbs {
				continue
			}
			if narrowed.IsZero() {
				return false
			}
			nb.Psbs = narrowed
			s.heapFix(nb.heapIndex)
			s.queue = append(s.queue, ni)
		}
	}
	return true
}

// snapshot stores the full solver state into the ring buffer at the
// cursor and advances it
func (s *Solver) snapshot() {
	slot := &s.history[s.cursor]
	if cap(slot.elems) < len(s.elems) {
		slot.elems = make([]Element, len(s.elems))
	}
	slot.elems = slot.elems[:len(s.elems)]
	copy(slot.elems, s.elems)
	slot.remaining = s.remaining

	s.cursor = (s.cursor + 1) % len(s.history)
	if s.histLen < len(s.history) {
		s.histLen++
	}
}

// retrace rolls the solver back after a contradiction. The depth is
// randomized within the retrace factor and escalates multiplicatively
// across consecutive contradictions; a depth the ring buffer cannot
// serve fails the run outright.
func (s *Solver) retrace() bool {
	depth := s.escalation * (1 + s.rng.Intn(s.retraceFactor))
	s.escalation *= 2
	s.failures += depth

	if depth > s.histLen {
		s.failures = s.maxRetraceTime
	}
	if s.failures >= s.maxRetraceTime {
		s.status = Failed
		if s.fallback != nil {
			s.data = s.fallback(s.area)
		}
		return true
	}

	n := len(s.history)
	back := ((s.cursor-depth)%n + n) % n
	slot := &s.history[back]
	copy(s.elems, slot.elems)
	s.remaining = slot.remaining
	s.cursor = back
	s.histLen -= depth

	s.rebuildHeap()
	return false
}

// --- Entropy lookup heap ---
// Min-heap over uncollapsed element indices keyed by (entropy, y, x).
// The lexicographic coordinate tie-break makes the minimum-entropy
// pick deterministic under a fixed seed.

func (s *Solver) heapLess(a, b int) bool {
	ea, eb := &s.elems[a], &s.elems[b]
	ca, cb := ea.Psbs.Count(), eb.Psbs.Count()
	if ca != cb {
		return ca < cb
	}
	if ea.Index.Y != eb.Index.Y {
		return ea.Index.Y < eb.Index.Y
	}
	return ea.Index.X < eb.Index.X
}

func (s *Solver) heapSwap(i, j int) {
	s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
	s.elems[s.heap[i]].heapIndex = i
	s.elems[s.heap[j]].heapIndex = j
}

func (s *Solver) heapPush(ei int) {
	s.heap = append(s.heap, ei)
	i := len(s.heap) - 1
	s.elems[ei].heapIndex = i
	s.heapUp(i)
}

func (s *Solver) heapUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !s.heapLess(s.heap[i], s.heap[parent]) {
			break
		}
		s.heapSwap(i, parent)
		i = parent
	}
}

func (s *Solver) heapDown(i int) {
	for {
		left := 2*i + 1
		if left >= len(s.heap) {
			break
		}
		smallest := left
		if right := left + 1; right < len(s.heap) && s.heapLess(s.heap[right], s.heap[left]) {
			smallest = right
		}
		if !s.heapLess(s.heap[smallest], s.heap[i]) {
			break
		}
		s.heapSwap(i, smallest)
		i = smallest
	}
}

// heapFix restores heap order after an element's entropy shrank
func (s *Solver) heapFix(i int) {
	if i < 0 {
		return
	}
	s.heapUp(i)
	s.heapDown(i)
}

// heapPopMin removes and returns the minimum-entropy element index
func (s *Solver) heapPopMin() int {
	min := s.heap[0]
	last := len(s.heap) - 1
	s.heapSwap(0, last)
	s.heap = s.heap[:last]
	s.elems[min].heapIndex = -1
	if last > 0 {
		s.heapDown(0)
	}
	return min
}

// rebuildHeap reconstructs the uncollapsed index after a retrace
// restored the element table
func (s *Solver) rebuildHeap() {
	s.heap = s.heap[:0]
	for i := range s.elems {
		if s.elems[i].Collapsed {
			s.elems[i].heapIndex = -1
			continue
		}
		s.heap = append(s.heap, i)
		s.elems[i].heapIndex = len(s.heap) - 1
	}
	for i := len(s.heap)/2 - 1; i >= 0; i-- {
		s.heapDown(i)
	}
}
