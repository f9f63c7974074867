package wfc

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/lixenwraith/tilegrid/grid"
)

// SampleMode selects how a collapsing cell picks among its remaining
// possibilities
type SampleMode int

const (
	Uniform  SampleMode = iota // uniform random over the set
	Weighted                   // per-pattern weight table
	Custom                     // caller-supplied sampler
)

// Sampler picks one pattern from a possibility set. The RNG handle is
// passed explicitly so a fixed seed reproduces generation exactly.
type Sampler func(rng *rand.Rand, psbs Bitset128) int

// Fallback produces substitute output when generation fails, e.g. a
// fill with a default pattern. Returning nil drops the request.
type Fallback func(area grid.Rect) *Data

// Runner configures one generation run. Retrace tuning defaults
// derive from log10 of the area size and can be overridden.
type Runner struct {
	rules    *Rules
	area     grid.Rect
	seed     int64
	mode     SampleMode
	weights  []uint32
	sampler  Sampler
	fallback Fallback

	retraceFactor  int // bound on one randomized retrace depth unit
	maxRetraceTime int // failure counter ceiling
	historyCap     int // snapshot ring buffer capacity
}

// NewRunner creates a runner with default tuning. Seed 0 draws a seed
// from the clock; any other value makes the run reproducible.
func NewRunner(rules *Rules, area grid.Rect, seed int64) *Runner {
	l := math.Log10(float64(area.Size()))
	factor := clamp(int(l), 2, 16)
	return &Runner{
		rules:          rules,
		area:           area,
		seed:           seed,
		retraceFactor:  factor,
		maxRetraceTime: factor * 100,
		historyCap:     clamp(int(l), 1, 8) * 20,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WithWeights switches to weighted sampling. The table must hold one
// weight per pattern; validated when the solver is built.
func (r *Runner) WithWeights(weights []uint32) *Runner {
	r.mode = Weighted
	r.weights = weights
	return r
}

// WithSampler switches to custom sampling
func (r *Runner) WithSampler(fn Sampler) *Runner {
	r.mode = Custom
	r.sampler = fn
	return r
}

// WithFallback installs the failure hook
func (r *Runner) WithFallback(fn Fallback) *Runner {
	r.fallback = fn
	return r
}

// WithRetraceSettings overrides the retrace depth bound and the
// failure counter ceiling; zero keeps the current value
func (r *Runner) WithRetraceSettings(factor, maxTime int) *Runner {
	if factor > 0 {
		r.retraceFactor = factor
	}
	if maxTime > 0 {
		r.maxRetraceTime = maxTime
	}
	return r
}

// WithHistoryCapacity overrides the snapshot ring size
func (r *Runner) WithHistoryCapacity(n int) *Runner {
	if n > 0 {
		r.historyCap = n
	}
	return r
}

// Build validates the configuration and creates the solver for one
// generation run
func (r *Runner) Build() (*Solver, error) {
	if r.area.Width() <= 0 || r.area.Height() <= 0 {
		return nil, fmt.Errorf("wfc: empty generation area")
	}
	switch r.mode {
	case Weighted:
		if len(r.weights) != r.rules.PatternCount() {
			return nil, fmt.Errorf("wfc: %d weights for %d patterns", len(r.weights), r.rules.PatternCount())
		}
		total := uint64(0)
		for _, w := range r.weights {
			total += uint64(w)
		}
		if total == 0 {
			return nil, fmt.Errorf("wfc: weight table sums to zero")
		}
	case Custom:
		if r.sampler == nil {
			return nil, fmt.Errorf("wfc: custom sampling without a sampler")
		}
	}

	seed := r.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return newSolver(r, rand.New(rand.NewSource(seed))), nil
}
