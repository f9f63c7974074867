package wfc

import (
	"math/rand"
	"testing"
	"time"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/tilemap"
)

func checkerboardRules(t *testing.T) *Rules {
	t.Helper()
	r, err := NewRules(grid.Square, [][][]int{
		{{1}, {1}, {1}, {1}},
		{{0}, {0}, {0}, {0}},
	})
	if err != nil {
		t.Fatalf("Expected valid rules, got %v", err)
	}
	return r
}

func TestUniformCompletes(t *testing.T) {
	rules := allAllowed(t, grid.Square, 5)
	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 12, 9)

	solver, err := NewRunner(rules, area, 7).Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}

	if solver.Run() != Complete {
		t.Fatalf("Expected Complete, got %v", solver.Status())
	}

	data := solver.Data()
	if data == nil || data.Width != 12 || data.Height != 9 {
		t.Fatal("Expected a full-size result")
	}
	for i, p := range data.Patterns {
		if p < 0 || p >= 5 {
			t.Errorf("Expected valid pattern at cell %d, got %d", i, p)
		}
	}
}

func TestCheckerboardConstraints(t *testing.T) {
	area := grid.NewRect(grid.Point{X: -4, Y: -4}, 10, 10)
	solver, err := NewRunner(checkerboardRules(t), area, 42).Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	if solver.Run() != Complete {
		t.Fatalf("Expected Complete, got %v", solver.Status())
	}

	data := solver.Data()
	for y := 0; y < data.Height; y++ {
		for x := 1; x < data.Width; x++ {
			if data.Get(x, y) == data.Get(x-1, y) {
				t.Fatalf("Expected alternating patterns, got %d twice at (%d, %d)", data.Get(x, y), x, y)
			}
		}
	}
}

func TestSeedDeterminism(t *testing.T) {
	rules := allAllowed(t, grid.Square, 8)
	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 15, 15)

	run := func() []int {
		solver, err := NewRunner(rules, area, 1234).Build()
		if err != nil {
			t.Fatalf("Expected build to succeed, got %v", err)
		}
		if solver.Run() != Complete {
			t.Fatalf("Expected Complete, got %v", solver.Status())
		}
		return solver.Data().Patterns
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected identical output for one seed, diverged at cell %d", i)
		}
	}
}

func TestWeightedSampling(t *testing.T) {
	rules := allAllowed(t, grid.Square, 3)
	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 8, 8)

	// All weight on pattern 1
	solver, err := NewRunner(rules, area, 9).WithWeights([]uint32{0, 5, 0}).Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	if solver.Run() != Complete {
		t.Fatalf("Expected Complete, got %v", solver.Status())
	}
	for i, p := range solver.Data().Patterns {
		if p != 1 {
			t.Errorf("Expected pattern 1 at cell %d, got %d", i, p)
		}
	}
}

func TestWeightValidation(t *testing.T) {
	rules := allAllowed(t, grid.Square, 3)
	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 4, 4)

	if _, err := NewRunner(rules, area, 1).WithWeights([]uint32{1, 2}).Build(); err == nil {
		t.Error("Expected wrong weight count to be rejected")
	}
	if _, err := NewRunner(rules, area, 1).WithWeights([]uint32{0, 0, 0}).Build(); err == nil {
		t.Error("Expected all-zero weights to be rejected")
	}
}

func TestCustomSampler(t *testing.T) {
	rules := allAllowed(t, grid.Square, 4)
	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 6, 6)

	// Always pick the lowest remaining pattern
	solver, err := NewRunner(rules, area, 3).
		WithSampler(func(_ *rand.Rand, psbs Bitset128) int { return psbs.Nth(0) }).
		Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	if solver.Run() != Complete {
		t.Fatalf("Expected Complete, got %v", solver.Status())
	}
	for i, p := range solver.Data().Patterns {
		if p != 0 {
			t.Errorf("Expected pattern 0 at cell %d, got %d", i, p)
		}
	}
}

func TestBadSamplerFails(t *testing.T) {
	rules := allAllowed(t, grid.Square, 4)
	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 6, 6)

	// A sampler that never returns a member of the set burns through
	// the failure budget
	solver, err := NewRunner(rules, area, 3).
		WithSampler(func(_ *rand.Rand, _ Bitset128) int { return -1 }).
		Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	if solver.Run() != Failed {
		t.Errorf("Expected Failed, got %v", solver.Status())
	}
	if solver.Data() != nil {
		t.Error("Expected no data without a fallback")
	}
}

func TestUnsatisfiableFallsBack(t *testing.T) {
	// No pattern permits any neighbour, so the second collapse always
	// contradicts on any area wider than one cell
	rules, err := NewRules(grid.Square, [][][]int{{{}, {}, {}, {}}})
	if err != nil {
		t.Fatalf("Expected valid rules, got %v", err)
	}

	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 4, 4)
	solver, err := NewRunner(rules, area, 11).
		WithFallback(func(a grid.Rect) *Data { return NewData(a) }).
		Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}

	if solver.Run() != Failed {
		t.Fatalf("Expected Failed, got %v", solver.Status())
	}
	data := solver.Data()
	if data == nil {
		t.Fatal("Expected fallback data")
	}
	for i, p := range data.Patterns {
		if p != 0 {
			t.Errorf("Expected fallback fill at cell %d, got %d", i, p)
		}
	}
}

func TestEmptyAreaRejected(t *testing.T) {
	rules := allAllowed(t, grid.Square, 2)
	bad := grid.Rect{Min: grid.Point{X: 5, Y: 5}, Max: grid.Point{X: 4, Y: 4}}
	if _, err := NewRunner(rules, bad, 1).Build(); err == nil {
		t.Error("Expected empty area to be rejected")
	}
}

func TestFillStorage(t *testing.T) {
	area := grid.NewRect(grid.Point{X: 10, Y: -3}, 6, 4)
	solver, err := NewRunner(checkerboardRules(t), area, 5).Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	if solver.Run() != Complete {
		t.Fatalf("Expected Complete, got %v", solver.Status())
	}

	st := tilemap.NewChunkedStorage[tilemap.Tile](16)
	if err := solver.Data().FillStorage(st, nil); err != nil {
		t.Fatalf("Expected fill to succeed, got %v", err)
	}

	tile, ok := st.Get(grid.Point{X: 10, Y: -3})
	if !ok {
		t.Fatal("Expected a tile at the area origin")
	}
	if tile.TextureIndex != uint32(solver.Data().Get(0, 0)) {
		t.Errorf("Expected texture %d, got %d", solver.Data().Get(0, 0), tile.TextureIndex)
	}
}

func TestAsyncRun(t *testing.T) {
	rules := allAllowed(t, grid.Square, 6)
	area := grid.NewRect(grid.Point{X: 0, Y: 0}, 20, 20)

	solver, err := NewRunner(rules, area, 77).Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}

	run := RunAsync(solver)
	deadline := time.Now().Add(5 * time.Second)
	for {
		if data, done := run.Poll(); done {
			if data == nil {
				t.Fatal("Expected async run to produce data")
			}
			if run.Status() != Complete {
				t.Errorf("Expected Complete, got %v", run.Status())
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Expected async run to finish within deadline")
		}
		time.Sleep(time.Millisecond)
	}
}
