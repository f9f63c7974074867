// Interactive viewer for the wave function collapse solver: watch
// cells collapse step by step, retrace on contradictions, and restart
// with a new seed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/task"
	"github.com/lixenwraith/tilegrid/wfc"
)

// Patterns form a biome chain: water, shallows, sand, grass, forest,
// rock, snow
var patternStyles = []tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorBlue),
	tcell.StyleDefault.Foreground(tcell.ColorTeal),
	tcell.StyleDefault.Foreground(tcell.ColorYellow),
	tcell.StyleDefault.Foreground(tcell.ColorGreen),
	tcell.StyleDefault.Foreground(tcell.ColorDarkGreen),
	tcell.StyleDefault.Foreground(tcell.ColorGray),
	tcell.StyleDefault.Foreground(tcell.ColorWhite),
}

// terrainRules chains biomes so each pattern only borders itself and
// its immediate neighbours in the chain
func terrainRules() (*wfc.Rules, error) {
	const count = 7
	adjacency := make([][][]int, count)
	for p := 0; p < count; p++ {
		var allowed []int
		for q := p - 1; q <= p+1; q++ {
			if q >= 0 && q < count {
				allowed = append(allowed, q)
			}
		}
		adjacency[p] = [][]int{allowed, allowed, allowed, allowed}
	}
	return wfc.NewRules(grid.Square, adjacency)
}

type viewer struct {
	screen  tcell.Screen
	rules   *wfc.Rules
	weights []uint32
	area    grid.Rect
	seed    int64
	runner  *task.Cooperative
	solver  *wfc.Solver
	budget  int
}

func newViewer(w, h int, seed int64, budget int) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	rules, err := terrainRules()
	if err != nil {
		screen.Fini()
		return nil, err
	}

	v := &viewer{
		screen: screen,
		rules:  rules,
		// Middle biomes dominate so coastlines stay narrow
		weights: []uint32{2, 1, 1, 4, 3, 2, 1},
		area:    grid.NewRect(grid.Point{X: 0, Y: 0}, w, h),
		seed:    seed,
		budget:  budget,
	}
	return v, v.restart(seed)
}

func (v *viewer) restart(seed int64) error {
	solver, err := wfc.NewRunner(v.rules, v.area, seed).
		WithWeights(v.weights).
		Build()
	if err != nil {
		return err
	}
	v.seed = seed
	v.solver = solver
	v.runner = task.NewCooperative(solver)
	return nil
}

func (v *viewer) draw() {
	v.screen.Clear()

	for y := 0; y < v.area.Height(); y++ {
		for x := 0; x < v.area.Width(); x++ {
			elem := v.solver.Element(x, y)
			if elem.Collapsed {
				v.screen.SetContent(x, y+1, '█', nil, patternStyles[elem.Pattern])
				continue
			}
			// Shade uncollapsed cells by remaining entropy
			count := elem.Psbs.Count()
			ch := '.'
			if count > v.rules.PatternCount()/2 {
				ch = ' '
			} else if count > 2 {
				ch = '░'
			} else {
				ch = '▒'
			}
			v.screen.SetContent(x, y+1, ch, nil, tcell.StyleDefault.Foreground(tcell.ColorDarkGray))
		}
	}

	status := fmt.Sprintf("seed %d  remaining %d  %s  [space] step  [r] run  [n] new seed  [q] quit",
		v.seed, v.solver.Remaining(), statusLabel(v.solver.Status()))
	for i, r := range status {
		v.screen.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	v.screen.Show()
}

func statusLabel(s wfc.SolveStatus) string {
	switch s {
	case wfc.Complete:
		return "complete"
	case wfc.Failed:
		return "failed"
	}
	return "running"
}

func (v *viewer) run() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- v.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	auto := false
	v.draw()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return
				}
				if ev.Key() != tcell.KeyRune {
					continue
				}
				switch ev.Rune() {
				case 'q':
					return
				case ' ':
					v.solver.Step()
					v.draw()
				case 'r':
					auto = !auto
				case 'n':
					if err := v.restart(time.Now().UnixNano()); err != nil {
						return
					}
					auto = false
					v.draw()
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}

		case <-ticker.C:
			if auto && !v.runner.Update(v.budget) {
				v.draw()
			} else if auto {
				auto = false
				v.draw()
			}
		}
	}
}

func main() {
	width := flag.Int("width", 60, "generation area width")
	height := flag.Int("height", 24, "generation area height")
	seed := flag.Int64("seed", 0, "generation seed, 0 for random")
	budget := flag.Int("budget", 8, "collapse steps per frame in run mode")
	flag.Parse()

	v, err := newViewer(*width, *height, *seed, *budget)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer v.screen.Fini()

	v.run()
}
