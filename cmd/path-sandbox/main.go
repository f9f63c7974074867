// Maze pathfinding viewer: generates a braided maze, runs the A*
// search a few steps per frame, then walks a follower along the
// resulting route.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/mazegen"
	"github.com/lixenwraith/tilegrid/navigation"
	"github.com/lixenwraith/tilegrid/tilemap"
)

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	routeStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	markerStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	walkStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

type sandbox struct {
	screen  tcell.Screen
	maze    *mazegen.Maze
	tiles   *tilemap.PathTilemap
	search  *navigation.PathGrid
	route   *navigation.Path
	braid   float64
	budget  int
	walker  grid.Point
	walking bool
}

func newSandbox(w, h int, braid float64, seed int64, budget int) (*sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	s := &sandbox{screen: screen, braid: braid, budget: budget}
	s.regenerate(w, h, seed)
	return s, nil
}

func (s *sandbox) regenerate(w, h int, seed int64) {
	s.maze = mazegen.Generate(mazegen.Config{
		Width:    w,
		Height:   h,
		Braiding: s.braid,
		Seed:     seed,
	})
	s.tiles = tilemap.NewPathTilemap(16)
	s.maze.FillTilemap(s.tiles, grid.Point{}, 1)

	s.search = navigation.NewPathGrid(navigation.Pathfinder{
		Origin: s.maze.Start,
		Dest:   s.maze.End,
	}, s.tiles)
	s.route = nil
	s.walker = s.maze.Start
	s.walking = false
}

func (s *sandbox) tick() {
	if s.route == nil {
		if s.search.Run(s.budget) != navigation.Searching {
			s.route = s.search.Path()
			s.walking = s.route != nil
		}
		return
	}
	if s.walking && !s.route.IsArrived() {
		s.walker = s.route.CurTarget()
		s.route.Step()
	}
}

func (s *sandbox) draw() {
	s.screen.Clear()

	for y := 0; y < s.maze.Height; y++ {
		for x := 0; x < s.maze.Width; x++ {
			if s.maze.IsWall(x, y) {
				s.screen.SetContent(x, y+1, '█', nil, wallStyle)
			}
		}
	}

	if s.route != nil {
		for _, p := range s.route.Points() {
			s.screen.SetContent(p.X, p.Y+1, '·', nil, routeStyle)
		}
	}

	s.screen.SetContent(s.maze.Start.X, s.maze.Start.Y+1, 'S', nil, markerStyle)
	s.screen.SetContent(s.maze.End.X, s.maze.End.Y+1, 'E', nil, markerStyle)
	if s.walking {
		s.screen.SetContent(s.walker.X, s.walker.Y+1, '@', nil, walkStyle)
	}

	var state string
	switch s.search.Status() {
	case navigation.Searching:
		state = "searching"
	case navigation.Found:
		state = fmt.Sprintf("route length %d", s.route.Len())
	default:
		state = "no route"
	}
	header := fmt.Sprintf("%s  [n] new maze  [q] quit", state)
	for i, r := range header {
		s.screen.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	s.screen.Show()
}

func (s *sandbox) run(w, h int) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- s.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	s.draw()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return
				}
				if ev.Key() == tcell.KeyRune {
					switch ev.Rune() {
					case 'q':
						return
					case 'n':
						s.regenerate(w, h, time.Now().UnixNano())
					}
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}

		case <-ticker.C:
			s.tick()
			s.draw()
		}
	}
}

func main() {
	width := flag.Int("width", 61, "maze width, rounds down to odd")
	height := flag.Int("height", 23, "maze height, rounds down to odd")
	braid := flag.Float64("braid", 0.15, "braiding rate 0..1")
	seed := flag.Int64("seed", 0, "maze seed, 0 for random")
	budget := flag.Int("budget", 20, "search steps per frame")
	flag.Parse()

	s, err := newSandbox(*width, *height, *braid, *seed, *budget)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer s.screen.Fini()

	s.run(*width, *height)
}
