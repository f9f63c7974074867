// HTTP front end for a chunked tile map: serve and edit tiles, run
// generation and pathfinding, and persist chunks to disk.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/navigation"
	"github.com/lixenwraith/tilegrid/persist"
	"github.com/lixenwraith/tilegrid/tilemap"
	"github.com/lixenwraith/tilegrid/wfc"
)

type server struct {
	mu      sync.RWMutex
	tiles   *tilemap.ChunkedStorage[tilemap.Tile]
	costs   *tilemap.PathTilemap
	rules   *wfc.Rules
	dataDir string
}

type tileJSON struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Texture uint32 `json:"texture_index"`
	Cost    uint32 `json:"cost"`
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dataDir := flag.String("data", "mapdata", "chunk file directory")
	chunkSize := flag.Int("chunk-size", 32, "chunk side length")
	rulesPath := flag.String("rules", "", "TOML adjacency rule file for /api/generate")
	flag.Parse()

	s := &server{
		tiles:   tilemap.NewChunkedStorage[tilemap.Tile](*chunkSize),
		costs:   tilemap.NewPathTilemap(*chunkSize),
		dataDir: *dataDir,
	}
	if *rulesPath != "" {
		rules, err := wfc.LoadRules(*rulesPath, grid.Square)
		if err != nil {
			log.Fatalf("load rules: %v", err)
		}
		s.rules = rules
	}
	if err := persist.LoadAll(s.dataDir, s.tiles); err != nil {
		log.Printf("starting with empty map: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/chunks", s.listChunks)
		r.Get("/chunks/{x}/{y}", s.getChunk)
		r.Delete("/chunks/{x}/{y}", s.deleteChunk)
		r.Put("/tiles", s.putTile)
		r.Get("/path", s.findPath)
		r.Post("/generate", s.generate)
		r.Post("/save", s.save)
	})

	log.Printf("tile map server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func coordParams(r *http.Request) (grid.Point, error) {
	x, errX := strconv.Atoi(chi.URLParam(r, "x"))
	y, errY := strconv.Atoi(chi.URLParam(r, "y"))
	if errX != nil || errY != nil {
		return grid.Point{}, fmt.Errorf("coordinates must be integers")
	}
	return grid.Point{X: x, Y: y}, nil
}

func (s *server) listChunks(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	coords := s.tiles.ChunkCoords()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"chunks": coords, "count": len(coords)})
}

func (s *server) getChunk(w http.ResponseWriter, r *http.Request) {
	pos, err := coordParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tiles.GetChunk(pos); !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("chunk (%d, %d) not loaded", pos.X, pos.Y))
		return
	}

	out := []tileJSON{}
	it := s.tiles.IterChunk(pos)
	for {
		i, tile, ok := it.Next()
		if !ok {
			break
		}
		p := s.tiles.FromChunkAndLocal(pos, i)
		entry := tileJSON{X: p.X, Y: p.Y, Texture: tile.TextureIndex}
		if cost, ok := s.costs.Get(p); ok {
			entry.Cost = cost.Cost
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"chunk": pos, "tiles": out})
}

func (s *server) deleteChunk(w http.ResponseWriter, r *http.Request) {
	pos, err := coordParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	_, ok := s.tiles.RemoveChunk(pos)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("chunk (%d, %d) not loaded", pos.X, pos.Y))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) putTile(w http.ResponseWriter, r *http.Request) {
	var req tileJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p := grid.Point{X: req.X, Y: req.Y}

	s.mu.Lock()
	s.tiles.Set(p, tilemap.NewTile(req.Texture))
	if req.Cost > 0 {
		s.costs.Set(p, tilemap.PathTile{Cost: req.Cost})
	} else {
		s.costs.Remove(p)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, req)
}

func (s *server) findPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	parse := func(key string) (int, error) { return strconv.Atoi(q.Get(key)) }

	fromX, err1 := parse("from_x")
	fromY, err2 := parse("from_y")
	toX, err3 := parse("to_x")
	toY, err4 := parse("to_y")
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("from_x, from_y, to_x, to_y are required integers"))
		return
	}

	// The search reads the cost map under its own lock
	path := navigation.FindPath(navigation.Pathfinder{
		Origin: grid.Point{X: fromX, Y: fromY},
		Dest:   grid.Point{X: toX, Y: toY},
	}, s.costs)

	if path == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no route"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"length": path.Len(), "points": path.Points()})
}

type generateRequest struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Seed   int64 `json:"seed"`
}

func (s *server) generate(w http.ResponseWriter, r *http.Request) {
	if s.rules == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("server started without a rule file"))
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	area := grid.NewRect(grid.Point{X: req.X, Y: req.Y}, req.Width, req.Height)
	solver, err := wfc.NewRunner(s.rules, area, req.Seed).Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if solver.Run() != wfc.Complete {
		writeError(w, http.StatusConflict, fmt.Errorf("generation failed, try another seed"))
		return
	}

	s.mu.Lock()
	err = solver.Data().FillStorage(s.tiles, nil)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"area": area, "seed": req.Seed})
}

func (s *server) save(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := persist.SaveDirty(s.dataDir, s.tiles)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
