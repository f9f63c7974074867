// Package wfc implements the Wave Function Collapse tile generator:
// constraint propagation over a rectangular area driven by adjacency
// rules, with weighted or custom sampling and bounded backtracking
// through a rolling history ring buffer.
package wfc

import (
	"fmt"
	"os"

	"github.com/lixenwraith/tilegrid/grid"
	"github.com/lixenwraith/tilegrid/toml"
)

// Rules is the adjacency compatibility matrix: for each pattern and
// each rule direction, the set of patterns permitted in that
// neighbour slot. Validated eagerly so the per-step solver loop stays
// free of error handling.
type Rules struct {
	ty       grid.MapType
	dirCount int
	allowed  [][]Bitset128 // [pattern][direction]
}

// NewRules builds and validates a rule set from nested permitted-
// pattern lists, adjacency[pattern][direction] = list of permitted
// neighbour patterns. Direction order is positional per
// grid.Directions; rule files encode directions positionally, so the
// order is part of the format.
func NewRules(ty grid.MapType, adjacency [][][]int) (*Rules, error) {
	count := len(adjacency)
	if count == 0 {
		return nil, fmt.Errorf("wfc: empty rule set")
	}
	if count > MaxPatterns {
		return nil, fmt.Errorf("wfc: %d patterns exceed the maximum of %d", count, MaxPatterns)
	}

	dirCount := grid.DirectionCount(ty)
	r := &Rules{
		ty:       ty,
		dirCount: dirCount,
		allowed:  make([][]Bitset128, count),
	}

	for p, dirs := range adjacency {
		if len(dirs) != dirCount {
			return nil, fmt.Errorf("wfc: pattern %d has %d direction lists, want %d", p, len(dirs), dirCount)
		}
		r.allowed[p] = make([]Bitset128, dirCount)
		for d, permitted := range dirs {
			for _, q := range permitted {
				if q < 0 || q >= count {
					return nil, fmt.Errorf("wfc: pattern %d direction %d permits unknown pattern %d", p, d, q)
				}
				r.allowed[p][d].Set(q)
			}
		}
	}

	// Symmetry: A permitting B in direction d requires B permitting A
	// in the paired opposite direction
	for p := range r.allowed {
		for d := 0; d < dirCount; d++ {
			opp := grid.Opposite(dirCount, d)
			for _, q := range r.allowed[p][d].Patterns() {
				if !r.allowed[q][opp].Has(p) {
					return nil, fmt.Errorf(
						"wfc: asymmetric rule: pattern %d permits %d in direction %d but %d does not permit %d in direction %d",
						p, q, d, q, p, opp)
				}
			}
		}
	}

	return r, nil
}

type rulesFile struct {
	Pattern []struct {
		Allowed [][]int `toml:"allowed"`
	} `toml:"pattern"`
}

// LoadRules reads a TOML rule file: one [[pattern]] table per pattern
// with `allowed` holding one permitted-pattern list per direction in
// positional order
func LoadRules(path string, ty grid.MapType) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wfc: read rules: %w", err)
	}

	var file rulesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("wfc: parse rules %s: %w", path, err)
	}

	adjacency := make([][][]int, len(file.Pattern))
	for i, p := range file.Pattern {
		adjacency[i] = p.Allowed
	}
	return NewRules(ty, adjacency)
}

// PatternCount returns the number of patterns the rule set defines
func (r *Rules) PatternCount() int {
	return len(r.allowed)
}

// DirCount returns the number of rule directions (4 or 6)
func (r *Rules) DirCount() int {
	return r.dirCount
}

// MapType returns the topology the rules were built for
func (r *Rules) MapType() grid.MapType {
	return r.ty
}

// Allowed returns the permitted neighbour set of pattern in direction
// dir
func (r *Rules) Allowed(pattern, dir int) Bitset128 {
	return r.allowed[pattern][dir]
}

type weightsFile struct {
	Weights []int `toml:"weights"`
}

// LoadWeights reads a TOML per-pattern weight table:
// weights = [3, 1, 1, ...]
func LoadWeights(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wfc: read weights: %w", err)
	}
	var file weightsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("wfc: parse weights %s: %w", path, err)
	}
	out := make([]uint32, len(file.Weights))
	for i, w := range file.Weights {
		if w < 0 {
			return nil, fmt.Errorf("wfc: negative weight %d for pattern %d", w, i)
		}
		out[i] = uint32(w)
	}
	return out, nil
}
