package navigation

import "github.com/lixenwraith/tilegrid/grid"

// heapEntry is one scheduled visit. Duplicate entries per coordinate
// are allowed; entries whose g no longer matches the node table are
// stale and skipped on pop.
type heapEntry struct {
	index grid.Point
	g, f  uint32
}

// Ordered by f = g+h; ties prefer the larger g so nodes already
// deeper in the search win over pure heuristic optimism
func entryLess(a, b heapEntry) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.g > b.g
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	// Sift up
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !entryLess((*h)[i], (*h)[parent]) {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && entryLess((*h)[right], (*h)[left]) {
			smallest = right
		}
		if !entryLess((*h)[smallest], (*h)[i]) {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}
