package routing

import (
	"container/heap"
	"context"
	"math"

	"github.com/Sherolroses/Transport/pkg/graph"
)

// search holds the state of one Dijkstra run over a snapshot. Slices
// are indexed by insertion index.
type search struct {
	snap  *graph.Snapshot
	mult  float64
	dist  []float64
	prev  []int
	via   []int // base weight of the entry used to reach each node
	done  []bool
	steps []Step
	trace bool
}

func newSearch(snap *graph.Snapshot, mult float64, trace bool) *search {
	n := snap.Len()
	s := &search{
		snap:  snap,
		mult:  mult,
		dist:  make([]float64, n),
		prev:  make([]int, n),
		via:   make([]int, n),
		done:  make([]bool, n),
		trace: trace,
	}
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
		s.prev[i] = -1
	}
	return s
}

// run finalises nodes from start until target is finalised, or every
// reachable node when target is negative.
//
// The frontier orders entries by distance, then insertion index, so equal
// tentative distances resolve to the lowest insertion index.
func (s *search) run(ctx context.Context, start, target int) error {
	s.dist[start] = 0
	pq := &frontier{{dist: 0, idx: start}}

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		c := heap.Pop(pq).(candidate)
		u := c.idx
		if s.done[u] || c.dist > s.dist[u] {
			continue // stale entry
		}
		s.done[u] = true
		if u == target {
			return nil
		}

		from := s.snap.At(u)
		for _, e := range from.Edges {
			v, ok := s.snap.IndexOf(e.To)
			if !ok || s.done[v] {
				continue
			}
			adjusted := float64(e.Weight) * s.mult
			if cand := s.dist[u] + adjusted; cand < s.dist[v] {
				s.dist[v] = cand
				s.prev[v] = u
				s.via[v] = e.Weight
				heap.Push(pq, candidate{dist: cand, idx: v})
				if s.trace {
					s.steps = append(s.steps, Step{
						From:     from.ID,
						To:       e.To,
						Weight:   e.Weight,
						Adjusted: adjusted,
						Distance: cand,
					})
				}
			}
		}
	}
	return nil
}

// candidate is a tentative distance waiting in the frontier.
type candidate struct {
	dist float64
	idx  int
}

// frontier is a min-heap of candidates (container/heap).
type frontier []candidate

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].idx < f[j].idx
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(candidate)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	c := old[n-1]
	*f = old[:n-1]
	return c
}

// path walks predecessors back from target and reverses them.
func (s *search) path(target int) ([]graph.NodeID, []Hop) {
	var idx []int
	for at := target; at != -1; at = s.prev[at] {
		idx = append(idx, at)
	}

	nodes := make([]graph.NodeID, len(idx))
	for i, at := range idx {
		nodes[len(idx)-1-i] = s.snap.At(at).ID
	}

	hops := make([]Hop, 0, len(idx)-1)
	for i := len(idx) - 1; i > 0; i-- {
		to := idx[i-1]
		hops = append(hops, Hop{
			From:     s.snap.At(idx[i]).ID,
			To:       s.snap.At(to).ID,
			Weight:   s.via[to],
			Adjusted: float64(s.via[to]) * s.mult,
		})
	}
	return nodes, hops
}
