package graph

import "fmt"

// Stats summarizes the network size.
type Stats struct {
	Intersections int `json:"intersections"`
	Entries       int `json:"entries"` // adjacency entries, two per route
	Routes        int `json:"routes"`
}

func (s Stats) String() string {
	return fmt.Sprintf("Intersections: %d | Routes: %d", s.Intersections, s.Routes)
}

// Stats counts intersections and routes.
func (s *Snapshot) Stats() Stats {
	st := Stats{Intersections: len(s.nodes)}
	for _, n := range s.nodes {
		st.Entries += len(n.Edges)
	}
	st.Routes = st.Entries / 2
	return st
}

// Reachable returns every intersection reachable from id, in BFS discovery
// order starting with id itself.
func (s *Snapshot) Reachable(id NodeID) ([]NodeID, error) {
	start, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("reachable from %d: %w", id, ErrNodeNotFound)
	}

	visited := make([]bool, len(s.nodes))
	visited[start] = true
	queue := []int{start}
	var out []NodeID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, s.nodes[cur].ID)

		for _, e := range s.nodes[cur].Edges {
			next, ok := s.index[e.To]
			if !ok || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return out, nil
}

// Components groups intersections into connected components. Members are
// listed in insertion order and components are ordered by their first member.
func (s *Snapshot) Components() [][]NodeID {
	uf := s.unionFind()

	groups := make(map[int]int) // root -> position in out
	var out [][]NodeID
	for i, n := range s.nodes {
		root := uf.Find(i)
		pos, ok := groups[root]
		if !ok {
			pos = len(out)
			groups[root] = pos
			out = append(out, nil)
		}
		out[pos] = append(out[pos], n.ID)
	}
	return out
}

// Connected reports whether a route sequence joins a and b.
func (s *Snapshot) Connected(a, b NodeID) (bool, error) {
	ia, ok := s.index[a]
	if !ok {
		return false, fmt.Errorf("connected %d-%d: %w", a, b, ErrNodeNotFound)
	}
	ib, ok := s.index[b]
	if !ok {
		return false, fmt.Errorf("connected %d-%d: %w", a, b, ErrNodeNotFound)
	}
	return s.unionFind().Connected(ia, ib), nil
}

func (s *Snapshot) unionFind() *UnionFind {
	uf := NewUnionFind(len(s.nodes))
	for i, n := range s.nodes {
		for _, e := range n.Edges {
			if j, ok := s.index[e.To]; ok {
				uf.Union(i, j)
			}
		}
	}
	return uf
}

// RemovalReport details what RemoveNode would change.
type RemovalReport struct {
	Target   Node
	Affected []NodeID // intersections that lose at least one route
	Pruned   int      // entries dropped from other adjacency lists
	Isolated []NodeID // affected intersections left with no routes
}

// AnalyzeRemoval previews the cascade of removing id without mutating
// anything.
func (s *Snapshot) AnalyzeRemoval(id NodeID) (*RemovalReport, error) {
	target, ok := s.Node(id)
	if !ok {
		return nil, fmt.Errorf("analyze removal of %d: %w", id, ErrNodeNotFound)
	}

	report := &RemovalReport{Target: target}
	for _, n := range s.nodes {
		if n.ID == id {
			continue
		}
		hits := 0
		for _, e := range n.Edges {
			if e.To == id {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		report.Affected = append(report.Affected, n.ID)
		report.Pruned += hits
		if hits == len(n.Edges) {
			report.Isolated = append(report.Isolated, n.ID)
		}
	}
	return report, nil
}
