package graph

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory transport network.
//
// One RWMutex guards every logical operation, so a route's two adjacency
// entries and a removal's cascade are always observed together.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes []*Node
	idMap map[NodeID]int // ID -> insertion index
	gen   uint64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make([]*Node, 0, 64),
		idMap: make(map[NodeID]int),
	}
}

func (s *MemoryStore) AddNode(id NodeID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idMap[id]; ok {
		return fmt.Errorf("add intersection %d: %w", id, ErrDuplicateNode)
	}

	s.idMap[id] = len(s.nodes)
	s.nodes = append(s.nodes, &Node{ID: id, Name: name})
	s.gen++
	return nil
}

func (s *MemoryStore) UpdateNode(id NodeID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("update intersection %d: %w", id, ErrNodeNotFound)
	}
	n.Name = name
	s.gen++
	return nil
}

// RemoveNode deletes the intersection and prunes every entry pointing at it
// from the other adjacency lists. It returns the number of pruned entries.
func (s *MemoryStore) RemoveNode(id NodeID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.idMap[id]
	if !ok {
		return 0, fmt.Errorf("remove intersection %d: %w", id, ErrNodeNotFound)
	}

	s.nodes = append(s.nodes[:idx], s.nodes[idx+1:]...)
	delete(s.idMap, id)
	for i := idx; i < len(s.nodes); i++ {
		s.idMap[s.nodes[i].ID] = i
	}

	pruned := 0
	for _, n := range s.nodes {
		kept := n.Edges[:0]
		for _, e := range n.Edges {
			if e.To == id {
				pruned++
				continue
			}
			kept = append(kept, e)
		}
		n.Edges = kept
	}
	s.gen++
	return pruned, nil
}

func (s *MemoryStore) Node(id NodeID) (Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.lookup(id)
	if !ok {
		return Node{}, fmt.Errorf("intersection %d: %w", id, ErrNodeNotFound)
	}
	return n.clone(), nil
}

func (s *MemoryStore) HasNode(id NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.idMap[id]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// AddEdge appends (to, weight) to from's list and (from, weight) to to's
// list. Parallel routes are kept.
func (s *MemoryStore) AddEdge(from, to NodeID, weight int) error {
	if weight < 0 {
		return fmt.Errorf("add route %d-%d: negative distance %d: %w", from, to, weight, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, b, err := s.endpoints(from, to)
	if err != nil {
		return fmt.Errorf("add route: %w", err)
	}

	a.Edges = append(a.Edges, Edge{To: to, Weight: weight})
	b.Edges = append(b.Edges, Edge{To: from, Weight: weight})
	s.gen++
	return nil
}

// UpdateEdge sets the weight of every from->to and to->from entry and
// returns how many entries changed. No matching entry is not an error.
func (s *MemoryStore) UpdateEdge(from, to NodeID, weight int) (int, error) {
	if weight < 0 {
		return 0, fmt.Errorf("update route %d-%d: negative distance %d: %w", from, to, weight, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, b, err := s.endpoints(from, to)
	if err != nil {
		return 0, fmt.Errorf("update route: %w", err)
	}

	updated := setWeight(a, to, weight)
	if a != b {
		updated += setWeight(b, from, weight)
	}
	if updated > 0 {
		s.gen++
	}
	return updated, nil
}

// RemoveEdge removes all entries between from and to, in both directions.
func (s *MemoryStore) RemoveEdge(from, to NodeID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, b, err := s.endpoints(from, to)
	if err != nil {
		return 0, fmt.Errorf("remove route: %w", err)
	}

	removed := dropEdges(a, to)
	if a != b {
		removed += dropEdges(b, from)
	}
	if removed > 0 {
		s.gen++
	}
	return removed, nil
}

func (s *MemoryStore) Neighbors(id NodeID) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("neighbors of %d: %w", id, ErrNodeNotFound)
	}
	// Return copy.
	res := make([]Edge, len(n.Edges))
	copy(res, n.Edges)
	return res, nil
}

// SortedNeighbors returns the adjacency list ordered by ascending weight.
// Equal weights keep their insertion order.
func (s *MemoryStore) SortedNeighbors(id NodeID) ([]Edge, error) {
	res, err := s.Neighbors(id)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Weight < res[j].Weight })
	return res, nil
}

// FindEdge returns the first entry in from's list that leads to to.
func (s *MemoryStore) FindEdge(from, to NodeID) (Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.lookup(from)
	if !ok {
		return Edge{}, fmt.Errorf("find route %d-%d: %w", from, to, ErrNodeNotFound)
	}
	for _, e := range n.Edges {
		if e.To == to {
			return e, nil
		}
	}
	return Edge{}, fmt.Errorf("find route %d-%d: %w", from, to, ErrRouteNotFound)
}

// Snapshot returns a deep copy of the network taken under the read lock.
func (s *MemoryStore) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		nodes[i] = n.clone()
	}
	return newSnapshot(nodes, s.gen)
}

// Generation changes whenever a mutation changes the network.
func (s *MemoryStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Stats counts the current network.
func (s *MemoryStore) Stats() Stats {
	return s.Snapshot().Stats()
}

// AnalyzeRemoval previews what RemoveNode(id) would do.
func (s *MemoryStore) AnalyzeRemoval(id NodeID) (*RemovalReport, error) {
	return s.Snapshot().AnalyzeRemoval(id)
}

// Components lists the connected parts of the network.
func (s *MemoryStore) Components() [][]NodeID {
	return s.Snapshot().Components()
}

func (s *MemoryStore) lookup(id NodeID) (*Node, bool) {
	idx, ok := s.idMap[id]
	if !ok {
		return nil, false
	}
	return s.nodes[idx], true
}

func (s *MemoryStore) endpoints(from, to NodeID) (*Node, *Node, error) {
	a, ok := s.lookup(from)
	if !ok {
		return nil, nil, fmt.Errorf("intersection %d: %w", from, ErrNodeNotFound)
	}
	b, ok := s.lookup(to)
	if !ok {
		return nil, nil, fmt.Errorf("intersection %d: %w", to, ErrNodeNotFound)
	}
	return a, b, nil
}

func setWeight(n *Node, to NodeID, weight int) int {
	count := 0
	for i := range n.Edges {
		if n.Edges[i].To == to {
			n.Edges[i].Weight = weight
			count++
		}
	}
	return count
}

func dropEdges(n *Node, to NodeID) int {
	kept := n.Edges[:0]
	removed := 0
	for _, e := range n.Edges {
		if e.To == to {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	n.Edges = kept
	return removed
}
