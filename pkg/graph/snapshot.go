package graph

// Snapshot is an immutable copy of the network at one generation.
// Queries run on snapshots so they never hold the store lock.
type Snapshot struct {
	nodes      []Node
	index      map[NodeID]int
	generation uint64
}

func newSnapshot(nodes []Node, gen uint64) *Snapshot {
	index := make(map[NodeID]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	return &Snapshot{nodes: nodes, index: index, generation: gen}
}

// Generation of the store when the snapshot was taken.
func (s *Snapshot) Generation() uint64 { return s.generation }

// Len returns the number of intersections.
func (s *Snapshot) Len() int { return len(s.nodes) }

// At returns the node at insertion index i.
func (s *Snapshot) At(i int) Node { return s.nodes[i] }

// IndexOf maps an id to its insertion index.
func (s *Snapshot) IndexOf(id NodeID) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

func (s *Snapshot) Has(id NodeID) bool {
	_, ok := s.index[id]
	return ok
}

// Node returns the intersection with the given id.
func (s *Snapshot) Node(id NodeID) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Nodes returns the intersections in insertion order.
// The slice is shared; callers must not modify it.
func (s *Snapshot) Nodes() []Node { return s.nodes }
