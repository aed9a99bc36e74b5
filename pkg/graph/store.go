package graph

// Store defines the transport network storage interface.
type Store interface {
	// Intersection operations.
	AddNode(id NodeID, name string) error
	UpdateNode(id NodeID, name string) error
	RemoveNode(id NodeID) (int, error)
	Node(id NodeID) (Node, error)
	HasNode(id NodeID) bool
	Len() int

	// Route operations. Routes are stored as two independent entries.
	AddEdge(from, to NodeID, weight int) error
	UpdateEdge(from, to NodeID, weight int) (int, error)
	RemoveEdge(from, to NodeID) (int, error)
	Neighbors(id NodeID) ([]Edge, error)
	SortedNeighbors(id NodeID) ([]Edge, error)
	FindEdge(from, to NodeID) (Edge, error)

	// Consistent read view.
	Snapshot() *Snapshot
	Generation() uint64
}
