package graph

import "fmt"

// NodeID identifies an intersection. IDs are chosen by the caller.
type NodeID int

// Edge is one adjacency entry: the destination and the base weight
// (travel distance) of the route.
type Edge struct {
	To     NodeID `json:"to" yaml:"to"`
	Weight int    `json:"weight" yaml:"weight"`
}

func (e Edge) String() string {
	return fmt.Sprintf("[%d,%d]", e.To, e.Weight)
}

// Node is an intersection together with its ordered adjacency list.
type Node struct {
	ID    NodeID
	Name  string
	Edges []Edge
}

// Label renders the node as "Name(id)".
func (n Node) Label() string {
	return fmt.Sprintf("%s(%d)", n.Name, n.ID)
}

func (n Node) clone() Node {
	c := n
	if n.Edges != nil {
		c.Edges = make([]Edge, len(n.Edges))
		copy(c.Edges, n.Edges)
	}
	return c
}
