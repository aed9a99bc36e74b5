package routing

import (
	"errors"

	"github.com/Sherolroses/Transport/pkg/graph"
)

// ErrUnreachable is returned when no route sequence joins the endpoints.
var ErrUnreachable = errors.New("routing: destination unreachable")

// Hop is one leg of a path.
type Hop struct {
	From     graph.NodeID `json:"from"`
	To       graph.NodeID `json:"to"`
	Weight   int          `json:"weight"`
	Adjusted float64      `json:"adjusted"`
}

// Step records an improving relaxation: reaching To through From lowered
// its tentative distance to Distance.
type Step struct {
	From     graph.NodeID `json:"from"`
	To       graph.NodeID `json:"to"`
	Weight   int          `json:"weight"`
	Adjusted float64      `json:"adjusted"`
	Distance float64      `json:"distance"`
}

// Path is the result of a shortest-path query.
type Path struct {
	From       graph.NodeID   `json:"from"`
	To         graph.NodeID   `json:"to"`
	Hour       int            `json:"hour"`
	Multiplier float64        `json:"multiplier"`
	Nodes      []graph.NodeID `json:"nodes"`
	Distance   float64        `json:"distance"`
	Hops       []Hop          `json:"hops"`
	Steps      []Step         `json:"steps,omitempty"`
	Generation uint64         `json:"generation"`
}

// Clone returns a deep copy.
func (p *Path) Clone() *Path {
	c := *p
	c.Nodes = append([]graph.NodeID(nil), p.Nodes...)
	c.Hops = append([]Hop(nil), p.Hops...)
	c.Steps = append([]Step(nil), p.Steps...)
	return &c
}

// DirectRoute reports whether a single route joins two intersections.
type DirectRoute struct {
	From   graph.NodeID `json:"from"`
	To     graph.NodeID `json:"to"`
	Exists bool         `json:"exists"`
	Weight int          `json:"weight,omitempty"`
}
