// Package report renders network and routing results as text, CSV and
// JSON.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Sherolroses/Transport/pkg/congestion"
	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/routing"
)

// FormatDistance renders a distance with at most two decimals.
func FormatDistance(d float64) string {
	if math.IsInf(d, 1) {
		return "unreachable"
	}
	s := strconv.FormatFloat(d, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatEdges(edges []graph.Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Network writes one line per intersection: "Name(id) --> [to,w] [to,w]".
func Network(w io.Writer, snap *graph.Snapshot) error {
	ew := &errWriter{w: w}
	ew.printf("--- Transport Network ---\n")
	for _, n := range snap.Nodes() {
		ew.printf("%s --> %s\n", n.Label(), formatEdges(n.Edges))
	}
	ew.printf("%s\n", snap.Stats())
	return ew.err
}

// Neighbors writes a node's adjacency list. Sorted listings use one line
// per route.
func Neighbors(w io.Writer, n graph.Node, edges []graph.Edge, sorted bool) error {
	ew := &errWriter{w: w}
	if !sorted {
		ew.printf("Neighbors of %s:\n%s\n", n.Label(), formatEdges(edges))
		return ew.err
	}
	ew.printf("Sorted routes for %s:\n", n.Label())
	for _, e := range edges {
		ew.printf("To Intersection %d | Distance: %d\n", e.To, e.Weight)
	}
	return ew.err
}

// DirectRoute writes the result of a route search.
func DirectRoute(w io.Writer, r routing.DirectRoute) error {
	var err error
	if r.Exists {
		_, err = fmt.Fprintf(w, "Route exists: %d -> %d | Distance: %d\n", r.From, r.To, r.Weight)
	} else {
		_, err = fmt.Fprintf(w, "Route not found between %d and %d\n", r.From, r.To)
	}
	return err
}

// Path writes "0 -> 3 | Total adjusted distance: 15". With explain, the
// multiplier and every improving relaxation come first.
func Path(w io.Writer, p *routing.Path, explain bool) error {
	ew := &errWriter{w: w}
	if explain {
		ew.printf("Congestion multiplier for hour %d: %s (%s)\n",
			p.Hour, FormatDistance(p.Multiplier), congestion.Level(p.Multiplier))
		for _, s := range p.Steps {
			ew.printf("  %d via %d | distance %d | adjusted %s | total %s\n",
				s.To, s.From, s.Weight, FormatDistance(s.Adjusted), FormatDistance(s.Distance))
		}
	}

	ids := make([]string, len(p.Nodes))
	for i, id := range p.Nodes {
		ids[i] = strconv.Itoa(int(id))
	}
	ew.printf("%s | Total adjusted distance: %s\n", strings.Join(ids, " -> "), FormatDistance(p.Distance))
	return ew.err
}

// Components writes one line per connected component.
func Components(w io.Writer, comps [][]graph.NodeID) error {
	ew := &errWriter{w: w}
	for i, c := range comps {
		ids := make([]string, len(c))
		for j, id := range c {
			ids[j] = strconv.Itoa(int(id))
		}
		ew.printf("Component %d (%d): %s\n", i+1, len(c), strings.Join(ids, " "))
	}
	return ew.err
}

// Impact writes a removal preview.
func Impact(w io.Writer, r *graph.RemovalReport) error {
	ew := &errWriter{w: w}
	ew.printf("Removing %s prunes %d route entries\n", r.Target.Label(), r.Pruned)
	ew.printf("Affected: %s\n", joinIDs(r.Affected))
	ew.printf("Isolated: %s\n", joinIDs(r.Isolated))
	return ew.err
}

// Matrix writes a distance table; unreachable cells show "-".
func Matrix(w io.Writer, m *routing.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	ew := &errWriter{w: tw}
	ew.printf("hour %d x%s\t", m.Hour, FormatDistance(m.Multiplier))
	for _, id := range m.IDs {
		ew.printf("%d\t", id)
	}
	ew.printf("\n")
	for i, id := range m.IDs {
		ew.printf("%d\t", id)
		for j := range m.IDs {
			cell := "-"
			if m.Reachable(i, j) {
				cell = FormatDistance(m.Cells[i][j])
			}
			ew.printf("%s\t", cell)
		}
		ew.printf("\n")
	}
	if ew.err != nil {
		return ew.err
	}
	return tw.Flush()
}

func joinIDs(ids []graph.NodeID) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, " ")
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
