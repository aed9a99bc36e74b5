package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/report"
)

type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	minArgs int
	maxArgs int // -1 for unbounded
	run     func(ctx context.Context, args []string, w io.Writer) error
}

func (s *Shell) table() []command {
	return []command{
		{name: "add-node", usage: "add-node ID NAME", help: "add an intersection",
			minArgs: 2, maxArgs: -1, run: s.addNode},
		{name: "update-node", usage: "update-node ID NAME", help: "rename an intersection",
			minArgs: 2, maxArgs: -1, run: s.updateNode},
		{name: "remove-node", usage: "remove-node ID", help: "remove an intersection and its routes",
			minArgs: 1, maxArgs: 1, run: s.removeNode},
		{name: "add-route", usage: "add-route FROM TO DISTANCE", help: "add a two-way route",
			minArgs: 3, maxArgs: 3, run: s.addRoute},
		{name: "update-route", usage: "update-route FROM TO DISTANCE", help: "change the distance of every route between two intersections",
			minArgs: 3, maxArgs: 3, run: s.updateRoute},
		{name: "remove-route", usage: "remove-route FROM TO", help: "remove every route between two intersections",
			minArgs: 2, maxArgs: 2, run: s.removeRoute},
		{name: "neighbors", usage: "neighbors ID", help: "list routes in insertion order",
			minArgs: 1, maxArgs: 1, run: s.neighbors},
		{name: "sort", usage: "sort ID", help: "list routes by ascending distance",
			minArgs: 1, maxArgs: 1, run: s.sorted},
		{name: "search", usage: "search FROM TO", help: "check for a direct route",
			minArgs: 2, maxArgs: 2, run: s.search},
		{name: "path", usage: "path FROM TO HOUR [explain]", help: "shortest congestion-adjusted path",
			minArgs: 3, maxArgs: 4, run: s.path},
		{name: "network", usage: "network", help: "print the whole network",
			minArgs: 0, maxArgs: 0, run: s.network},
		{name: "components", usage: "components", help: "list connected components",
			minArgs: 0, maxArgs: 0, run: s.components},
		{name: "impact", usage: "impact ID", help: "preview removing an intersection",
			minArgs: 1, maxArgs: 1, run: s.impact},
		{name: "matrix", usage: "matrix HOUR [ID...]", help: "distance table, all intersections by default",
			minArgs: 1, maxArgs: -1, run: s.matrix},
		{name: "help", aliases: []string{"?"}, usage: "help", help: "show this list",
			minArgs: 0, maxArgs: 0, run: s.help},
		{name: "quit", aliases: []string{"exit"}, usage: "quit", help: "leave the shell",
			minArgs: 0, maxArgs: 0, run: func(context.Context, []string, io.Writer) error { return ErrQuit }},
	}
}

func (s *Shell) addNode(ctx context.Context, args []string, w io.Writer) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.eng.AddIntersection(ctx, id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Intersection %d added.\n", id)
	return err
}

func (s *Shell) updateNode(ctx context.Context, args []string, w io.Writer) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")
	if err := s.eng.UpdateIntersection(ctx, id, name); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Intersection updated: %d -> %s\n", id, name)
	return err
}

func (s *Shell) removeNode(ctx context.Context, args []string, w io.Writer) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	pruned, err := s.eng.RemoveIntersection(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Intersection %d and its routes removed (%d entries pruned).\n", id, pruned)
	return err
}

func (s *Shell) routeArgs(args []string) (graph.NodeID, graph.NodeID, error) {
	from, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	to, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func (s *Shell) addRoute(ctx context.Context, args []string, w io.Writer) error {
	from, to, err := s.routeArgs(args)
	if err != nil {
		return err
	}
	dist, err := parseInt("distance", args[2])
	if err != nil {
		return err
	}
	if err := s.eng.AddRoute(ctx, from, to, dist); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Route added: %d <-> %d | Distance: %d\n", from, to, dist)
	return err
}

func (s *Shell) updateRoute(ctx context.Context, args []string, w io.Writer) error {
	from, to, err := s.routeArgs(args)
	if err != nil {
		return err
	}
	dist, err := parseInt("distance", args[2])
	if err != nil {
		return err
	}
	n, err := s.eng.UpdateRoute(ctx, from, to, dist)
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = fmt.Fprintf(w, "No route between %d and %d; nothing updated.\n", from, to)
		return err
	}
	_, err = fmt.Fprintf(w, "Route updated: %d <-> %d | New Distance: %d\n", from, to, dist)
	return err
}

func (s *Shell) removeRoute(ctx context.Context, args []string, w io.Writer) error {
	from, to, err := s.routeArgs(args)
	if err != nil {
		return err
	}
	n, err := s.eng.RemoveRoute(ctx, from, to)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Route removed: %d <-> %d (%d entries)\n", from, to, n)
	return err
}

func (s *Shell) neighbors(ctx context.Context, args []string, w io.Writer) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	n, err := s.eng.Neighbors(ctx, id)
	if err != nil {
		return err
	}
	return report.Neighbors(w, n, n.Edges, false)
}

func (s *Shell) sorted(ctx context.Context, args []string, w io.Writer) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	n, edges, err := s.eng.SortedNeighbors(ctx, id)
	if err != nil {
		return err
	}
	return report.Neighbors(w, n, edges, true)
}

func (s *Shell) search(ctx context.Context, args []string, w io.Writer) error {
	from, to, err := s.routeArgs(args)
	if err != nil {
		return err
	}
	r, err := s.eng.SearchRoute(ctx, from, to)
	if err != nil {
		return err
	}
	return report.DirectRoute(w, r)
}

func (s *Shell) path(ctx context.Context, args []string, w io.Writer) error {
	from, to, err := s.routeArgs(args)
	if err != nil {
		return err
	}
	hour, err := parseInt("hour", args[2])
	if err != nil {
		return err
	}
	explain := false
	if len(args) == 4 {
		if !strings.EqualFold(args[3], "explain") {
			return fmt.Errorf("%w: path FROM TO HOUR [explain]", ErrUsage)
		}
		explain = true
	}

	p, err := s.eng.ShortestPath(ctx, from, to, hour)
	if err != nil {
		return err
	}
	return report.Path(w, p, explain)
}

func (s *Shell) network(ctx context.Context, _ []string, w io.Writer) error {
	return report.Network(w, s.eng.Network(ctx))
}

func (s *Shell) components(ctx context.Context, _ []string, w io.Writer) error {
	return report.Components(w, s.eng.Components(ctx))
}

func (s *Shell) impact(ctx context.Context, args []string, w io.Writer) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	r, err := s.eng.Impact(ctx, id)
	if err != nil {
		return err
	}
	return report.Impact(w, r)
}

func (s *Shell) matrix(ctx context.Context, args []string, w io.Writer) error {
	hour, err := parseInt("hour", args[0])
	if err != nil {
		return err
	}
	ids, err := parseIDs(args[1:])
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		for _, n := range s.eng.Network(ctx).Nodes() {
			ids = append(ids, n.ID)
		}
	}
	m, err := s.eng.Matrix(ctx, ids, hour)
	if err != nil {
		return err
	}
	return report.Matrix(w, m)
}

func (s *Shell) help(_ context.Context, _ []string, w io.Writer) error {
	for _, c := range s.commands {
		if _, err := fmt.Fprintf(w, "  %-32s %s\n", c.usage, c.help); err != nil {
			return err
		}
	}
	return nil
}
