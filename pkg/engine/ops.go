package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/routing"
)

func idAttr(key string, id graph.NodeID) attribute.KeyValue {
	return attribute.Int(key, int(id))
}

func (e *Engine) AddIntersection(ctx context.Context, id graph.NodeID, name string) error {
	return e.observe(ctx, "add_intersection", true,
		[]attribute.KeyValue{idAttr("id", id), attribute.String("name", name)},
		func(context.Context) error {
			return e.Store.AddNode(id, name)
		})
}

func (e *Engine) UpdateIntersection(ctx context.Context, id graph.NodeID, name string) error {
	return e.observe(ctx, "update_intersection", true,
		[]attribute.KeyValue{idAttr("id", id), attribute.String("name", name)},
		func(context.Context) error {
			return e.Store.UpdateNode(id, name)
		})
}

// RemoveIntersection removes the node and every route touching it. It
// returns the number of adjacency entries pruned from other nodes.
func (e *Engine) RemoveIntersection(ctx context.Context, id graph.NodeID) (int, error) {
	var pruned int
	err := e.observe(ctx, "remove_intersection", true,
		[]attribute.KeyValue{idAttr("id", id)},
		func(context.Context) error {
			var err error
			pruned, err = e.Store.RemoveNode(id)
			return err
		})
	return pruned, err
}

func (e *Engine) AddRoute(ctx context.Context, from, to graph.NodeID, distance int) error {
	return e.observe(ctx, "add_route", true,
		[]attribute.KeyValue{idAttr("from", from), idAttr("to", to), attribute.Int("distance", distance)},
		func(context.Context) error {
			return e.Store.AddEdge(from, to, distance)
		})
}

func (e *Engine) UpdateRoute(ctx context.Context, from, to graph.NodeID, distance int) (int, error) {
	var updated int
	err := e.observe(ctx, "update_route", true,
		[]attribute.KeyValue{idAttr("from", from), idAttr("to", to), attribute.Int("distance", distance)},
		func(context.Context) error {
			var err error
			updated, err = e.Store.UpdateEdge(from, to, distance)
			return err
		})
	return updated, err
}

func (e *Engine) RemoveRoute(ctx context.Context, from, to graph.NodeID) (int, error) {
	var removed int
	err := e.observe(ctx, "remove_route", true,
		[]attribute.KeyValue{idAttr("from", from), idAttr("to", to)},
		func(context.Context) error {
			var err error
			removed, err = e.Store.RemoveEdge(from, to)
			return err
		})
	return removed, err
}

// Neighbors returns the node with its routes in insertion order.
func (e *Engine) Neighbors(ctx context.Context, id graph.NodeID) (graph.Node, error) {
	var n graph.Node
	err := e.observe(ctx, "neighbors", false,
		[]attribute.KeyValue{idAttr("id", id)},
		func(context.Context) error {
			var err error
			n, err = e.Store.Node(id)
			return err
		})
	return n, err
}

// SortedNeighbors returns the node and its routes ordered by distance.
func (e *Engine) SortedNeighbors(ctx context.Context, id graph.NodeID) (graph.Node, []graph.Edge, error) {
	var (
		n     graph.Node
		edges []graph.Edge
	)
	err := e.observe(ctx, "sorted_neighbors", false,
		[]attribute.KeyValue{idAttr("id", id)},
		func(context.Context) error {
			var err error
			if n, err = e.Store.Node(id); err != nil {
				return err
			}
			edges, err = e.Store.SortedNeighbors(id)
			return err
		})
	return n, edges, err
}

func (e *Engine) SearchRoute(ctx context.Context, from, to graph.NodeID) (routing.DirectRoute, error) {
	var res routing.DirectRoute
	err := e.observe(ctx, "search_route", false,
		[]attribute.KeyValue{idAttr("from", from), idAttr("to", to)},
		func(ctx context.Context) error {
			var err error
			res, err = e.Router.SearchRoute(ctx, from, to)
			return err
		})
	return res, err
}

func (e *Engine) ShortestPath(ctx context.Context, from, to graph.NodeID, hour int) (*routing.Path, error) {
	var p *routing.Path
	err := e.observe(ctx, "shortest_path", false,
		[]attribute.KeyValue{idAttr("from", from), idAttr("to", to), attribute.Int("hour", hour)},
		func(ctx context.Context) error {
			var err error
			p, err = e.Router.ShortestPath(ctx, from, to, hour)
			return err
		})
	return p, err
}

// Network returns a consistent copy of the whole network.
func (e *Engine) Network(ctx context.Context) *graph.Snapshot {
	var snap *graph.Snapshot
	_ = e.observe(ctx, "network", false, nil, func(context.Context) error {
		snap = e.Store.Snapshot()
		return nil
	})
	return snap
}

func (e *Engine) Components(ctx context.Context) [][]graph.NodeID {
	var comps [][]graph.NodeID
	_ = e.observe(ctx, "components", false, nil, func(context.Context) error {
		comps = e.Store.Snapshot().Components()
		return nil
	})
	return comps
}

// Impact previews RemoveIntersection without changing anything.
func (e *Engine) Impact(ctx context.Context, id graph.NodeID) (*graph.RemovalReport, error) {
	var rep *graph.RemovalReport
	err := e.observe(ctx, "impact", false,
		[]attribute.KeyValue{idAttr("id", id)},
		func(context.Context) error {
			var err error
			rep, err = e.Store.Snapshot().AnalyzeRemoval(id)
			return err
		})
	return rep, err
}

func (e *Engine) Matrix(ctx context.Context, ids []graph.NodeID, hour int) (*routing.Matrix, error) {
	var m *routing.Matrix
	err := e.observe(ctx, "matrix", false,
		[]attribute.KeyValue{attribute.Int("size", len(ids)), attribute.Int("hour", hour)},
		func(ctx context.Context) error {
			var err error
			m, err = e.Router.Matrix(ctx, ids, hour)
			return err
		})
	return m, err
}
