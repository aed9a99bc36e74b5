package routing

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sherolroses/Transport/pkg/graph"
)

// SearchRoute reports whether a direct route from -> to exists and its
// weight. A missing route is a normal answer, not an error.
func (r *Router) SearchRoute(ctx context.Context, from, to graph.NodeID) (DirectRoute, error) {
	_, span := r.tracer.Start(ctx, "Router.SearchRoute", trace.WithAttributes(
		attribute.Int("route.from", int(from)),
		attribute.Int("route.to", int(to)),
	))
	defer span.End()

	res := DirectRoute{From: from, To: to}
	e, err := r.store.FindEdge(from, to)
	switch {
	case err == nil:
		res.Exists = true
		res.Weight = e.Weight
	case errors.Is(err, graph.ErrRouteNotFound):
	default:
		span.RecordError(err)
		return DirectRoute{}, fmt.Errorf("search route: %w", err)
	}
	span.SetAttributes(attribute.Bool("route.exists", res.Exists))
	return res, nil
}
