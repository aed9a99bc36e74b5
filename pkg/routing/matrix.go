package routing

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sherolroses/Transport/pkg/graph"
)

// Matrix is a table of adjusted distances. Cells[i][j] is the distance
// from IDs[i] to IDs[j]; unreachable cells hold +Inf.
type Matrix struct {
	Hour       int            `json:"hour"`
	Multiplier float64        `json:"multiplier"`
	IDs        []graph.NodeID `json:"ids"`
	Cells      [][]float64    `json:"-"`
	Generation uint64         `json:"generation"`
}

// Matrix computes distances between every pair of ids over one snapshot.
// Rows run concurrently, bounded by the worker limit.
func (r *Router) Matrix(ctx context.Context, ids []graph.NodeID, hour int) (*Matrix, error) {
	ctx, span := r.tracer.Start(ctx, "Router.Matrix", trace.WithAttributes(
		attribute.Int("matrix.size", len(ids)),
		attribute.Int("route.hour", hour),
	))
	defer span.End()
	start := time.Now()

	m, err := r.matrix(ctx, ids, hour)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.record(ctx, "matrix", outcome(err), start)
		return nil, fmt.Errorf("distance matrix: %w", err)
	}
	r.metrics.record(ctx, "matrix", "ok", start)
	return m, nil
}

func (r *Router) matrix(ctx context.Context, ids []graph.NodeID, hour int) (*Matrix, error) {
	mult, err := r.Multiplier(hour)
	if err != nil {
		return nil, err
	}

	snap := r.store.Snapshot()
	index := make([]int, len(ids))
	for i, id := range ids {
		idx, ok := snap.IndexOf(id)
		if !ok {
			return nil, fmt.Errorf("intersection %d: %w", id, graph.ErrNodeNotFound)
		}
		index[i] = idx
	}

	m := &Matrix{
		Hour:       hour,
		Multiplier: mult,
		IDs:        append([]graph.NodeID(nil), ids...),
		Cells:      make([][]float64, len(ids)),
		Generation: snap.Generation(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range ids {
		i := i
		g.Go(func() error {
			s := newSearch(snap, mult, false)
			if err := s.run(gctx, index[i], -1); err != nil {
				return err
			}
			row := make([]float64, len(ids))
			for j, idx := range index {
				row[j] = s.dist[idx]
			}
			m.Cells[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reachable reports whether cell (i, j) has a finite distance.
func (m *Matrix) Reachable(i, j int) bool {
	return !math.IsInf(m.Cells[i][j], 1)
}
