// Package routing computes congestion-adjusted shortest paths over a
// transport network snapshot.
package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/Sherolroses/Transport/pkg/congestion"
	"github.com/Sherolroses/Transport/pkg/graph"
)

const (
	DefaultCacheSize = 256
	DefaultWorkers   = 4
)

// Router answers path queries against a Store.
type Router struct {
	store   graph.Store
	model   congestion.Model
	cache   *lru.Cache[cacheKey, *Path]
	group   singleflight.Group
	workers int

	cacheSize int
	logger    *slog.Logger
	tracer    trace.Tracer
	meter     metric.Meter
	metrics   *metrics
}

type cacheKey struct {
	from, to   graph.NodeID
	hour       int
	generation uint64
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", k.from, k.to, k.hour, k.generation)
}

// Option configures the Router.
type Option func(*Router)

// WithModel replaces the default time-of-day congestion table.
func WithModel(m congestion.Model) Option {
	return func(r *Router) { r.model = m }
}

// WithCacheSize sets the number of cached paths. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(r *Router) { r.cacheSize = n }
}

// WithWorkers bounds the number of concurrent rows in Matrix.
func WithWorkers(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

func WithMeter(m metric.Meter) Option {
	return func(r *Router) { r.meter = m }
}

func NewRouter(store graph.Store, opts ...Option) (*Router, error) {
	r := &Router{
		store:     store,
		model:     congestion.TimeOfDay{},
		workers:   DefaultWorkers,
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
		tracer:    otel.Tracer("smartroute/routing"),
		meter:     otel.Meter("smartroute/routing"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.cacheSize > 0 {
		c, err := lru.New[cacheKey, *Path](r.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("path cache: %w", err)
		}
		r.cache = c
	}

	m, err := newMetrics(r.meter)
	if err != nil {
		return nil, fmt.Errorf("routing metrics: %w", err)
	}
	r.metrics = m
	return r, nil
}

// Multiplier validates the hour and asks the model for the factor.
// An invalid hour matches both graph.ErrInvalidInput and
// congestion.ErrInvalidHour.
func (r *Router) Multiplier(hour int) (float64, error) {
	if err := congestion.ValidateHour(hour); err != nil {
		return 0, fmt.Errorf("%w: %w", graph.ErrInvalidInput, err)
	}
	m, err := r.model.Multiplier(hour)
	if err != nil {
		return 0, err
	}
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, fmt.Errorf("multiplier %v for hour %d: %w", m, hour, graph.ErrInvalidInput)
	}
	return m, nil
}

// ShortestPath returns the minimum congestion-adjusted path from -> to at
// the given hour.
func (r *Router) ShortestPath(ctx context.Context, from, to graph.NodeID, hour int) (*Path, error) {
	ctx, span := r.tracer.Start(ctx, "Router.ShortestPath", trace.WithAttributes(
		attribute.Int("route.from", int(from)),
		attribute.Int("route.to", int(to)),
		attribute.Int("route.hour", hour),
	))
	defer span.End()
	start := time.Now()

	p, hit, err := r.shortestPath(ctx, from, to, hour)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.record(ctx, "shortest_path", outcome(err), start)
		return nil, fmt.Errorf("shortest path %d->%d: %w", from, to, err)
	}

	span.SetAttributes(
		attribute.Bool("cache_hit", hit),
		attribute.Float64("route.distance", p.Distance),
		attribute.Int("route.hops", len(p.Hops)),
	)
	if hit {
		r.metrics.cacheHit.Add(ctx, 1)
	}
	r.metrics.record(ctx, "shortest_path", "ok", start)
	return p, nil
}

func (r *Router) shortestPath(ctx context.Context, from, to graph.NodeID, hour int) (*Path, bool, error) {
	mult, err := r.Multiplier(hour)
	if err != nil {
		return nil, false, err
	}

	key := cacheKey{from: from, to: to, hour: hour, generation: r.store.Generation()}
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			return cached.Clone(), true, nil
		}
	}

	res, err, _ := r.group.Do(key.String(), func() (any, error) {
		if r.cache != nil {
			if cached, ok := r.cache.Get(key); ok {
				return cached, nil
			}
		}

		snap := r.store.Snapshot()
		p, err := r.compute(ctx, snap, from, to, hour, mult)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			key.generation = snap.Generation()
			r.cache.Add(key, p)
		}
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}

	p, ok := res.(*Path)
	if !ok {
		return nil, false, fmt.Errorf("unexpected type from path group: got %T", res)
	}
	return p.Clone(), false, nil
}

func (r *Router) compute(ctx context.Context, snap *graph.Snapshot, from, to graph.NodeID, hour int, mult float64) (*Path, error) {
	start, ok := snap.IndexOf(from)
	if !ok {
		return nil, fmt.Errorf("intersection %d: %w", from, graph.ErrNodeNotFound)
	}
	target, ok := snap.IndexOf(to)
	if !ok {
		return nil, fmt.Errorf("intersection %d: %w", to, graph.ErrNodeNotFound)
	}

	s := newSearch(snap, mult, true)
	if err := s.run(ctx, start, target); err != nil {
		return nil, err
	}
	for _, st := range s.steps {
		r.logger.Debug("relaxed route",
			"from", st.From, "to", st.To,
			"weight", st.Weight, "adjusted", st.Adjusted, "distance", st.Distance)
	}
	if math.IsInf(s.dist[target], 1) {
		return nil, ErrUnreachable
	}

	nodes, hops := s.path(target)
	return &Path{
		From:       from,
		To:         to,
		Hour:       hour,
		Multiplier: mult,
		Nodes:      nodes,
		Distance:   s.dist[target],
		Hops:       hops,
		Steps:      s.steps,
		Generation: snap.Generation(),
	}, nil
}

// Distances runs a full single-source search and returns the adjusted
// distance to every reachable intersection, including from itself.
func (r *Router) Distances(ctx context.Context, from graph.NodeID, hour int) (map[graph.NodeID]float64, error) {
	ctx, span := r.tracer.Start(ctx, "Router.Distances")
	defer span.End()
	start := time.Now()

	out, err := r.distances(ctx, from, hour)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.record(ctx, "distances", outcome(err), start)
		return nil, fmt.Errorf("distances from %d: %w", from, err)
	}
	r.metrics.record(ctx, "distances", "ok", start)
	return out, nil
}

func (r *Router) distances(ctx context.Context, from graph.NodeID, hour int) (map[graph.NodeID]float64, error) {
	mult, err := r.Multiplier(hour)
	if err != nil {
		return nil, err
	}
	snap := r.store.Snapshot()
	start, ok := snap.IndexOf(from)
	if !ok {
		return nil, fmt.Errorf("intersection %d: %w", from, graph.ErrNodeNotFound)
	}

	s := newSearch(snap, mult, false)
	if err := s.run(ctx, start, -1); err != nil {
		return nil, err
	}
	out := make(map[graph.NodeID]float64)
	for i, d := range s.dist {
		if !math.IsInf(d, 1) {
			out[snap.At(i).ID] = d
		}
	}
	return out, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, graph.ErrNodeNotFound):
		return "not_found"
	case errors.Is(err, graph.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
