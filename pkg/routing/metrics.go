package routing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	queries  metric.Int64Counter
	cacheHit metric.Int64Counter
	latency  metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	queries, err := meter.Int64Counter("smartroute.routing.queries",
		metric.WithDescription("Shortest-path queries by outcome."))
	if err != nil {
		return nil, err
	}
	cacheHit, err := meter.Int64Counter("smartroute.routing.cache_hits",
		metric.WithDescription("Shortest-path queries answered from the cache."))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("smartroute.routing.duration",
		metric.WithDescription("Shortest-path query latency."),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &metrics{queries: queries, cacheHit: cacheHit, latency: latency}, nil
}

func (m *metrics) record(ctx context.Context, op, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)
	m.queries.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
}
