// Package engine owns the transport network and exposes every network
// operation with logging, tracing and metrics around it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sherolroses/Transport/pkg/config"
	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/routing"
	"github.com/Sherolroses/Transport/pkg/seed"
	"github.com/Sherolroses/Transport/pkg/storage"
	"github.com/Sherolroses/Transport/pkg/telemetry"
	"github.com/Sherolroses/Transport/pkg/version"
)

// ErrInternal wraps a recovered panic.
var ErrInternal = errors.New("engine: internal failure")

// Engine is the runtime core.
type Engine struct {
	Store  graph.Store
	Router *routing.Router
	Logger *slog.Logger
	Tracer trace.Tracer

	config    config.Config
	loggerSet bool
	seed      *seed.Network
	blobs     storage.BlobStore
	ops       metric.Int64Counter
	shutdown  func(context.Context) error
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New builds the store, router and telemetry, then applies the seed.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		Store:  graph.NewMemoryStore(),
		Tracer: telemetry.Tracer("smartroute/engine"),
		config: config.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if !e.loggerSet {
		lvl, err := e.config.SlogLevel()
		if err != nil {
			return nil, err
		}
		e.Logger = NewLogger(os.Stderr, lvl, e.config.Log.JSON)
	}

	if !e.config.Telemetry.Disabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Options{
			ServiceName:    version.AppName,
			ServiceVersion: version.Current,
			Endpoint:       e.config.Telemetry.Endpoint,
		})
		if err != nil {
			e.Logger.Warn("Telemetry failed", "error", err)
		} else {
			e.shutdown = shutdown
		}
	}

	ops, err := telemetry.Meter("smartroute/engine").Int64Counter("smartroute.engine.operations",
		metric.WithDescription("Network operations by name and outcome."))
	if err != nil {
		return nil, fmt.Errorf("engine metrics: %w", err)
	}
	e.ops = ops

	model, err := BuildModel(e.config.Congestion)
	if err != nil {
		return nil, err
	}
	e.Router, err = routing.NewRouter(e.Store,
		routing.WithModel(model),
		routing.WithCacheSize(e.config.Routing.CacheSize),
		routing.WithWorkers(e.config.Routing.Workers),
		routing.WithLogger(e.Logger),
	)
	if err != nil {
		return nil, err
	}

	if err := e.applySeed(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// WithConfig sets the configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithLogger sets the logger, overriding the configured one.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.Logger = l
		e.loggerSet = true
	}
}

// WithStore replaces the in-memory store.
func WithStore(s graph.Store) Option {
	return func(e *Engine) {
		e.Store = s
	}
}

// WithSeed sets the initial network, overriding seed.location.
func WithSeed(n *seed.Network) Option {
	return func(e *Engine) {
		e.seed = n
	}
}

// WithBlobStore resolves seed.location and export keys against b instead
// of parsing them as locations.
func WithBlobStore(b storage.BlobStore) Option {
	return func(e *Engine) {
		e.blobs = b
	}
}

// Config returns the active configuration.
func (e *Engine) Config() config.Config { return e.config }

// Close flushes telemetry.
func (e *Engine) Close(ctx context.Context) error {
	if e.shutdown == nil {
		return nil
	}
	return e.shutdown(ctx)
}

func (e *Engine) applySeed(ctx context.Context) error {
	if e.config.Seed.Disabled && e.seed == nil {
		return nil
	}

	net := e.seed
	source := "inline"
	if net == nil && e.config.Seed.Location != "" {
		loaded, err := e.loadSeed(ctx, e.config.Seed.Location)
		if err != nil {
			return err
		}
		net, source = loaded, e.config.Seed.Location
	}
	if net == nil {
		net, source = seed.Default(), "default"
	}

	if err := net.Apply(e.Store); err != nil {
		e.Logger.Warn("Seed applied with errors", "source", source, "error", err)
	}
	e.Logger.Info("Seed applied", "source", source,
		"intersections", len(net.Intersections), "routes", len(net.Routes))
	return nil
}

func (e *Engine) loadSeed(ctx context.Context, location string) (*seed.Network, error) {
	blobs, key, err := e.resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	data, err := blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	return seed.Parse(key, data)
}

// resolve maps a location to a blob store and key.
func (e *Engine) resolve(ctx context.Context, location string) (storage.BlobStore, string, error) {
	if e.blobs != nil {
		return e.blobs, location, nil
	}
	return storage.Open(ctx, location, storage.S3Options{
		Endpoint:  e.config.Storage.S3Endpoint,
		PathStyle: e.config.Storage.S3PathStyle,
	})
}

// observe runs fn inside a span, logs one line and counts the outcome.
// Mutations log at info, queries at debug; failures log at warn.
func (e *Engine) observe(ctx context.Context, op string, mutation bool, attrs []attribute.KeyValue, fn func(context.Context) error) (err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine."+op, trace.WithAttributes(attrs...))
	defer span.End()
	defer e.recoverPanic(ctx, op, &err)

	err = fn(ctx)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))

	args := make([]any, 0, 2*len(attrs)+4)
	args = append(args, "op", op)
	for _, kv := range attrs {
		args = append(args, string(kv.Key), kv.Value.AsInterface())
	}
	args = append(args, "outcome", outcome)

	switch {
	case err != nil:
		e.Logger.Warn("Operation failed", append(args, "error", err)...)
	case mutation:
		e.Logger.Info("Network updated", args...)
	default:
		e.Logger.Debug("Query served", args...)
	}
	return err
}

// recoverPanic turns a panic into ErrInternal.
func (e *Engine) recoverPanic(ctx context.Context, op string, errp *error) {
	if r := recover(); r != nil {
		stack := debug.Stack()
		span := trace.SpanFromContext(ctx)
		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "CRITICAL FAILURE")
		span.SetAttributes(attribute.String("crash.reason", fmt.Sprintf("%v", r)))

		e.Logger.Error("CRITICAL FAILURE", "op", op, "error", r, "stack", string(stack))
		*errp = fmt.Errorf("%s: %v: %w", op, r, ErrInternal)
	}
}
