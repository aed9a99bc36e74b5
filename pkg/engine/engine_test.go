package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherolroses/Transport/pkg/config"
	"github.com/Sherolroses/Transport/pkg/congestion"
	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/seed"
	"github.com/Sherolroses/Transport/pkg/storage"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Telemetry.Disabled = true
	return cfg
}

func newEngine(t *testing.T, opts ...Option) (*Engine, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	opts = append([]Option{
		WithConfig(testConfig()),
		WithLogger(NewLogger(&logs, slog.LevelDebug, true)),
	}, opts...)
	e, err := New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return e, &logs
}

func TestEngineInitialization(t *testing.T) {
	e, _ := newEngine(t)
	assert.NotNil(t, e.Logger)
	assert.NotNil(t, e.Router)
	assert.Equal(t, 4, e.Store.Len(), "default seed should be applied")
}

func TestSeedDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Seed.Disabled = true
	e, _ := newEngine(t, WithConfig(cfg))
	assert.Zero(t, e.Store.Len())
}

func TestSeedFromBlobStore(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewLocalStore(t.TempDir())
	require.NoError(t, blobs.Put(ctx, "net.yaml", []byte(`
intersections:
  - {id: 7, name: Muizenberg}
  - {id: 8, name: Kalk_Bay}
routes:
  - {from: 7, to: 8, distance: 4}
`)))

	cfg := testConfig()
	cfg.Seed.Location = "net.yaml"
	e, _ := newEngine(t, WithConfig(cfg), WithBlobStore(blobs))
	assert.Equal(t, 2, e.Store.Len())

	cfg.Seed.Location = "missing.yaml"
	_, err := New(ctx, WithConfig(cfg), WithBlobStore(blobs), WithLogger(slog.Default()))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOperationsEndToEnd(t *testing.T) {
	ctx := context.Background()
	e, logs := newEngine(t, WithSeed(seed.Default()))

	require.NoError(t, e.AddIntersection(ctx, 4, "Newlands"))
	require.NoError(t, e.AddRoute(ctx, 3, 4, 1))
	require.NoError(t, e.UpdateIntersection(ctx, 4, "Newlands_Station"))

	p, err := e.ShortestPath(ctx, 0, 4, 8)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{0, 3, 4}, p.Nodes)
	assert.Equal(t, 16.5, p.Distance)

	n, err := e.UpdateRoute(ctx, 0, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err = e.ShortestPath(ctx, 0, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{0, 1, 2, 3, 4}, p.Nodes)

	direct, err := e.SearchRoute(ctx, 3, 4)
	require.NoError(t, err)
	assert.True(t, direct.Exists)

	node, edges, err := e.SortedNeighbors(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Claremont", node.Name)
	assert.Equal(t, graph.Edge{To: 4, Weight: 1}, edges[0])

	rep, err := e.Impact(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{4}, rep.Isolated)

	pruned, err := e.RemoveIntersection(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, rep.Pruned, pruned)
	assert.Equal(t, [][]graph.NodeID{{0, 1, 2}, {4}}, e.Components(ctx))

	removed, err := e.RemoveRoute(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = e.ShortestPath(ctx, 0, 2, 0)
	assert.Error(t, err)

	// One JSON log line per operation, each with op and outcome.
	var ops []string
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if op, ok := rec["op"].(string); ok {
			ops = append(ops, op)
			assert.Contains(t, rec, "outcome")
		}
	}
	assert.Contains(t, ops, "add_intersection")
	assert.Contains(t, ops, "shortest_path")
	assert.Contains(t, ops, "remove_route")
}

func TestErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	e, logs := newEngine(t)

	assert.ErrorIs(t, e.AddIntersection(ctx, 0, "dup"), graph.ErrDuplicateNode)
	assert.ErrorIs(t, e.AddRoute(ctx, 0, 1, -3), graph.ErrInvalidInput)
	_, err := e.ShortestPath(ctx, 0, 3, 30)
	assert.ErrorIs(t, err, congestion.ErrInvalidHour)
	_, err = e.Neighbors(ctx, 99)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)

	assert.Contains(t, logs.String(), `"outcome":"error"`)
}

func TestRulesModelFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Congestion.Model = config.ModelRules
	cfg.Congestion.Default = 1
	cfg.Congestion.Rules = []congestion.Rule{{Name: "night", Condition: "hour < 5", Multiplier: 0.5}}
	e, _ := newEngine(t, WithConfig(cfg))

	p, err := e.ShortestPath(context.Background(), 0, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Distance)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewLocalStore(t.TempDir())
	e, _ := newEngine(t, WithBlobStore(blobs))

	n, err := e.Export(ctx, "csv", 8, "exports/net.csv")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	data, err := e.Fetch(ctx, "exports/net.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "From,FromName,To"))

	_, err = e.Export(ctx, "xml", 8, "exports/net.xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = e.Export(ctx, "json", 24, "exports/net.json")
	assert.ErrorIs(t, err, graph.ErrInvalidInput)
}

func TestRecoverPanic(t *testing.T) {
	e, _ := newEngine(t)
	err := e.observe(context.Background(), "boom", false, nil, func(context.Context) error {
		panic("kaboom")
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestRedactSensitiveData(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, false).Info("storage", "secret_key", "abc", "bucket", "routes")
	assert.Contains(t, buf.String(), "secret_key=[REDACTED]")
	assert.Contains(t, buf.String(), "bucket=routes")
}
