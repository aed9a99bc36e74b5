package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/routing"
)

func capeTown(t *testing.T) *graph.MemoryStore {
	t.Helper()
	s := graph.NewMemoryStore()
	for id, name := range []string{"CapeTown_CBD", "Observatory", "Rondebosch", "Claremont"} {
		require.NoError(t, s.AddNode(graph.NodeID(id), name))
	}
	require.NoError(t, s.AddEdge(0, 1, 6))
	require.NoError(t, s.AddEdge(1, 2, 3))
	require.NoError(t, s.AddEdge(2, 3, 2))
	require.NoError(t, s.AddEdge(0, 3, 10))
	return s
}

func TestFormatDistance(t *testing.T) {
	cases := map[float64]string{
		15:      "15",
		13.5:    "13.5",
		1.25:    "1.25",
		0:       "0",
		10.0001: "10",
		2.005:   "2",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDistance(in), "FormatDistance(%v)", in)
	}
}

func TestNetworkGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Network(&buf, capeTown(t).Snapshot()))

	g := goldie.New(t)
	g.Assert(t, "network", buf.Bytes())
}

func TestPathExplainGolden(t *testing.T) {
	r, err := routing.NewRouter(capeTown(t))
	require.NoError(t, err)
	p, err := r.ShortestPath(context.Background(), 0, 3, 8)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Path(&buf, p, true))

	g := goldie.New(t)
	g.Assert(t, "path_explain", buf.Bytes())
}

func TestPathSummary(t *testing.T) {
	r, err := routing.NewRouter(capeTown(t))
	require.NoError(t, err)
	p, err := r.ShortestPath(context.Background(), 0, 3, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Path(&buf, p, false))
	assert.Equal(t, "0 -> 3 | Total adjusted distance: 10\n", buf.String())
}

func TestSortedNeighborsGolden(t *testing.T) {
	s := capeTown(t)
	require.NoError(t, s.AddEdge(0, 2, 1))
	n, err := s.Node(0)
	require.NoError(t, err)
	edges, err := s.SortedNeighbors(0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Neighbors(&buf, n, edges, true))

	g := goldie.New(t)
	g.Assert(t, "neighbors_sorted", buf.Bytes())
}

func TestNeighborsInsertionOrder(t *testing.T) {
	s := capeTown(t)
	n, err := s.Node(1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Neighbors(&buf, n, n.Edges, false))
	assert.Equal(t, "Neighbors of Observatory(1):\n[0,6] [2,3]\n", buf.String())
}

func TestImpactGolden(t *testing.T) {
	rep, err := capeTown(t).AnalyzeRemoval(1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Impact(&buf, rep))

	g := goldie.New(t)
	g.Assert(t, "impact", buf.Bytes())
}

func TestDirectRoute(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DirectRoute(&buf, routing.DirectRoute{From: 0, To: 1, Exists: true, Weight: 6}))
	require.NoError(t, DirectRoute(&buf, routing.DirectRoute{From: 1, To: 3}))
	assert.Equal(t, "Route exists: 0 -> 1 | Distance: 6\nRoute not found between 1 and 3\n", buf.String())
}

func TestComponents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Components(&buf, [][]graph.NodeID{{0, 1, 2}, {7}}))
	assert.Equal(t, "Component 1 (3): 0 1 2\nComponent 2 (1): 7\n", buf.String())
}

func TestMatrix(t *testing.T) {
	s := capeTown(t)
	require.NoError(t, s.AddNode(9, "Island"))
	r, err := routing.NewRouter(s)
	require.NoError(t, err)
	m, err := r.Matrix(context.Background(), []graph.NodeID{0, 3, 9}, 8)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Matrix(&buf, m))
	out := buf.String()
	assert.Contains(t, out, "hour 8 x1.5")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "-")
}

func TestExportCSVGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Entries(capeTown(t).Snapshot(), 8, 1.5)))

	g := goldie.New(t)
	g.Assert(t, "export_csv", buf.Bytes())
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Entries(capeTown(t).Snapshot(), 12, 1.2)))

	var items []ExportItem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 8)
	assert.Equal(t, "Observatory", items[0].ToName)
	assert.InDelta(t, 7.2, items[0].Adjusted, 1e-9)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWritePathJSON(t *testing.T) {
	r, err := routing.NewRouter(capeTown(t))
	require.NoError(t, err)
	p, err := r.ShortestPath(context.Background(), 0, 2, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePathJSON(&buf, p))

	var got routing.Path
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []graph.NodeID{0, 1, 2}, got.Nodes)
	assert.Equal(t, 9.0, got.Distance)
}
