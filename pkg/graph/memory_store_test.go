package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds the four-intersection Cape Town network.
func sample(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	require.NoError(t, s.AddNode(0, "CapeTown_CBD"))
	require.NoError(t, s.AddNode(1, "Observatory"))
	require.NoError(t, s.AddNode(2, "Rondebosch"))
	require.NoError(t, s.AddNode(3, "Claremont"))
	require.NoError(t, s.AddEdge(0, 1, 6))
	require.NoError(t, s.AddEdge(1, 2, 3))
	require.NoError(t, s.AddEdge(2, 3, 2))
	require.NoError(t, s.AddEdge(0, 3, 10))
	return s
}

func TestAddNodeDuplicate(t *testing.T) {
	s := sample(t)
	gen := s.Generation()

	err := s.AddNode(0, "Other")
	require.ErrorIs(t, err, ErrDuplicateNode)

	n, err := s.Node(0)
	require.NoError(t, err)
	assert.Equal(t, "CapeTown_CBD", n.Name)
	assert.Equal(t, gen, s.Generation())
}

func TestUpdateNode(t *testing.T) {
	s := sample(t)
	require.NoError(t, s.UpdateNode(1, "Obs"))

	n, err := s.Node(1)
	require.NoError(t, err)
	assert.Equal(t, "Obs", n.Name)
	assert.Equal(t, "Obs(1)", n.Label())

	assert.ErrorIs(t, s.UpdateNode(9, "x"), ErrNodeNotFound)
}

func TestAddEdgeAppendsBothDirections(t *testing.T) {
	s := sample(t)

	out, err := s.Neighbors(0)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{To: 1, Weight: 6}, {To: 3, Weight: 10}}, out)

	in, err := s.Neighbors(3)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{To: 2, Weight: 2}, {To: 0, Weight: 10}}, in)
}

func TestAddEdgeRejects(t *testing.T) {
	s := sample(t)
	before := s.Snapshot().Stats()

	assert.ErrorIs(t, s.AddEdge(0, 1, -1), ErrInvalidInput)
	assert.ErrorIs(t, s.AddEdge(0, 7, 1), ErrNodeNotFound)
	assert.ErrorIs(t, s.AddEdge(7, 0, 1), ErrNodeNotFound)
	assert.Equal(t, before, s.Stats())
}

func TestParallelEdgesKept(t *testing.T) {
	s := sample(t)
	require.NoError(t, s.AddEdge(0, 1, 4))

	out, err := s.Neighbors(0)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{To: 1, Weight: 6}, {To: 3, Weight: 10}, {To: 1, Weight: 4}}, out)

	// FindEdge returns the first entry only.
	e, err := s.FindEdge(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, e.Weight)
}

func TestUpdateEdge(t *testing.T) {
	s := sample(t)
	require.NoError(t, s.AddEdge(0, 1, 4))

	n, err := s.UpdateEdge(1, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, id := range []NodeID{0, 1} {
		edges, err := s.Neighbors(id)
		require.NoError(t, err)
		for _, e := range edges {
			if e.To == 0 || e.To == 1 {
				assert.Equal(t, 7, e.Weight)
			}
		}
	}
}

func TestUpdateEdgeNoMatchIsNoop(t *testing.T) {
	s := sample(t)
	gen := s.Generation()

	n, err := s.UpdateEdge(1, 3, 5)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, gen, s.Generation())

	_, err = s.UpdateEdge(1, 9, 5)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = s.UpdateEdge(0, 1, -5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveEdge(t *testing.T) {
	s := sample(t)
	require.NoError(t, s.AddEdge(0, 1, 4))

	n, err := s.RemoveEdge(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = s.FindEdge(0, 1)
	assert.ErrorIs(t, err, ErrRouteNotFound)
	_, err = s.FindEdge(1, 0)
	assert.ErrorIs(t, err, ErrRouteNotFound)

	n, err = s.RemoveEdge(1, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.RemoveEdge(1, 42)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemoveNodeCascades(t *testing.T) {
	s := sample(t)

	pruned, err := s.RemoveNode(3)
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)
	assert.False(t, s.HasNode(3))
	assert.Equal(t, 3, s.Len())

	for _, id := range []NodeID{0, 1, 2} {
		edges, err := s.Neighbors(id)
		require.NoError(t, err)
		for _, e := range edges {
			assert.NotEqual(t, NodeID(3), e.To)
		}
	}

	_, err = s.RemoveNode(3)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	// Re-adding the id starts with an empty list.
	require.NoError(t, s.AddNode(3, "Claremont"))
	edges, err := s.Neighbors(3)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestRemoveNodeKeepsInsertionOrder(t *testing.T) {
	s := sample(t)
	_, err := s.RemoveNode(1)
	require.NoError(t, err)

	snap := s.Snapshot()
	var ids []NodeID
	for _, n := range snap.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []NodeID{0, 2, 3}, ids)

	idx, ok := snap.IndexOf(3)
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestSortedNeighborsStable(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AddNode(NodeID(i), "n"))
	}
	require.NoError(t, s.AddEdge(0, 1, 5))
	require.NoError(t, s.AddEdge(0, 2, 3))
	require.NoError(t, s.AddEdge(0, 3, 5))
	require.NoError(t, s.AddEdge(0, 4, 1))

	sorted, err := s.SortedNeighbors(0)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{4, 1}, {2, 3}, {1, 5}, {3, 5}}, sorted)

	// The stored order is untouched.
	raw, err := s.Neighbors(0)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{1, 5}, {2, 3}, {3, 5}, {4, 1}}, raw)

	_, err = s.SortedNeighbors(9)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestFindEdgeErrors(t *testing.T) {
	s := sample(t)

	_, err := s.FindEdge(9, 0)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = s.FindEdge(1, 3)
	assert.ErrorIs(t, err, ErrRouteNotFound)

	// A missing destination simply has no route.
	_, err = s.FindEdge(1, 9)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestSnapshotIsolation(t *testing.T) {
	s := sample(t)
	snap := s.Snapshot()
	gen := snap.Generation()

	require.NoError(t, s.AddEdge(1, 3, 1))
	assert.Greater(t, s.Generation(), gen)

	n, ok := snap.Node(1)
	require.True(t, ok)
	assert.Len(t, n.Edges, 2)

	out, err := s.Neighbors(1)
	require.NoError(t, err)
	out[0].Weight = 999
	again, err := s.Neighbors(1)
	require.NoError(t, err)
	assert.Equal(t, 6, again[0].Weight)
}
