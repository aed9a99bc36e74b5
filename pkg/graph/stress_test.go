package graph

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Build a large random network, then remove half of it while readers take
// snapshots. Every snapshot must be internally consistent.
func TestStoreChaos(t *testing.T) {
	s := NewMemoryStore()
	nodeCount := 5000
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < nodeCount; i++ {
		require.NoError(t, s.AddNode(NodeID(i), "n"))
		if i > 0 {
			require.NoError(t, s.AddEdge(NodeID(i), NodeID(rng.Intn(i)), rng.Intn(50)))
		}
		if i > 100 && i%100 == 0 {
			require.NoError(t, s.AddEdge(NodeID(i-100), NodeID(i), 1))
		}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				assertConsistent(t, s.Snapshot())
			}
		}()
	}

	finished := make(chan struct{})
	go func() {
		for i := 0; i < nodeCount; i += 2 {
			_, _ = s.RemoveNode(NodeID(i))
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(20 * time.Second):
		t.Fatal("removal cascade did not finish")
	}
	close(done)
	wg.Wait()

	assert.Equal(t, nodeCount/2, s.Len())
	assertConsistent(t, s.Snapshot())
}

func FuzzStoreInvariants(f *testing.F) {
	f.Add([]byte{0x1, 0x2, 0x3, 0x4})
	f.Add([]byte("add-remove-update"))

	f.Fuzz(func(t *testing.T, data []byte) {
		s := NewMemoryStore()
		for i := 0; i+2 < len(data); i += 3 {
			a, b, w := NodeID(data[i]%8), NodeID(data[i+1]%8), int(data[i+2])-32
			switch data[i] % 5 {
			case 0:
				_ = s.AddNode(a, "n")
			case 1:
				before := s.Snapshot()
				if err := s.AddEdge(a, b, w); err != nil {
					assert.Equal(t, before.Stats(), s.Stats(), "failed AddEdge must not mutate")
				}
			case 2:
				_, _ = s.UpdateEdge(a, b, w)
			case 3:
				_, _ = s.RemoveEdge(a, b)
			case 4:
				_, _ = s.RemoveNode(a)
			}
		}
		assertConsistent(t, s.Snapshot())
	})
}

// assertConsistent checks that no entry dangles, no weight is negative and
// both directions of a pair carry the same number of entries.
func assertConsistent(t *testing.T, snap *Snapshot) {
	t.Helper()
	for _, n := range snap.Nodes() {
		for _, e := range n.Edges {
			if !snap.Has(e.To) {
				t.Errorf("dangling entry %d -> %d", n.ID, e.To)
			}
			if e.Weight < 0 {
				t.Errorf("negative weight on %d -> %d", n.ID, e.To)
			}
		}
	}
	for _, n := range snap.Nodes() {
		for _, e := range n.Edges {
			if e.To == n.ID {
				continue
			}
			other, _ := snap.Node(e.To)
			if countTo(n, e.To) != countTo(other, n.ID) {
				t.Errorf("asymmetric routes between %d and %d", n.ID, e.To)
			}
		}
	}
}

func countTo(n Node, to NodeID) int {
	c := 0
	for _, e := range n.Edges {
		if e.To == to {
			c++
		}
	}
	return c
}
