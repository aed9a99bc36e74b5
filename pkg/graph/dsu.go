package graph

// UnionFind is a disjoint-set forest over insertion indexes.
// It is not safe for concurrent use.
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind initializes n singleton sets.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	rank := make([]int, n)
	for i := 0; i < n; i++ {
		parent[i] = i
	}
	return &UnionFind{parent: parent, rank: rank}
}

// Find returns the set representative, or -1 for an unknown index.
func (uf *UnionFind) Find(i int) int {
	if i < 0 || i >= len(uf.parent) {
		return -1
	}
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

// Union merges the sets of i and j.
func (uf *UnionFind) Union(i, j int) {
	rootI := uf.Find(i)
	rootJ := uf.Find(j)
	if rootI == -1 || rootJ == -1 || rootI == rootJ {
		return
	}

	// Union by rank
	switch {
	case uf.rank[rootI] < uf.rank[rootJ]:
		uf.parent[rootI] = rootJ
	case uf.rank[rootI] > uf.rank[rootJ]:
		uf.parent[rootJ] = rootI
	default:
		uf.parent[rootJ] = rootI
		uf.rank[rootI]++
	}
}

// Connected reports whether i and j share a set.
func (uf *UnionFind) Connected(i, j int) bool {
	ri := uf.Find(i)
	return ri != -1 && ri == uf.Find(j)
}
