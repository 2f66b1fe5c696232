package mesh

import "github.com/tidwall/btree"

// edgeKey is an unordered point pair stored with lo <= hi.
type edgeKey struct {
	lo, hi int
}

func edgeKeyLess(a, b edgeKey) bool {
	if a.lo != b.lo {
		return a.lo < b.lo
	}
	return a.hi < b.hi
}

func newEdgeKey(p1, p2 int) edgeKey {
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	return edgeKey{lo: p1, hi: p2}
}

// EdgeTable is a deduplicating set of unordered point pairs. It iterates in
// ascending (lo, hi) order.
type EdgeTable struct {
	tree *btree.BTreeG[edgeKey]
}

// NewEdgeTable returns an empty table.
func NewEdgeTable() *EdgeTable {
	return &EdgeTable{tree: btree.NewBTreeG[edgeKey](edgeKeyLess)}
}

// InsertEdge adds the edge (p1, p2) and reports whether it was new.
func (t *EdgeTable) InsertEdge(p1, p2 int) bool {
	_, replaced := t.tree.Set(newEdgeKey(p1, p2))
	return !replaced
}

// IsEdge reports whether (p1, p2), in either order, is in the table.
func (t *EdgeTable) IsEdge(p1, p2 int) bool {
	_, ok := t.tree.Get(newEdgeKey(p1, p2))
	return ok
}

// Len returns the number of distinct edges.
func (t *EdgeTable) Len() int { return t.tree.Len() }

// Scan calls fn for every edge in order until fn returns false.
func (t *EdgeTable) Scan(fn func(p1, p2 int) bool) {
	t.tree.Scan(func(k edgeKey) bool {
		return fn(k.lo, k.hi)
	})
}
