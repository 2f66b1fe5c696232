package mesh

// BitSet is a growable set of non-negative ints.
type BitSet struct {
	buckets []uint64
}

// NewBitSet returns a set sized for values below initialCapacity.
func NewBitSet(initialCapacity int) *BitSet {
	return &BitSet{buckets: make([]uint64, (initialCapacity>>6)+1)}
}

func (bs *BitSet) grow(n int) {
	needed := (n >> 6) + 1
	if len(bs.buckets) < needed {
		buckets := make([]uint64, needed)
		copy(buckets, bs.buckets)
		bs.buckets = buckets
	}
}

// Add inserts n.
func (bs *BitSet) Add(n int) {
	bucket := n >> 6
	if bucket >= len(bs.buckets) {
		bs.grow(n)
	}
	bs.buckets[bucket] |= 1 << (uint(n) & 63)
}

// Remove deletes n.
func (bs *BitSet) Remove(n int) {
	bucket := n >> 6
	if bucket < len(bs.buckets) {
		bs.buckets[bucket] &^= 1 << (uint(n) & 63)
	}
}

// Has reports whether n is in the set.
func (bs *BitSet) Has(n int) bool {
	bucket := n >> 6
	if n < 0 || bucket >= len(bs.buckets) {
		return false
	}
	return bs.buckets[bucket]&(1<<(uint(n)&63)) != 0
}

// Clear empties the set, keeping its storage.
func (bs *BitSet) Clear() {
	for i := range bs.buckets {
		bs.buckets[i] = 0
	}
}
