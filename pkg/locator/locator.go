// Package locator provides an incremental bucketed point index answering the
// two questions the triangulator asks about already accepted points: "is this
// point already present" and "which accepted point is closest".
//
// The index is a uniform grid over a bounding box. Only non-empty buckets are
// stored, in a B-tree keyed by the linear bucket index, so memory follows the
// number of inserted points rather than the grid resolution. Points outside
// the box are clamped into the border buckets.
package locator

import (
	"math"

	"github.com/tidwall/btree"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultPointsPerBucket is the average bucket occupancy Init aims for.
const DefaultPointsPerBucket = 3

// maxDivisions bounds the grid resolution per axis.
const maxDivisions = 256

type entry struct {
	id  int
	pos r3.Vec
}

type bucket struct {
	key     int
	entries []entry
}

func bucketLess(a, b *bucket) bool { return a.key < b.key }

// Locator is a bucketed spatial index. It is not safe for concurrent use.
type Locator struct {
	bounds r3.Box
	divs   [3]int
	// width of a bucket along each axis
	h [3]float64

	buckets *btree.BTreeG[*bucket]
	count   int

	tol2 float64
}

// New returns a locator initialised for bounds; see Init.
func New(bounds r3.Box, estimatedPoints int) *Locator {
	l := &Locator{}
	l.Init(bounds, estimatedPoints)
	return l
}

// Init discards any content and sizes the grid so that estimatedPoints spread
// over bounds land about DefaultPointsPerBucket to a bucket.
func (l *Locator) Init(bounds r3.Box, estimatedPoints int) {
	l.bounds = bounds
	l.buckets = btree.NewBTreeG[*bucket](bucketLess)
	l.count = 0

	if estimatedPoints < 1 {
		estimatedPoints = 1
	}
	size := r3.Sub(bounds.Max, bounds.Min)
	ext := [3]float64{size.X, size.Y, size.Z}
	maxExt := math.Max(ext[0], math.Max(ext[1], ext[2]))

	numBuckets := float64(estimatedPoints) / DefaultPointsPerBucket
	// Target cube-shaped buckets: side s with prod(ext/s) = numBuckets.
	side := maxExt
	if vol := nonZeroVolume(ext, maxExt); vol > 0 && numBuckets > 1 {
		side = math.Cbrt(vol / numBuckets)
	}
	for i := range l.divs {
		d := 1
		if side > 0 && ext[i] > 0 {
			d = int(math.Ceil(ext[i] / side))
		}
		l.divs[i] = min(max(d, 1), maxDivisions)
		l.h[i] = ext[i] / float64(l.divs[i])
	}
}

// nonZeroVolume treats flat axes as having a small fraction of the largest
// extent, so planar or linear clouds still get a sensible grid.
func nonZeroVolume(ext [3]float64, maxExt float64) float64 {
	vol := 1.0
	for _, e := range ext {
		if e <= 0 {
			e = maxExt / maxDivisions
		}
		vol *= e
	}
	return vol
}

// SetTolerance sets the absolute distance under which IsInsertedPoint treats
// two points as coincident.
func (l *Locator) SetTolerance(tol float64) { l.tol2 = tol * tol }

// InsertPoint registers point id at x.
func (l *Locator) InsertPoint(id int, x r3.Vec) {
	key := l.key(l.cellOf(x))
	b, ok := l.buckets.Get(&bucket{key: key})
	if !ok {
		b = &bucket{key: key}
		l.buckets.Set(b)
	}
	b.entries = append(b.entries, entry{id: id, pos: x})
	l.count++
}

// IsInsertedPoint returns the id of an inserted point within the tolerance of
// x, scanning buckets in index order and points in insertion order.
func (l *Locator) IsInsertedPoint(x r3.Vec) (int, bool) {
	tol := math.Sqrt(l.tol2)
	lo := l.cellOf(r3.Sub(x, r3.Vec{X: tol, Y: tol, Z: tol}))
	hi := l.cellOf(r3.Add(x, r3.Vec{X: tol, Y: tol, Z: tol}))

	for k := lo[2]; k <= hi[2]; k++ {
		for j := lo[1]; j <= hi[1]; j++ {
			for i := lo[0]; i <= hi[0]; i++ {
				b, ok := l.buckets.Get(&bucket{key: l.key([3]int{i, j, k})})
				if !ok {
					continue
				}
				for _, e := range b.entries {
					if r3.Norm2(r3.Sub(e.pos, x)) <= l.tol2 {
						return e.id, true
					}
				}
			}
		}
	}
	return -1, false
}

// FindClosestInsertedPoint returns the inserted point nearest x and its
// squared distance. Buckets are searched in growing shells around the bucket
// of x until the next shell cannot hold anything closer. Clamped points may
// make the answer approximate, which is enough to seed a mesh walk.
func (l *Locator) FindClosestInsertedPoint(x r3.Vec) (int, float64, bool) {
	if l.count == 0 {
		return -1, 0, false
	}
	c := l.cellOf(x)
	maxLevel := max(l.divs[0], max(l.divs[1], l.divs[2]))

	best, bestD2 := -1, math.Inf(1)
	for level := 0; level <= maxLevel; level++ {
		if best >= 0 && l.shellDistance2(x, c, level) > bestD2 {
			break
		}
		l.visitShell(c, level, func(b *bucket) {
			for _, e := range b.entries {
				if d2 := r3.Norm2(r3.Sub(e.pos, x)); d2 < bestD2 {
					best, bestD2 = e.id, d2
				}
			}
		})
	}
	return best, bestD2, best >= 0
}

// shellDistance2 is a lower bound on the squared distance from x to any
// bucket of the given shell around c.
func (l *Locator) shellDistance2(x r3.Vec, c [3]int, level int) float64 {
	if level == 0 {
		return 0
	}
	xs := [3]float64{x.X, x.Y, x.Z}
	mins := [3]float64{l.bounds.Min.X, l.bounds.Min.Y, l.bounds.Min.Z}
	best := math.Inf(1)
	for i := 0; i < 3; i++ {
		// distance from x to the inner faces of the shell along axis i
		lo := mins[i] + float64(c[i]-level+1)*l.h[i]
		hi := mins[i] + float64(c[i]+level)*l.h[i]
		d := math.Min(xs[i]-lo, hi-xs[i])
		best = math.Min(best, math.Max(d, 0))
	}
	return best * best
}

// visitShell calls fn for every stored bucket at Chebyshev distance level
// from c.
func (l *Locator) visitShell(c [3]int, level int, fn func(*bucket)) {
	lo := [3]int{max(c[0]-level, 0), max(c[1]-level, 0), max(c[2]-level, 0)}
	hi := [3]int{
		min(c[0]+level, l.divs[0]-1),
		min(c[1]+level, l.divs[1]-1),
		min(c[2]+level, l.divs[2]-1),
	}
	for k := lo[2]; k <= hi[2]; k++ {
		for j := lo[1]; j <= hi[1]; j++ {
			for i := lo[0]; i <= hi[0]; i++ {
				if chebyshev([3]int{i, j, k}, c) != level {
					continue
				}
				if b, ok := l.buckets.Get(&bucket{key: l.key([3]int{i, j, k})}); ok {
					fn(b)
				}
			}
		}
	}
}

func chebyshev(a, b [3]int) int {
	d := 0
	for i := range a {
		v := a[i] - b[i]
		if v < 0 {
			v = -v
		}
		d = max(d, v)
	}
	return d
}

// cellOf returns the clamped grid coordinates of x.
func (l *Locator) cellOf(x r3.Vec) [3]int {
	xs := [3]float64{x.X, x.Y, x.Z}
	mins := [3]float64{l.bounds.Min.X, l.bounds.Min.Y, l.bounds.Min.Z}
	var c [3]int
	for i := range c {
		if l.h[i] > 0 {
			c[i] = int(math.Floor((xs[i] - mins[i]) / l.h[i]))
		}
		c[i] = min(max(c[i], 0), l.divs[i]-1)
	}
	return c
}

func (l *Locator) key(c [3]int) int {
	return c[0] + l.divs[0]*(c[1]+l.divs[1]*c[2])
}
