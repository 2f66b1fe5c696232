package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Points is a read-only, index addressable sequence of 3-D coordinates owned by
// the caller.
type Points interface {
	Len() int
	Point(i int) r3.Vec
}

// PointSlice adapts a slice of vectors to Points.
type PointSlice []r3.Vec

// Len returns the number of points.
func (s PointSlice) Len() int { return len(s) }

// Point returns the i-th point.
func (s PointSlice) Point(i int) r3.Vec { return s[i] }

// Extended is a Points view of a base sequence followed by extra points. The
// base is borrowed and never copied.
type Extended struct {
	Base  Points
	Extra []r3.Vec
}

// Len returns the total number of points.
func (e Extended) Len() int { return e.Base.Len() + len(e.Extra) }

// Point returns the i-th point, reading the extra points past the base.
func (e Extended) Point(i int) r3.Vec {
	if n := e.Base.Len(); i >= n {
		return e.Extra[i-n]
	}
	return e.Base.Point(i)
}

// CellSink receives output cells.
type CellSink interface {
	InsertNextCell(t CellType, ids []int) int
}
