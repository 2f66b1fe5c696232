package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r3"
)

// collinearEps is the relative size below which a cross product is treated as
// zero, i.e. the vertex triple that produced it is collinear.
const collinearEps = 1e-12

// ComputeNormal returns the unit normal of a polygon from the first vertex
// triple (i, i+1, i+2) that is not collinear. The zero vector is returned
// when every triple is collinear or fewer than three points are given.
func ComputeNormal(pts []r3.Vec) r3.Vec {
	for i := 0; i+2 < len(pts); i++ {
		if n, ok := triangleNormal(pts[i], pts[i+1], pts[i+2]); ok {
			return n
		}
	}
	return r3.Vec{}
}

// triangleNormal follows the right hand rule over (v1, v2, v3).
func triangleNormal(v1, v2, v3 r3.Vec) (r3.Vec, bool) {
	a := r3.Sub(v3, v2)
	b := r3.Sub(v1, v2)
	n := r3.Cross(a, b)
	length := r3.Norm(n)
	if length == 0 || length <= collinearEps*r3.Norm(a)*r3.Norm(b) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/length, n), true
}

// ProjectTo2D maps a triangle into its own plane: p1 lands on the origin and
// p2 on the positive x axis. Lengths and angles are preserved, so circumcircle
// radii computed on the result match the 3-D ones. ok is false for a
// degenerate triangle.
func ProjectTo2D(p1, p2, p3 r3.Vec) (out [3]orb.Point, ok bool) {
	n, ok := triangleNormal(p1, p2, p3)
	if !ok {
		return out, false
	}
	xAxis := r3.Sub(p2, p1)
	length := r3.Norm(xAxis)
	if length == 0 {
		return out, false
	}
	xAxis = r3.Scale(1/length, xAxis)
	yAxis := r3.Cross(n, xAxis)

	d := r3.Sub(p3, p1)
	out[0] = orb.Point{0, 0}
	out[1] = orb.Point{length, 0}
	out[2] = orb.Point{r3.Dot(d, xAxis), r3.Dot(d, yAxis)}
	return out, true
}

// Bounds returns the axis aligned bounding box of pts. An empty slice yields
// the zero box.
func Bounds(pts []r3.Vec) r3.Box {
	if len(pts) == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = ExtendBounds(b, p)
	}
	return b
}

// ExtendBounds grows b so that it contains p.
func ExtendBounds(b r3.Box, p r3.Vec) r3.Box {
	b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	return b
}

// Diagonal returns the length of the box diagonal.
func Diagonal(b r3.Box) float64 {
	return r3.Norm(r3.Sub(b.Max, b.Min))
}

// InBounds reports whether p lies inside b, faces included.
func InBounds(b r3.Box, p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
