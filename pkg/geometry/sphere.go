// Package geometry provides the numeric predicates used to build and filter
// 3-D Delaunay tetrahedralizations.
//
// This file holds the circumscribing sphere and circle solvers. Both set up the
// perpendicular-bisector equations of the simplex edges incident to the first
// vertex and solve them with gonum's dense linear algebra. A singular system
// (coplanar or collinear input) never produces an error: the solvers return a
// zero center and an infinite squared radius, which callers test with
// IsDegenerate.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateRadius2 is the squared radius reported for a singular system.
var degenerateRadius2 = math.Inf(1)

// IsDegenerate reports whether a squared radius returned by Circumsphere or
// Circumcircle is the "no finite solution" sentinel.
func IsDegenerate(radius2 float64) bool {
	return math.IsInf(radius2, 1) || math.IsNaN(radius2)
}

// Circumsphere returns the center and squared radius of the sphere through
// the four points. The system is solved relative to p1 so that the matrix only
// holds edge vectors, which keeps its conditioning independent of where the
// tetrahedron sits in space.
func Circumsphere(p1, p2, p3, p4 r3.Vec) (r3.Vec, float64) {
	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	for i, p := range [3]r3.Vec{p2, p3, p4} {
		d := r3.Sub(p, p1)
		a.SetRow(i, []float64{d.X, d.Y, d.Z})
		b.SetVec(i, 0.5*r3.Norm2(d))
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return r3.Vec{}, degenerateRadius2
	}

	rel := r3.Vec{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
	return r3.Add(p1, rel), r3.Norm2(rel)
}

// Circumcircle returns the center and squared radius of the circle through
// three planar points.
func Circumcircle(p1, p2, p3 orb.Point) (orb.Point, float64) {
	a := mat.NewDense(2, 2, nil)
	b := mat.NewVecDense(2, nil)
	for i, p := range [2]orb.Point{p2, p3} {
		dx, dy := p[0]-p1[0], p[1]-p1[1]
		a.SetRow(i, []float64{dx, dy})
		b.SetVec(i, 0.5*(dx*dx+dy*dy))
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return orb.Point{}, degenerateRadius2
	}

	cx, cy := x.AtVec(0), x.AtVec(1)
	return orb.Point{p1[0] + cx, p1[1] + cy}, cx*cx + cy*cy
}

// InSphere reports whether x lies strictly inside the sphere (center,
// radius2). The squared radius is shrunk by a relative 1e-9 so that points
// sitting on the sphere, up to round-off, count as outside. The slack must
// stay well below any real separation: spheres of very different size that
// share a face have to agree on points near that face's circle. Degenerate
// spheres never contain anything.
func InSphere(x, center r3.Vec, radius2 float64) bool {
	if IsDegenerate(radius2) {
		return false
	}
	return r3.Norm2(r3.Sub(x, center)) < inSphereFactor*radius2
}

const inSphereFactor = 0.999999999
