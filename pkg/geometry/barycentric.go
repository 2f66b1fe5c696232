package geometry

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// BarycentricCoords returns the weights w such that
//
//	x = w0*x1 + w1*x2 + w2*x3 + w3*x4,  w0+w1+w2+w3 = 1
//
// by solving the homogeneous 4x4 system. Coordinates are taken relative to x4
// before solving. ok is false when the tetrahedron is degenerate.
func BarycentricCoords(x, x1, x2, x3, x4 r3.Vec) (w [4]float64, ok bool) {
	d1, d2, d3 := r3.Sub(x1, x4), r3.Sub(x2, x4), r3.Sub(x3, x4)
	dx := r3.Sub(x, x4)

	a := mat.NewDense(4, 4, []float64{
		d1.X, d2.X, d3.X, 0,
		d1.Y, d2.Y, d3.Y, 0,
		d1.Z, d2.Z, d3.Z, 0,
		1, 1, 1, 1,
	})
	b := mat.NewVecDense(4, []float64{dx.X, dx.Y, dx.Z, 1})

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return w, false
	}
	for i := range w {
		w[i] = sol.AtVec(i)
	}
	return w, true
}

// MinWeight returns the index and value of the smallest weight.
func MinWeight(w [4]float64) (int, float64) {
	idx := 0
	for i := 1; i < 4; i++ {
		if w[i] < w[idx] {
			idx = i
		}
	}
	return idx, w[idx]
}
