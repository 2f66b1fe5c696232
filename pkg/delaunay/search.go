package delaunay

import (
	"math"

	"github.com/sanonone/tetramesh/pkg/geometry"
	"github.com/sanonone/tetramesh/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// baryTol is the barycentric weight magnitude treated as zero: a point with a
// weight in [-baryTol, baryTol] lies on the opposite face.
const baryTol = 1e-9

// faceOpposite returns the three point ids of cell c other than vertex j.
func faceOpposite(c mesh.Cell, j int) [3]int {
	var f [3]int
	k := 0
	for i := 0; i < 4; i++ {
		if i != j {
			f[k] = c.Points[i]
			k++
		}
	}
	return f
}

// locate finds a live tetrahedron containing x. The cells around the nearest
// accepted point are tried first, then a face-to-face walk runs from the last
// created tetrahedron, and as a last resort every live cell is scanned.
func (t *Triangulator) locate(x r3.Vec, nearest int) (int, [4]float64, bool) {
	candidates := t.mesh.CellsOfPoint(nearest)
	for _, c := range candidates {
		if w, ok := t.bary(x, c); ok {
			if _, mw := geometry.MinWeight(w); mw >= -baryTol {
				return c, w, true
			}
		}
	}

	start := -1
	if t.alive.Has(t.lastTetra) {
		start = t.lastTetra
	} else if len(candidates) > 0 {
		start = candidates[0]
	}
	if start >= 0 {
		if c, w, ok := t.walk(x, start); ok {
			return c, w, true
		}
	}

	t.stats.ScanFallbacks++
	return t.scan(x)
}

// walk moves across the face opposite the most negative barycentric weight
// until the weights are all non-negative. It gives up on a singular
// tetrahedron, at the mesh boundary, or after visiting as many cells as the
// mesh holds.
func (t *Triangulator) walk(x r3.Vec, cur int) (int, [4]float64, bool) {
	for steps := t.mesh.NumberOfCells(); steps > 0; steps-- {
		w, ok := t.bary(x, cur)
		if !ok {
			break
		}
		j, mw := geometry.MinWeight(w)
		if mw >= -baryTol {
			return cur, w, true
		}
		face := faceOpposite(t.mesh.Cell(cur), j)
		t.nbrs = t.mesh.GetCellNeighbors(cur, face[:], t.nbrs[:0])
		if len(t.nbrs) == 0 {
			break
		}
		cur = t.nbrs[0]
	}
	return -1, [4]float64{}, false
}

// scan returns the live tetrahedron whose smallest barycentric weight for x
// is largest.
func (t *Triangulator) scan(x r3.Vec) (int, [4]float64, bool) {
	best, bestMin := -1, math.Inf(-1)
	var bestW [4]float64
	for id := 0; id < t.mesh.NumberOfCells(); id++ {
		if !t.alive.Has(id) {
			continue
		}
		w, ok := t.bary(x, id)
		if !ok {
			continue
		}
		if _, mw := geometry.MinWeight(w); mw > bestMin {
			best, bestMin, bestW = id, mw, w
		}
	}
	return best, bestW, best >= 0
}
