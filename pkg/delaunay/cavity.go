package delaunay

import (
	"math"

	"github.com/sanonone/tetramesh/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func (t *Triangulator) mark(id int) {
	if id >= len(t.stamp) {
		stamp := make([]int, max(id+1, 2*len(t.stamp)))
		copy(stamp, t.stamp)
		t.stamp = stamp
	}
	t.stamp[id] = t.epoch
}

func (t *Triangulator) marked(id int) bool {
	return id < len(t.stamp) && t.stamp[id] == t.epoch
}

// enclose collects the cavity of x starting from the containing tetrahedron
// and records its boundary faces. When x sits on a face or an edge of tetra,
// the cells across it join the cavity directly. It returns false when x
// coincides with a vertex.
func (t *Triangulator) enclose(x r3.Vec, tetra int, w [4]float64) bool {
	t.epoch++
	t.cavity = append(t.cavity[:0], tetra)
	t.faces = t.faces[:0]
	t.mark(tetra)

	cell := t.mesh.Cell(tetra)
	var zero, keep []int
	for i := 0; i < 4; i++ {
		if math.Abs(w[i]) <= baryTol {
			zero = append(zero, i)
		} else {
			keep = append(keep, cell.Points[i])
		}
	}

	switch len(zero) {
	case 0:
	case 1:
		face := faceOpposite(cell, zero[0])
		t.nbrs = t.mesh.GetCellNeighbors(tetra, face[:], t.nbrs[:0])
		if len(t.nbrs) > 0 {
			t.addToCavity(t.nbrs[0])
		}
	case 2:
		// keep holds the edge x lies on; every cell around it encloses x.
		t.nbrs = t.mesh.GetCellNeighbors(tetra, keep, t.nbrs[:0])
		for _, c := range t.nbrs {
			if !t.marked(c) {
				t.addToCavity(c)
			}
		}
	default:
		return false
	}

	for i := 0; i < len(t.cavity); i++ {
		id := t.cavity[i]
		c := t.mesh.Cell(id)
		for j := 0; j < 4; j++ {
			face := faceOpposite(c, j)
			t.nbrs = t.mesh.GetCellNeighbors(id, face[:], t.nbrs[:0])
			if len(t.nbrs) == 0 {
				t.faces = append(t.faces, face)
				continue
			}
			nei := t.nbrs[0]
			if t.marked(nei) {
				continue
			}
			if t.inSphere(x, nei) {
				t.addToCavity(nei)
				continue
			}
			t.faces = append(t.faces, face)
		}
	}
	return true
}

func (t *Triangulator) addToCavity(id int) {
	t.mark(id)
	t.cavity = append(t.cavity, id)
}

// retriangulate replaces the cavity by the star of id over the boundary
// faces. Freed slots are reused before the mesh grows; links and cached
// spheres change together with the cells.
func (t *Triangulator) retriangulate(id int) {
	for _, c := range t.cavity {
		for _, p := range t.mesh.Cell(c).IDs() {
			t.mesh.RemoveReferenceToCell(p, c)
		}
		t.alive.Remove(c)
		t.free = append(t.free, c)
	}

	for _, f := range t.faces {
		ids := []int{id, f[0], f[1], f[2]}
		c := -1
		if n := len(t.free); n > 0 {
			c = t.free[n-1]
			t.free = t.free[:n-1]
			if err := t.mesh.ReplaceCell(c, ids); err != nil {
				c = -1
			}
		}
		if c < 0 {
			c = t.mesh.InsertNextCell(mesh.Tetra, ids)
			t.spheres = append(t.spheres, sphere{})
		}
		for _, p := range ids {
			t.mesh.AddReferenceToCell(p, c)
		}
		t.alive.Add(c)
		t.setSphere(c)
		t.lastTetra = c
	}
}
