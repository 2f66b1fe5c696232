// Package alphashape extracts the alpha complex of a finished Delaunay
// tetrahedralization.
//
// Tetrahedra whose circumsphere fits inside alpha are kept whole. The
// remaining tetrahedra are broken down: their faces survive as triangles when
// the face circumcircle fits, their edges as lines when half the edge length
// fits, and every point left uncovered becomes a vertex cell so that no input
// point disappears from the output.
package alphashape

import (
	"math"

	"github.com/sanonone/tetramesh/pkg/delaunay"
	"github.com/sanonone/tetramesh/pkg/geometry"
	"github.com/sanonone/tetramesh/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config controls the filter.
type Config struct {
	// Alpha is the largest circumradius a simplex may have. Zero disables
	// filtering and passes every tetrahedron through.
	Alpha float64
	// BoundingTriangulation keeps cells that reference bootstrap points.
	BoundingTriangulation bool
}

// Normalize returns c with a negative or NaN Alpha replaced by zero.
func (c Config) Normalize() Config {
	if math.IsNaN(c.Alpha) || c.Alpha < 0 {
		c.Alpha = 0
	}
	return c
}

// Stats counts the emitted cells per type.
type Stats struct {
	Tetras    int
	Triangles int
	Lines     int
	Vertices  int
}

// Total returns the number of emitted cells.
func (s Stats) Total() int { return s.Tetras + s.Triangles + s.Lines + s.Vertices }

// Count returns the number of emitted cells of type t.
func (s Stats) Count(t mesh.CellType) int {
	switch t {
	case mesh.Tetra:
		return s.Tetras
	case mesh.Triangle:
		return s.Triangles
	case mesh.Line:
		return s.Lines
	case mesh.Vertex:
		return s.Vertices
	}
	return 0
}

var tetraEdges = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

// filter holds the state of one Filter call.
type filter struct {
	tz       *delaunay.Tetrahedralization
	alpha2   float64
	bounding bool
	sink     mesh.CellSink

	kept  *mesh.BitSet
	used  *mesh.BitSet
	edges *mesh.EdgeTable
	stats Stats
	nbrs  []int
}

// Filter writes the alpha complex of tz into sink: tetrahedra first, then
// triangles, lines and finally vertex cells. tz is only read, so repeated
// calls with the same configuration emit identical cell sequences.
func Filter(tz *delaunay.Tetrahedralization, cfg Config, sink mesh.CellSink) Stats {
	cfg = cfg.Normalize()
	numPts := tz.NumInputPoints + delaunay.NumBootstrapPoints
	f := &filter{
		tz:       tz,
		alpha2:   cfg.Alpha * cfg.Alpha,
		bounding: cfg.BoundingTriangulation,
		sink:     sink,
		kept:     mesh.NewBitSet(tz.Mesh.NumberOfCells()),
		used:     mesh.NewBitSet(numPts),
		edges:    mesh.NewEdgeTable(),
	}

	if cfg.Alpha == 0 {
		f.tetras(true)
	} else {
		f.tetras(false)
		f.faces()
		f.lines()
	}
	f.vertices(numPts)
	return f.stats
}

// excluded reports whether ids may not appear in the output.
func (f *filter) excluded(ids []int) bool {
	if f.bounding {
		return false
	}
	for _, p := range ids {
		if f.tz.IsBootstrapPoint(p) {
			return true
		}
	}
	return false
}

func (f *filter) emit(t mesh.CellType, ids []int) {
	f.sink.InsertNextCell(t, ids)
	for _, p := range ids {
		f.used.Add(p)
	}
	switch t {
	case mesh.Tetra:
		f.stats.Tetras++
	case mesh.Triangle:
		f.stats.Triangles++
	case mesh.Line:
		f.stats.Lines++
	case mesh.Vertex:
		f.stats.Vertices++
	}
}

func (f *filter) tetras(all bool) {
	m := f.tz.Mesh
	for id := 0; id < m.NumberOfCells(); id++ {
		c := m.Cell(id)
		if !all {
			p := f.tz.CellPoints(c)
			_, r2 := geometry.Circumsphere(p[0], p[1], p[2], p[3])
			if geometry.IsDegenerate(r2) || r2 > f.alpha2 {
				continue
			}
		}
		ids := c.IDs()
		// excluded cells count as discarded so their faces stay candidates
		if f.excluded(ids) {
			continue
		}
		f.kept.Add(id)
		f.emit(mesh.Tetra, ids)
		for _, e := range tetraEdges {
			f.edges.InsertEdge(ids[e[0]], ids[e[1]])
		}
	}
}

// faces visits every face of a discarded tetrahedron once: from the lower
// numbered of its two cells when both were discarded, and not at all when the
// other cell was kept.
func (f *filter) faces() {
	m := f.tz.Mesh
	pts := f.tz.Points()
	for id := 0; id < m.NumberOfCells(); id++ {
		if f.kept.Has(id) {
			continue
		}
		c := m.Cell(id)
		for j := 0; j < 4; j++ {
			var face [3]int
			k := 0
			for i, p := range c.IDs() {
				if i != j {
					face[k] = p
					k++
				}
			}
			f.nbrs = m.GetCellNeighbors(id, face[:], f.nbrs[:0])
			if len(f.nbrs) > 0 {
				if nb := f.nbrs[0]; f.kept.Has(nb) || nb < id {
					continue
				}
			}
			if f.excluded(face[:]) {
				continue
			}
			flat, ok := geometry.ProjectTo2D(pts.Point(face[0]), pts.Point(face[1]), pts.Point(face[2]))
			if !ok {
				continue
			}
			_, r2 := geometry.Circumcircle(flat[0], flat[1], flat[2])
			if geometry.IsDegenerate(r2) || r2 > f.alpha2 {
				continue
			}
			f.emit(mesh.Triangle, face[:])
			f.edges.InsertEdge(face[0], face[1])
			f.edges.InsertEdge(face[1], face[2])
			f.edges.InsertEdge(face[2], face[0])
		}
	}
}

func (f *filter) lines() {
	m := f.tz.Mesh
	pts := f.tz.Points()
	for id := 0; id < m.NumberOfCells(); id++ {
		if f.kept.Has(id) {
			continue
		}
		c := m.Cell(id)
		for _, e := range tetraEdges {
			a, b := c.Points[e[0]], c.Points[e[1]]
			if f.edges.IsEdge(a, b) || f.excluded([]int{a, b}) {
				continue
			}
			if r3.Norm2(r3.Sub(pts.Point(a), pts.Point(b)))/4 > f.alpha2 {
				continue
			}
			f.edges.InsertEdge(a, b)
			f.emit(mesh.Line, []int{a, b})
		}
	}
}

// vertices emits every point no other cell covers. Bootstrap points only
// count when the bounding triangulation is kept.
func (f *filter) vertices(numPts int) {
	last := f.tz.NumInputPoints
	if f.bounding {
		last = numPts
	}
	for p := 0; p < last; p++ {
		if !f.used.Has(p) {
			f.emit(mesh.Vertex, []int{p})
		}
	}
}
