package delaunay

import (
	"github.com/sanonone/tetramesh/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tetrahedralization is a finished triangulation. Its mesh holds only live
// tetrahedra, has links built, and must be treated as read-only.
type Tetrahedralization struct {
	// Mesh contains one Tetra cell per tetrahedron. Point ids at or above
	// NumInputPoints refer to the bootstrap points.
	Mesh *mesh.Mesh
	// NumInputPoints is the length of the input sequence.
	NumInputPoints int
	// Bootstrap holds the synthetic octahedron points, ids NumInputPoints+i.
	Bootstrap [NumBootstrapPoints]r3.Vec
	// Tolerance is the absolute coincidence distance used.
	Tolerance float64
	// Stats holds the run counters; Stats.Duplicates is the duplicate point
	// count.
	Stats Stats

	points   mesh.Extended
	inserted *mesh.BitSet
}

// Points returns the input points followed by the bootstrap points.
func (tz *Tetrahedralization) Points() mesh.Points { return tz.points }

// Input returns the borrowed input sequence.
func (tz *Tetrahedralization) Input() mesh.Points { return tz.points.Base }

// DuplicatePointCount returns how many input points were skipped as
// duplicates.
func (tz *Tetrahedralization) DuplicatePointCount() int { return tz.Stats.Duplicates }

// InsertedPointCount returns how many input points are mesh vertices.
func (tz *Tetrahedralization) InsertedPointCount() int { return tz.Stats.Inserted }

// IsBootstrapPoint reports whether id is one of the synthetic points.
func (tz *Tetrahedralization) IsBootstrapPoint(id int) bool { return id >= tz.NumInputPoints }

// IsInserted reports whether input point id is a vertex of the mesh.
func (tz *Tetrahedralization) IsInserted(id int) bool { return tz.inserted.Has(id) }

// UsesBootstrap reports whether the cell references a bootstrap point.
func (tz *Tetrahedralization) UsesBootstrap(c mesh.Cell) bool {
	for _, p := range c.IDs() {
		if tz.IsBootstrapPoint(p) {
			return true
		}
	}
	return false
}

// CellPoints returns the coordinates of the cell's points.
func (tz *Tetrahedralization) CellPoints(c mesh.Cell) []r3.Vec {
	ids := c.IDs()
	out := make([]r3.Vec, len(ids))
	for i, p := range ids {
		out[i] = tz.points.Point(p)
	}
	return out
}
