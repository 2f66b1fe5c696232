// Package mesh provides the indexed cell store shared by the triangulator and
// the alpha shape filter.
//
// A Mesh is an ordered sequence of cells (the cell id is its position) plus an
// optional point-to-cell adjacency, the "links". Links are built once with
// BuildLinks and then kept in step with every cell mutation through
// AddReferenceToCell and RemoveReferenceToCell.
package mesh

import "fmt"

// CellType tags the variant of a Cell.
type CellType uint8

const (
	// EmptyCell marks an unused slot.
	EmptyCell CellType = iota
	// Vertex is a single point.
	Vertex
	// Line is a two point edge.
	Line
	// Triangle is a three point face.
	Triangle
	// Tetra is a four point tetrahedron.
	Tetra
)

// MaxCellPoints is the largest point count of any cell variant.
const MaxCellPoints = 4

// NumPoints returns how many point ids a cell of this type holds.
func (t CellType) NumPoints() int {
	switch t {
	case Vertex:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Tetra:
		return 4
	default:
		return 0
	}
}

func (t CellType) String() string {
	switch t {
	case EmptyCell:
		return "empty"
	case Vertex:
		return "vertex"
	case Line:
		return "line"
	case Triangle:
		return "triangle"
	case Tetra:
		return "tetra"
	default:
		return fmt.Sprintf("CellType(%d)", uint8(t))
	}
}

// cellTypeFor returns the variant holding n points.
func cellTypeFor(n int) (CellType, bool) {
	switch n {
	case 1:
		return Vertex, true
	case 2:
		return Line, true
	case 3:
		return Triangle, true
	case 4:
		return Tetra, true
	default:
		return EmptyCell, false
	}
}

// Cell is a tagged variant over the four simplex kinds. Only the first
// Type.NumPoints() entries of Points are meaningful.
type Cell struct {
	Type   CellType
	Points [MaxCellPoints]int
}

// IDs returns the cell's point ids as a slice aliasing a copy of the cell.
func (c Cell) IDs() []int {
	return c.Points[:c.Type.NumPoints()]
}

// Has reports whether the cell references point id.
func (c Cell) Has(id int) bool {
	for _, p := range c.IDs() {
		if p == id {
			return true
		}
	}
	return false
}
