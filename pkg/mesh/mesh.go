package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrCellRange is returned for a cell id outside the mesh.
	ErrCellRange = errors.New("cell id out of range")
	// ErrCellGrowth is returned when ReplaceCell would store more points than
	// the slot was created with.
	ErrCellGrowth = errors.New("replacement cell has more points than its slot")
)

// Mesh is an append-only cell store whose slots may be overwritten in place.
// It is not safe for concurrent use.
type Mesh struct {
	cells []Cell
	// capacity[i] is the point count slot i was created with.
	capacity []uint8

	// links[p] lists the cells referencing point p, in reference order.
	links [][]int
}

// New returns an empty mesh with room for capacity cells.
func New(capacity int) *Mesh {
	return &Mesh{
		cells:    make([]Cell, 0, capacity),
		capacity: make([]uint8, 0, capacity),
	}
}

// NumberOfCells returns the number of slots, live or not.
func (m *Mesh) NumberOfCells() int { return len(m.cells) }

// Cell returns a copy of cell id.
func (m *Mesh) Cell(id int) Cell { return m.cells[id] }

// InsertNextCell appends a cell and returns its id. Links, when built, are not
// touched; callers that maintain links call AddReferenceToCell themselves.
func (m *Mesh) InsertNextCell(t CellType, ids []int) int {
	var c Cell
	c.Type = t
	copy(c.Points[:], ids[:t.NumPoints()])
	m.cells = append(m.cells, c)
	m.capacity = append(m.capacity, uint8(t.NumPoints()))
	return len(m.cells) - 1
}

// ReplaceCell overwrites the point list of an existing slot. The new list may
// not be longer than the one the slot was created with; its length selects the
// new cell variant.
func (m *Mesh) ReplaceCell(id int, ids []int) error {
	if id < 0 || id >= len(m.cells) {
		return fmt.Errorf("%w: %d", ErrCellRange, id)
	}
	if len(ids) > int(m.capacity[id]) {
		return fmt.Errorf("%w: slot %d holds %d, got %d", ErrCellGrowth, id, m.capacity[id], len(ids))
	}
	t, ok := cellTypeFor(len(ids))
	if !ok {
		return fmt.Errorf("mesh: no cell variant with %d points", len(ids))
	}
	var c Cell
	c.Type = t
	copy(c.Points[:], ids)
	m.cells[id] = c
	return nil
}

// BuildLinks builds the point to cell adjacency in one pass over the cells.
// numPoints must exceed every referenced point id.
func (m *Mesh) BuildLinks(numPoints int) {
	counts := make([]int, numPoints)
	for _, c := range m.cells {
		for _, p := range c.IDs() {
			counts[p]++
		}
	}
	m.links = make([][]int, numPoints)
	for p, n := range counts {
		if n > 0 {
			m.links[p] = make([]int, 0, n)
		}
	}
	for id, c := range m.cells {
		for _, p := range c.IDs() {
			m.links[p] = append(m.links[p], id)
		}
	}
}

// CellsOfPoint returns the cells referencing point p. The slice belongs to the
// mesh and is only valid until the next link mutation.
func (m *Mesh) CellsOfPoint(p int) []int {
	if p < 0 || p >= len(m.links) {
		return nil
	}
	return m.links[p]
}

// AddReferenceToCell records that cell references point p.
func (m *Mesh) AddReferenceToCell(p, cell int) {
	m.links[p] = append(m.links[p], cell)
}

// RemoveReferenceToCell drops cell from the links of point p. The relative
// order of the remaining references is kept.
func (m *Mesh) RemoveReferenceToCell(p, cell int) {
	refs := m.links[p]
	for i, c := range refs {
		if c == cell {
			copy(refs[i:], refs[i+1:])
			m.links[p] = refs[:len(refs)-1]
			return
		}
	}
}

// GetCellNeighbors appends to out the cells, other than cell, that reference
// every point in pts, and returns the extended slice. For a tetrahedron face
// this yields zero or one neighbor; for an edge it yields the whole edge star.
func (m *Mesh) GetCellNeighbors(cell int, pts []int, out []int) []int {
	if len(pts) == 0 {
		return out
	}
	for _, cand := range m.links[pts[0]] {
		if cand == cell {
			continue
		}
		match := true
		for _, p := range pts[1:] {
			if !contains(m.links[p], cand) {
				match = false
				break
			}
		}
		if match {
			out = append(out, cand)
		}
	}
	return out
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
