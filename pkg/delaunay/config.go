// Package delaunay builds a 3-D Delaunay tetrahedralization by incremental
// point insertion.
//
// Triangulation starts from a bounding octahedron of six synthetic points
// split into four tetrahedra. Every input point is then inserted in order:
// the tetrahedron containing it is located by a walk seeded from the nearest
// already accepted point, the cavity of tetrahedra whose circumsphere holds the
// point is grown breadth first, and the cavity is replaced by the star of new
// tetrahedra joining the point to the cavity's boundary faces. Points that fall
// within the tolerance of an accepted point are counted as duplicates and
// skipped.
//
// The result depends on insertion order for cospherical input; the same input
// in the same order always produces the same mesh.
package delaunay

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultTolerance is the default coincidence distance as a fraction of the
	// input bounding diagonal.
	DefaultTolerance = 0.001
	// MinOffset is the smallest bootstrap size multiplier that keeps every
	// input point well inside the bounding octahedron.
	MinOffset = 2.5
)

var (
	// ErrNoPoints is reported for an empty input.
	ErrNoPoints = errors.New("no input points")
	// ErrTooFewPoints is reported when fewer than four distinct points were
	// accepted.
	ErrTooFewPoints = errors.New("fewer than 4 non-duplicate points")
)

// InputError describes input that cannot be tetrahedralized. It unwraps to
// ErrNoPoints or ErrTooFewPoints.
type InputError struct {
	Err error
	// Points is the size of the input sequence.
	Points int
	// Accepted is how many distinct points were inserted.
	Accepted int
	// Duplicates is how many points were skipped as coincident.
	Duplicates int
}

func (e *InputError) Error() string {
	return fmt.Sprintf("delaunay: %v (input %d, accepted %d)", e.Err, e.Points, e.Accepted)
}

func (e *InputError) Unwrap() error { return e.Err }

// Config controls a triangulation run.
type Config struct {
	// Tolerance is the coincidence distance as a fraction of the input
	// bounding diagonal, in [0, 1].
	Tolerance float64
	// Offset scales the bounding diagonal into the bootstrap octahedron
	// radius. Values below MinOffset are raised to it.
	Offset float64
}

// DefaultConfig returns Tolerance 0.001 and Offset 2.5.
func DefaultConfig() Config {
	return Config{Tolerance: DefaultTolerance, Offset: MinOffset}
}

// Normalize returns c with every field clamped into its valid range. NaN
// fields take their defaults.
func (c Config) Normalize() Config {
	switch {
	case math.IsNaN(c.Tolerance):
		c.Tolerance = DefaultTolerance
	case c.Tolerance < 0:
		c.Tolerance = 0
	case c.Tolerance > 1:
		c.Tolerance = 1
	}
	if math.IsNaN(c.Offset) || math.IsInf(c.Offset, 0) || c.Offset < MinOffset {
		c.Offset = MinOffset
	}
	return c
}
