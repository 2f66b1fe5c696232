package engine

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sanonone/tetramesh/pkg/alphashape"
	"github.com/sanonone/tetramesh/pkg/delaunay"
	"gopkg.in/yaml.v3"
)

// Options configures a run.
type Options struct {
	// Alpha is the alpha shape radius. 0 emits the full tetrahedralization.
	Alpha float64 `yaml:"alpha"`

	// Tolerance is the coincidence distance as a fraction of the input
	// bounding diagonal, in [0, 1].
	Tolerance float64 `yaml:"tolerance"`

	// Offset scales the bounding diagonal into the size of the bootstrap
	// octahedron. At least 2.5.
	Offset float64 `yaml:"offset"`

	// BoundingTriangulation keeps the bootstrap points and every cell that
	// references them in the output.
	BoundingTriangulation bool `yaml:"bounding_triangulation"`
}

// DefaultOptions returns the standard configuration.
//
// Defaults:
//   - Alpha: 0 (no filtering)
//   - Tolerance: 0.001
//   - Offset: 2.5
//   - BoundingTriangulation: false
func DefaultOptions() Options {
	d := delaunay.DefaultConfig()
	return Options{
		Tolerance: d.Tolerance,
		Offset:    d.Offset,
	}
}

// Normalize clamps every field into its valid range and returns the names of
// the fields it had to change.
func (o Options) Normalize() (Options, []string) {
	var clamped []string
	a := o.alphaConfig().Normalize()
	d := o.delaunayConfig().Normalize()

	if changed(o.Alpha, a.Alpha) {
		clamped = append(clamped, "alpha")
	}
	if changed(o.Tolerance, d.Tolerance) {
		clamped = append(clamped, "tolerance")
	}
	if changed(o.Offset, d.Offset) {
		clamped = append(clamped, "offset")
	}

	o.Alpha, o.Tolerance, o.Offset = a.Alpha, d.Tolerance, d.Offset
	return o, clamped
}

func changed(before, after float64) bool {
	return math.Float64bits(before) != math.Float64bits(after)
}

func (o Options) delaunayConfig() delaunay.Config {
	return delaunay.Config{Tolerance: o.Tolerance, Offset: o.Offset}
}

func (o Options) alphaConfig() alphashape.Config {
	return alphashape.Config{Alpha: o.Alpha, BoundingTriangulation: o.BoundingTriangulation}
}

// LoadOptions reads a YAML options file with strict parsing. Fields missing
// from the file keep their defaults; an empty path yields the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	if path == "" {
		return opts, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return opts, fmt.Errorf("failed to open options file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	// an empty file is valid and keeps the defaults
	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("invalid options file %s: %w", path, err)
	}

	return opts, nil
}
