package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sanonone/tetramesh/pkg/delaunay"
	"github.com/sanonone/tetramesh/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func regularTetrahedron() mesh.PointSlice {
	return mesh.PointSlice{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
}

func quietEngine(opts Options) *Engine {
	return NewWithLogger(opts, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestRunRegularTetrahedron(t *testing.T) {
	pts := regularTetrahedron()
	out, err := quietEngine(DefaultOptions()).Run(pts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Cells.NumberOfCells() != 1 || out.Cells.Cell(0).Type != mesh.Tetra {
		t.Fatalf("cells = %d, want a single tetra", out.Cells.NumberOfCells())
	}
	if out.Shape.Tetras != 1 || out.Shape.Triangles != 0 {
		t.Errorf("shape stats = %+v", out.Shape)
	}
	if out.DuplicatePointCount != 0 {
		t.Errorf("duplicates = %d", out.DuplicatePointCount)
	}
	if out.Points.Len() != pts.Len() {
		t.Errorf("output points = %d, want the input", out.Points.Len())
	}
	if _, err := uuid.Parse(out.RunID); err != nil {
		t.Errorf("run id %q: %v", out.RunID, err)
	}
}

func TestRunBoundingTriangulation(t *testing.T) {
	pts := regularTetrahedron()
	opts := DefaultOptions()
	opts.BoundingTriangulation = true
	out, err := quietEngine(opts).Run(pts)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.Points.Len(), pts.Len()+delaunay.NumBootstrapPoints; got != want {
		t.Fatalf("output points = %d, want %d", got, want)
	}
	for i := 0; i < pts.Len(); i++ {
		if out.Points.Point(i) != pts[i] {
			t.Errorf("point %d moved", i)
		}
	}
	for id := 0; id < out.Cells.NumberOfCells(); id++ {
		for _, p := range out.Cells.Cell(id).IDs() {
			if p >= out.Points.Len() {
				t.Fatalf("cell %d references point %d", id, p)
			}
		}
	}
}

func TestRunDuplicates(t *testing.T) {
	pts := mesh.PointSlice{{}, {}, {X: 1}, {Y: 1}, {Z: 1}}
	out, err := quietEngine(DefaultOptions()).Run(pts)
	if err != nil {
		t.Fatal(err)
	}
	if out.DuplicatePointCount != 1 {
		t.Errorf("duplicates = %d, want 1", out.DuplicatePointCount)
	}
	// the skipped copy is still present as a vertex
	if out.Shape.Vertices != 1 {
		t.Errorf("vertices = %d, want 1", out.Shape.Vertices)
	}
}

func TestRunInputErrors(t *testing.T) {
	tests := []struct {
		name string
		pts  mesh.Points
		want error
		dups int
	}{
		{"empty", mesh.PointSlice{}, delaunay.ErrNoPoints, 0},
		{"nil", nil, delaunay.ErrNoPoints, 0},
		{"collinear pair", mesh.PointSlice{{}, {X: 1}}, delaunay.ErrTooFewPoints, 0},
		{"identical", mesh.PointSlice{{Z: 3}, {Z: 3}, {Z: 3}, {Z: 3}}, delaunay.ErrTooFewPoints, 3},
		{"duplicates leave three", mesh.PointSlice{{}, {X: 1}, {}, {Y: 1}, {X: 1}}, delaunay.ErrTooFewPoints, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := quietEngine(DefaultOptions()).Run(tc.pts)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if out == nil {
				t.Fatal("no output alongside the error")
			}
			if out.Cells.NumberOfCells() != 0 {
				t.Errorf("error output has %d cells", out.Cells.NumberOfCells())
			}
			if out.DuplicatePointCount != tc.dups {
				t.Errorf("duplicates = %d, want %d", out.DuplicatePointCount, tc.dups)
			}
		})
	}
}

func TestRunAlphaFiltersCloud(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	pts := make(mesh.PointSlice, 300)
	for i := range pts {
		pts[i] = r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	}
	full, err := quietEngine(DefaultOptions()).Run(pts)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Alpha = 0.08
	filtered, err := quietEngine(opts).Run(pts)
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Shape.Tetras >= full.Shape.Tetras {
		t.Errorf("alpha kept %d of %d tetras", filtered.Shape.Tetras, full.Shape.Tetras)
	}
	if filtered.Shape.Total() != filtered.Cells.NumberOfCells() {
		t.Errorf("stats total %d, cells %d", filtered.Shape.Total(), filtered.Cells.NumberOfCells())
	}
	if filtered.Triangulation != full.Triangulation {
		t.Errorf("alpha changed the triangulation counters")
	}
}

func TestRunLogsClampedOptions(t *testing.T) {
	var buf bytes.Buffer
	e := NewWithLogger(Options{Alpha: -1, Tolerance: 2, Offset: 1}, slog.New(slog.NewTextHandler(&buf, nil)))
	want := Options{Alpha: 0, Tolerance: 1, Offset: delaunay.MinOffset}
	if e.Options() != want {
		t.Errorf("options = %+v, want %+v", e.Options(), want)
	}
	if !strings.Contains(buf.String(), "Options clamped") {
		t.Errorf("no clamp warning logged: %q", buf.String())
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Options
		want    Options
		clamped []string
	}{
		{"defaults", DefaultOptions(), DefaultOptions(), nil},
		{"negative alpha", Options{Alpha: -2, Tolerance: 0.01, Offset: 3}, Options{Tolerance: 0.01, Offset: 3}, []string{"alpha"}},
		{"nan", Options{Alpha: math.NaN(), Tolerance: math.NaN(), Offset: math.NaN()}, DefaultOptions(), []string{"alpha", "tolerance", "offset"}},
		{"small offset", Options{Alpha: 0.5, Tolerance: 0.001, Offset: 0.1, BoundingTriangulation: true}, Options{Alpha: 0.5, Tolerance: 0.001, Offset: 2.5, BoundingTriangulation: true}, []string{"offset"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, clamped := tc.in.Normalize()
			if got != tc.want {
				t.Errorf("Normalize = %+v, want %+v", got, tc.want)
			}
			if !reflect.DeepEqual(clamped, tc.clamped) {
				t.Errorf("clamped = %v, want %v", clamped, tc.clamped)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("empty path", func(t *testing.T) {
		opts, err := LoadOptions("")
		if err != nil || opts != DefaultOptions() {
			t.Fatalf("LoadOptions(\"\") = %+v, %v", opts, err)
		}
	})

	t.Run("partial file", func(t *testing.T) {
		opts, err := LoadOptions(write("partial.yaml", "alpha: 0.25\nbounding_triangulation: true\n"))
		if err != nil {
			t.Fatal(err)
		}
		want := DefaultOptions()
		want.Alpha = 0.25
		want.BoundingTriangulation = true
		if opts != want {
			t.Errorf("opts = %+v, want %+v", opts, want)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		opts, err := LoadOptions(write("empty.yaml", ""))
		if err != nil || opts != DefaultOptions() {
			t.Fatalf("opts = %+v, err = %v", opts, err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		if _, err := LoadOptions(write("bad.yaml", "alpah: 1\n")); err == nil {
			t.Fatal("expected an error for an unknown field")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadOptions(filepath.Join(dir, "nope.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("err = %v, want not-exist", err)
		}
	})
}

func BenchmarkRun(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	pts := make(mesh.PointSlice, 1000)
	for i := range pts {
		pts[i] = r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	}
	e := quietEngine(Options{Alpha: 0.1, Tolerance: 0.001, Offset: 2.5})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Run(pts); err != nil {
			b.Fatal(err)
		}
	}
}
