// Package engine provides the high-level interface to tetramesh.
//
// It validates the options, runs the Delaunay tetrahedralization and the
// alpha shape filter over a point sequence, and reports each run through
// structured logs and Prometheus metrics.
//
// Basic usage:
//
//	opts, err := engine.LoadOptions("tetramesh.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := engine.New(opts).Run(mesh.PointSlice(points))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out.Cells.NumberOfCells())
package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sanonone/tetramesh/pkg/alphashape"
	"github.com/sanonone/tetramesh/pkg/delaunay"
	"github.com/sanonone/tetramesh/pkg/mesh"
	"github.com/sanonone/tetramesh/pkg/metrics"
)

// Output is the result of one run.
type Output struct {
	// RunID identifies the run in logs.
	RunID string

	// Cells holds the emitted Vertex, Line, Triangle and Tetra cells.
	Cells *mesh.Mesh

	// Points is the coordinate sequence the cells index into: the input, or
	// the input followed by the six bootstrap points when
	// BoundingTriangulation is set.
	Points mesh.Points

	// DuplicatePointCount is the number of input points skipped as
	// coincident.
	DuplicatePointCount int

	// Triangulation holds the insertion counters.
	Triangulation delaunay.Stats

	// Shape counts the emitted cells per type.
	Shape alphashape.Stats

	Duration time.Duration
}

// Engine runs triangulations with a fixed, validated set of options. It holds
// no per-run state and may be used from several goroutines.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New returns an engine for opts. Out of range options are clamped and a
// warning names them.
func New(opts Options) *Engine {
	return NewWithLogger(opts, slog.Default())
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(opts Options, logger *slog.Logger) *Engine {
	norm, clamped := opts.Normalize()
	if len(clamped) > 0 {
		logger.Warn("Options clamped into range", "fields", clamped,
			"alpha", norm.Alpha, "tolerance", norm.Tolerance, "offset", norm.Offset)
	}
	return &Engine{opts: norm, logger: logger}
}

// Options returns the validated options.
func (e *Engine) Options() Options { return e.opts }

// Run tetrahedralizes points and filters the result. points is only read.
//
// Input that cannot be tetrahedralized yields a *delaunay.InputError together
// with an empty Output whose Points is the input.
func (e *Engine) Run(points mesh.Points) (*Output, error) {
	start := time.Now()
	out := &Output{
		RunID:  uuid.NewString(),
		Cells:  mesh.New(0),
		Points: points,
	}
	n := 0
	if points != nil {
		n = points.Len()
	}
	logger := e.logger.With("run_id", out.RunID)
	logger.Info("Triangulation started", "points", n, "alpha", e.opts.Alpha,
		"tolerance", e.opts.Tolerance, "bounding", e.opts.BoundingTriangulation)

	tz, err := delaunay.Triangulate(points, e.opts.delaunayConfig())
	if err != nil {
		var inputErr *delaunay.InputError
		if errors.As(err, &inputErr) {
			out.DuplicatePointCount = inputErr.Duplicates
		}
		out.Duration = time.Since(start)
		metrics.RunsTotal.WithLabelValues("input_error").Inc()
		logger.Error("Triangulation failed", "error", err)
		return out, err
	}

	out.Cells = mesh.New(tz.Mesh.NumberOfCells() + n)
	out.Shape = alphashape.Filter(tz, e.opts.alphaConfig(), out.Cells)
	if e.opts.BoundingTriangulation {
		out.Points = tz.Points()
	}
	out.DuplicatePointCount = tz.DuplicatePointCount()
	out.Triangulation = tz.Stats
	out.Duration = time.Since(start)

	e.record(out)
	logger.Info("Triangulation finished",
		"inserted", tz.Stats.Inserted,
		"duplicates", out.DuplicatePointCount,
		"tetras", out.Shape.Tetras,
		"triangles", out.Shape.Triangles,
		"lines", out.Shape.Lines,
		"vertices", out.Shape.Vertices,
		"duration", out.Duration,
	)
	return out, nil
}

func (e *Engine) record(out *Output) {
	st := out.Triangulation
	metrics.RunsTotal.WithLabelValues("ok").Inc()
	metrics.PointsInserted.Add(float64(st.Inserted))
	metrics.DuplicatePoints.Add(float64(out.DuplicatePointCount))
	if st.Inserted > 0 {
		metrics.CavitySize.Observe(float64(st.CavityTetras) / float64(st.Inserted))
	}
	metrics.RunDuration.Observe(out.Duration.Seconds())
	for _, t := range []mesh.CellType{mesh.Vertex, mesh.Line, mesh.Triangle, mesh.Tetra} {
		metrics.OutputCells.WithLabelValues(t.String()).Add(float64(out.Shape.Count(t)))
	}
}

// Run is New(opts).Run(points).
func Run(points mesh.Points, opts Options) (*Output, error) {
	return New(opts).Run(points)
}
