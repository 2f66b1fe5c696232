// Package metrics holds the Prometheus collectors for triangulation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered with the default registry through promauto.

var (
	// RunsTotal counts runs by result ("ok" or "input_error").
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tetramesh_runs_total",
			Help: "Total number of triangulation runs",
		},
		[]string{"result"},
	)

	// PointsInserted counts input points that became mesh vertices.
	PointsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tetramesh_points_inserted_total",
			Help: "Input points inserted into a tetrahedralization",
		},
	)

	// DuplicatePoints counts input points skipped as coincident.
	DuplicatePoints = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tetramesh_duplicate_points_total",
			Help: "Input points skipped because they lie within tolerance of an accepted point",
		},
	)

	// CavitySize observes the mean cavity size of each run.
	CavitySize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tetramesh_cavity_tetras",
			Help:    "Mean number of tetrahedra replaced per insertion",
			Buckets: []float64{1, 2, 4, 6, 8, 12, 16, 24, 32, 64},
		},
	)

	// RunDuration measures Run from bootstrap to the last emitted cell.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "tetramesh_run_duration_seconds",
			Help: "Duration of triangulation runs in seconds",
			// from a few points (microseconds) to millions (minutes)
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
	)

	// OutputCells counts emitted cells by type.
	OutputCells = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tetramesh_output_cells_total",
			Help: "Cells emitted by the alpha shape filter",
		},
		[]string{"type"},
	)
)
