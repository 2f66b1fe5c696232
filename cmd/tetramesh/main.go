// Command tetramesh tetrahedralizes a point cloud and prints a JSON summary of
// its alpha shape.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sanonone/tetramesh/pkg/delaunay"
	"github.com/sanonone/tetramesh/pkg/engine"
)

// summary is the JSON document written to stdout.
type summary struct {
	RunID      string         `json:"run_id"`
	Error      string         `json:"error,omitempty"`
	Points     int            `json:"points"`
	Inserted   int            `json:"inserted"`
	Duplicates int            `json:"duplicates"`
	OutPoints  int            `json:"output_points"`
	Cells      map[string]int `json:"cells"`
	DurationMS float64        `json:"duration_ms"`
}

func main() {
	input := flag.String("input", "", "Point file with one 'x y z' triple per line (default: stdin)")
	configPath := flag.String("config", "", "YAML options file")
	alpha := flag.Float64("alpha", 0, "Alpha shape radius, 0 keeps every tetrahedron")
	tolerance := flag.Float64("tolerance", delaunay.DefaultTolerance, "Coincidence distance as a fraction of the bounding diagonal")
	offset := flag.Float64("offset", delaunay.MinOffset, "Bootstrap octahedron size multiplier")
	bounding := flag.Bool("bounding", false, "Keep the bootstrap points and their cells in the output")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address and wait for a signal before exiting (e.g. :9100)")

	flag.Parse()

	opts, err := engine.LoadOptions(*configPath)
	if err != nil {
		log.Fatalf("Cannot load options: %v", err)
	}
	// flags given on the command line win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "alpha":
			opts.Alpha = *alpha
		case "tolerance":
			opts.Tolerance = *tolerance
		case "offset":
			opts.Offset = *offset
		case "bounding":
			opts.BoundingTriangulation = *bounding
		}
	})

	src := os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatalf("Cannot open input: %v", err)
		}
		defer f.Close()
		src = f
	}
	points, err := readPoints(src)
	if err != nil {
		log.Fatalf("Cannot read points: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	out, err := engine.New(opts).Run(points)
	var inputErr *delaunay.InputError
	if err != nil && !errors.As(err, &inputErr) {
		log.Fatalf("Run failed: %v", err)
	}

	s := summary{
		RunID:      out.RunID,
		Points:     points.Len(),
		Inserted:   out.Triangulation.Inserted,
		Duplicates: out.DuplicatePointCount,
		OutPoints:  out.Points.Len(),
		Cells: map[string]int{
			"tetra":    out.Shape.Tetras,
			"triangle": out.Shape.Triangles,
			"line":     out.Shape.Lines,
			"vertex":   out.Shape.Vertices,
		},
		DurationMS: float64(out.Duration.Microseconds()) / 1000,
	}
	if err != nil {
		s.Error = err.Error()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		log.Fatalf("Cannot write summary: %v", err)
	}

	if *metricsAddr != "" {
		serveMetrics(*metricsAddr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// serveMetrics exposes /metrics on addr until SIGINT or SIGTERM.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Metrics server failed: %v", err)
		}
	}()
	slog.Info("Serving metrics", "addr", addr)

	<-shutdownChan
	srv.Close()
}
