package delaunay

import (
	"github.com/sanonone/tetramesh/pkg/geometry"
	"github.com/sanonone/tetramesh/pkg/locator"
	"github.com/sanonone/tetramesh/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// NumBootstrapPoints is the number of synthetic octahedron points appended
// after the input points.
const NumBootstrapPoints = 6

// Outcome is the terminal state of one point insertion.
type Outcome int

const (
	// Committed means the point is now a mesh vertex.
	Committed Outcome = iota
	// Rejected means the point was a duplicate or could not be located; the
	// mesh is unchanged.
	Rejected
)

func (o Outcome) String() string {
	if o == Committed {
		return "committed"
	}
	return "rejected"
}

// Stats summarises a run.
type Stats struct {
	// Inserted counts committed input points.
	Inserted int
	// Duplicates counts points rejected for lying within tolerance of an
	// accepted point.
	Duplicates int
	// Degenerate counts points rejected because no containing tetrahedron
	// could be solved for.
	Degenerate int
	// CavityTetras is the total number of tetrahedra replaced.
	CavityTetras int
	// MaxCavity is the largest single cavity.
	MaxCavity int
	// ScanFallbacks counts walks that ended in an exhaustive search.
	ScanFallbacks int
}

// sphere caches the circumsphere of a cell slot.
type sphere struct {
	center  r3.Vec
	radius2 float64
}

// Triangulator owns the mesh, its links and the point locator for one run.
// It borrows the input points read-only. It is not safe for concurrent use.
type Triangulator struct {
	cfg   Config
	input mesh.Points
	n     int
	pts   mesh.Extended
	boot  [NumBootstrapPoints]r3.Vec

	mesh    *mesh.Mesh
	spheres []sphere
	alive   *mesh.BitSet
	free    []int
	loc     *locator.Locator

	// absolute coincidence distance
	tol       float64
	lastTetra int
	inserted  *mesh.BitSet
	stats     Stats

	// per-insertion scratch
	stamp  []int
	epoch  int
	cavity []int
	faces  [][3]int
	nbrs   []int

	bootstrapped bool
}

// New prepares a triangulator over points. Bootstrap must be called before
// the first Insert.
func New(points mesh.Points, cfg Config) *Triangulator {
	n := 0
	if points != nil {
		n = points.Len()
	}
	return &Triangulator{
		cfg:      cfg.Normalize(),
		input:    points,
		n:        n,
		inserted: mesh.NewBitSet(n),
	}
}

// Bootstrap computes the input centroid and bounding diagonal, resolves the
// tolerance to an absolute distance and creates the bounding octahedron.
func (t *Triangulator) Bootstrap() error {
	if t.n == 0 {
		return &InputError{Err: ErrNoPoints}
	}

	bounds := r3.Box{Min: t.input.Point(0), Max: t.input.Point(0)}
	var centroid r3.Vec
	for i := 0; i < t.n; i++ {
		p := t.input.Point(i)
		bounds = geometry.ExtendBounds(bounds, p)
		centroid = r3.Add(centroid, p)
	}
	centroid = r3.Scale(1/float64(t.n), centroid)

	diag := geometry.Diagonal(bounds)
	if diag == 0 {
		return &InputError{Err: ErrTooFewPoints, Points: t.n, Accepted: 1, Duplicates: t.n - 1}
	}
	length := t.cfg.Offset * diag
	t.tol = t.cfg.Tolerance * diag

	// -x, +x, -y, +y, -z, +z
	t.boot = [NumBootstrapPoints]r3.Vec{
		r3.Add(centroid, r3.Vec{X: -length}),
		r3.Add(centroid, r3.Vec{X: length}),
		r3.Add(centroid, r3.Vec{Y: -length}),
		r3.Add(centroid, r3.Vec{Y: length}),
		r3.Add(centroid, r3.Vec{Z: -length}),
		r3.Add(centroid, r3.Vec{Z: length}),
	}
	t.pts = mesh.Extended{Base: t.input, Extra: t.boot[:]}

	numPts := t.n + NumBootstrapPoints
	t.mesh = mesh.New(7 * numPts)
	t.alive = mesh.NewBitSet(7 * numPts)
	b := t.n
	for _, tet := range [4][4]int{
		{b, b + 1, b + 2, b + 4},
		{b, b + 1, b + 3, b + 4},
		{b, b + 1, b + 2, b + 5},
		{b, b + 1, b + 3, b + 5},
	} {
		id := t.mesh.InsertNextCell(mesh.Tetra, tet[:])
		t.spheres = append(t.spheres, sphere{})
		t.setSphere(id)
		t.alive.Add(id)
	}
	t.mesh.BuildLinks(numPts)

	t.loc = locator.New(bounds, numPts)
	t.loc.SetTolerance(t.tol)
	for i := 0; i < NumBootstrapPoints; i++ {
		t.loc.InsertPoint(b+i, t.boot[i])
	}

	t.lastTetra = 0
	t.bootstrapped = true
	return nil
}

// Tolerance returns the absolute coincidence distance resolved by Bootstrap.
func (t *Triangulator) Tolerance() float64 { return t.tol }

// Stats returns the counters so far.
func (t *Triangulator) Stats() Stats { return t.stats }

// Insert runs one point through SEED, SEARCH, ENCLOSURE, RETRIANGULATE and
// COMMIT. A rejected point leaves the mesh untouched.
func (t *Triangulator) Insert(id int) Outcome {
	if !t.bootstrapped || id < 0 || id >= t.n || t.inserted.Has(id) {
		return Rejected
	}
	x := t.pts.Point(id)
	tol2 := t.tol * t.tol

	// SEED
	if _, dup := t.loc.IsInsertedPoint(x); dup {
		t.stats.Duplicates++
		return Rejected
	}
	nearest, _, _ := t.loc.FindClosestInsertedPoint(x)

	// SEARCH
	tetra, w, found := t.locate(x, nearest)
	if !found {
		t.stats.Degenerate++
		return Rejected
	}
	for _, p := range t.mesh.Cell(tetra).IDs() {
		if r3.Norm2(r3.Sub(x, t.pts.Point(p))) <= tol2 {
			t.stats.Duplicates++
			return Rejected
		}
	}

	// ENCLOSURE
	if !t.enclose(x, tetra, w) {
		t.stats.Duplicates++
		return Rejected
	}

	// RETRIANGULATE
	t.retriangulate(id)

	// COMMIT
	t.loc.InsertPoint(id, x)
	t.inserted.Add(id)
	t.stats.Inserted++
	t.stats.CavityTetras += len(t.cavity)
	t.stats.MaxCavity = max(t.stats.MaxCavity, len(t.cavity))
	return Committed
}

// setSphere refreshes the cached circumsphere of cell id.
func (t *Triangulator) setSphere(id int) {
	p := t.mesh.Cell(id).Points
	c, r2 := geometry.Circumsphere(
		t.pts.Point(p[0]), t.pts.Point(p[1]), t.pts.Point(p[2]), t.pts.Point(p[3]),
	)
	t.spheres[id] = sphere{center: c, radius2: r2}
}

func (t *Triangulator) inSphere(x r3.Vec, id int) bool {
	s := t.spheres[id]
	return geometry.InSphere(x, s.center, s.radius2)
}

func (t *Triangulator) bary(x r3.Vec, id int) ([4]float64, bool) {
	p := t.mesh.Cell(id).Points
	return geometry.BarycentricCoords(x,
		t.pts.Point(p[0]), t.pts.Point(p[1]), t.pts.Point(p[2]), t.pts.Point(p[3]),
	)
}

// Finish compacts the live tetrahedra into a fresh mesh with links. It
// reports an InputError when fewer than four distinct points were accepted.
func (t *Triangulator) Finish() (*Tetrahedralization, error) {
	if !t.bootstrapped {
		return nil, &InputError{Err: ErrNoPoints}
	}
	if t.stats.Inserted < 4 {
		return nil, &InputError{
			Err:        ErrTooFewPoints,
			Points:     t.n,
			Accepted:   t.stats.Inserted,
			Duplicates: t.stats.Duplicates,
		}
	}

	out := mesh.New(t.mesh.NumberOfCells())
	for id := 0; id < t.mesh.NumberOfCells(); id++ {
		if t.alive.Has(id) {
			out.InsertNextCell(mesh.Tetra, t.mesh.Cell(id).IDs())
		}
	}
	out.BuildLinks(t.n + NumBootstrapPoints)

	return &Tetrahedralization{
		Mesh:           out,
		NumInputPoints: t.n,
		Bootstrap:      t.boot,
		Tolerance:      t.tol,
		Stats:          t.stats,
		points:         t.pts,
		inserted:       t.inserted,
	}, nil
}

// Triangulate inserts every point of points in order and returns the
// finished tetrahedralization.
func Triangulate(points mesh.Points, cfg Config) (*Tetrahedralization, error) {
	t := New(points, cfg)
	if err := t.Bootstrap(); err != nil {
		return nil, err
	}
	for i := 0; i < t.n; i++ {
		t.Insert(i)
	}
	return t.Finish()
}
