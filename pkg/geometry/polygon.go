package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrTriangulationFailed is returned by TriangulatePolygon when no valid
// splitting chord exists at some level of the recursion. The polygon is left
// untouched; callers decide whether to skip it, retry, or abort.
var ErrTriangulationFailed = errors.New("polygon triangulation failed")

// Containment is the result of a point in polygon query.
type Containment int

const (
	// Outside means the point is not in the polygon.
	Outside Containment = iota
	// Inside means the point is in the polygon.
	Inside
	// Failure means the polygon normal has no usable dominant component.
	Failure
)

func (c Containment) String() string {
	switch c {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	default:
		return "failure"
	}
}

// Ray casting parameters.
const (
	polygonMaxIter       = 10
	polygonVoteThreshold = 2
	polygonRayTol        = 1e-3
	polygonRaySeed       = 5489
)

type lineHit int

const (
	noIntersection lineHit = iota
	intersection
	onLine
)

// PointInPolygon classifies x against the planar polygon pts with the given
// bounds and normal. Random rays lying in the polygon plane are fired from x
// and their crossings with every edge counted. A ray that grazes a vertex or
// runs along an edge is inconclusive and casts no vote; the others vote "in"
// for odd parity and "out" for even. The loop stops once one side leads by
// polygonVoteThreshold or after polygonMaxIter rays.
//
// The ray directions come from a generator local to the call and seeded with
// a constant, so a query always answers the same way.
func PointInPolygon(x r3.Vec, pts []r3.Vec, bounds r3.Box, n r3.Vec) Containment {
	if !InBounds(bounds, x) {
		return Outside
	}

	nc := [3]float64{n.X, n.Y, n.Z}
	maxComp := 0
	for i := 1; i < 3; i++ {
		if math.Abs(nc[i]) > math.Abs(nc[maxComp]) {
			maxComp = i
		}
	}
	if nc[maxComp] == 0 {
		return Failure
	}
	comps := [2]int{(maxComp + 1) % 3, (maxComp + 2) % 3}

	rayMag := 1.1 * Diagonal(bounds)
	if rayMag == 0 {
		rayMag = 1
	}
	rng := rand.New(rand.NewSource(polygonRaySeed))

	deltaVotes := 0
	for iter := 1; iter < polygonMaxIter && abs(deltaVotes) < polygonVoteThreshold; iter++ {
		var ray [3]float64
		var length float64
		for length == 0 {
			ray[comps[0]] = rayMag * (1 - 2*rng.Float64())
			ray[comps[1]] = rayMag * (1 - 2*rng.Float64())
			ray[maxComp] = -(nc[comps[0]]*ray[comps[0]] + nc[comps[1]]*ray[comps[1]]) / nc[maxComp]
			length = math.Sqrt(ray[0]*ray[0] + ray[1]*ray[1] + ray[2]*ray[2])
		}
		scale := rayMag / length
		xray := r3.Add(x, r3.Vec{X: ray[0] * scale, Y: ray[1] * scale, Z: ray[2] * scale})

		numInts := 0
		certain := true
		for i := range pts {
			x1, x2 := pts[i], pts[(i+1)%len(pts)]
			_, v, hit := lineIntersection(x, xray, x1, x2)
			switch hit {
			case intersection:
				if polygonRayTol < v && v < 1-polygonRayTol {
					numInts++
				} else {
					certain = false
				}
			case onLine:
				certain = false
			}
		}
		if certain {
			if numInts%2 == 0 {
				deltaVotes--
			} else {
				deltaVotes++
			}
		}
	}

	if deltaVotes <= 0 {
		return Outside
	}
	return Inside
}

// lineIntersection finds the parameters u, v of the closest points between
// the lines a1-a2 and b1-b2 by least squares. The segments intersect when both
// parameters are in [0, 1]; parallel lines report onLine.
func lineIntersection(a1, a2, b1, b2 r3.Vec) (u, v float64, hit lineHit) {
	a21 := r3.Sub(a2, a1)
	b21 := r3.Sub(b2, b1)
	b1a1 := r3.Sub(b1, a1)

	m := mat.NewDense(2, 2, []float64{
		r3.Dot(a21, a21), -r3.Dot(a21, b21),
		-r3.Dot(a21, b21), r3.Dot(b21, b21),
	})
	c := mat.NewVecDense(2, []float64{r3.Dot(a21, b1a1), -r3.Dot(b21, b1a1)})

	var sol mat.VecDense
	if err := sol.SolveVec(m, c); err != nil {
		return 0, 0, onLine
	}
	u, v = sol.AtVec(0), sol.AtVec(1)
	if 0 <= u && u <= 1 && 0 <= v && v <= 1 {
		return u, v, intersection
	}
	return u, v, noIntersection
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// polygonTolerance scales the bounding diagonal into the distance under which
// a vertex is considered to lie on a split plane.
const polygonTolerance = 1e-6

// TriangulatePolygon splits the simple planar loop pts into triangles by
// recursive divide and conquer. The result indexes into pts. Each level looks
// at every chord (i, j) between non-adjacent vertices; a chord is valid when
// the plane through it, parallel to the polygon normal, has the interior
// vertices of one sub-loop strictly on one side and those of the other
// sub-loop strictly on the other. The valid chord with the best aspect ratio,
// (min vertex-to-plane distance)^2 / (chord length)^2, is taken and both
// halves are split in turn. If any level has no valid chord the whole call
// fails with ErrTriangulationFailed.
func TriangulatePolygon(pts []r3.Vec) ([][3]int, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", ErrTriangulationFailed, len(pts))
	}
	normal := ComputeNormal(pts)
	if r3.Norm2(normal) == 0 {
		return nil, fmt.Errorf("%w: no polygon normal", ErrTriangulationFailed)
	}

	s := &splitter{
		pts:    pts,
		normal: normal,
		tol:    polygonTolerance * Diagonal(Bounds(pts)),
		tris:   make([][3]int, 0, len(pts)-2),
	}
	verts := make([]int, len(pts))
	for i := range verts {
		verts[i] = i
	}
	if !s.split(verts) {
		return nil, ErrTriangulationFailed
	}
	return s.tris, nil
}

// splitter holds per-call state for TriangulatePolygon.
type splitter struct {
	pts    []r3.Vec
	normal r3.Vec
	tol    float64
	tris   [][3]int
}

func (s *splitter) split(verts []int) bool {
	n := len(verts)
	switch {
	case n < 3:
		return true
	case n == 3:
		s.tris = append(s.tris, [3]int{verts[0], verts[1], verts[2]})
		return true
	}

	best := -1.0
	var bestL1, bestL2 []int
	for i := 0; i < n-2; i++ {
		for j := i + 2; j < n; j++ {
			if (j+1)%n == i {
				continue
			}
			l1, l2 := splitLoop(verts, i, j)
			ar, ok := s.canSplit(verts[i], verts[j], l1, l2)
			if ok && ar > best {
				best = ar
				bestL1, bestL2 = l1, l2
			}
		}
	}
	if best <= 0 {
		return false
	}
	return s.split(bestL1) && s.split(bestL2)
}

// splitLoop cuts the loop along the chord (verts[i], verts[j]); both
// sub-loops keep the chord end points.
func splitLoop(verts []int, i, j int) ([]int, []int) {
	l1 := make([]int, 0, j-i+1)
	l1 = append(l1, verts[i:j+1]...)

	l2 := make([]int, 0, len(verts)-(j-i)+1)
	l2 = append(l2, verts[j:]...)
	l2 = append(l2, verts[:i+1]...)
	return l1, l2
}

// canSplit evaluates the chord (a, b) for sub-loops l1 and l2 and returns its
// aspect ratio score.
func (s *splitter) canSplit(a, b int, l1, l2 []int) (float64, bool) {
	pa, pb := s.pts[a], s.pts[b]
	chord := r3.Sub(pb, pa)
	den := r3.Norm(chord)
	if den == 0 {
		return 0, false
	}
	sN := r3.Cross(chord, s.normal)
	sLen := r3.Norm(sN)
	if sLen == 0 {
		return 0, false
	}
	sN = r3.Scale(1/sLen, sN)

	minDist := math.Inf(1)
	side := func(loop []int) (int, bool) {
		sign := 0
		for _, id := range loop {
			if id == a || id == b {
				continue
			}
			val := r3.Dot(sN, r3.Sub(s.pts[id], pa))
			if math.Abs(val) <= s.tol {
				return 0, false
			}
			sv := 1
			if val < 0 {
				sv = -1
			}
			if sign == 0 {
				sign = sv
			} else if sign != sv {
				return 0, false
			}
			minDist = math.Min(minDist, math.Abs(val))
		}
		return sign, true
	}

	s1, ok := side(l1)
	if !ok {
		return 0, false
	}
	s2, ok := side(l2)
	if !ok || s1 == s2 {
		return 0, false
	}
	return (minDist * minDist) / (den * den), true
}

// Polygon is a planar loop of points.
type Polygon struct {
	Points []r3.Vec
}

// Normal returns the polygon's unit normal, or the zero vector.
func (p Polygon) Normal() r3.Vec { return ComputeNormal(p.Points) }

// Bounds returns the polygon bounding box.
func (p Polygon) Bounds() r3.Box { return Bounds(p.Points) }

// Contains classifies x against the polygon.
func (p Polygon) Contains(x r3.Vec) Containment {
	return PointInPolygon(x, p.Points, p.Bounds(), p.Normal())
}

// Triangulate splits the polygon into triangles indexing p.Points.
func (p Polygon) Triangulate() ([][3]int, error) {
	return TriangulatePolygon(p.Points)
}
