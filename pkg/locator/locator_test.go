package locator

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func unitBox() r3.Box {
	return r3.Box{Min: r3.Vec{}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
}

func TestEmptyLocator(t *testing.T) {
	l := New(unitBox(), 10)
	if _, _, ok := l.FindClosestInsertedPoint(r3.Vec{X: 0.5}); ok {
		t.Error("empty locator returned a closest point")
	}
	if _, ok := l.IsInsertedPoint(r3.Vec{}); ok {
		t.Error("empty locator reported a duplicate")
	}
}

func TestIsInsertedPoint(t *testing.T) {
	l := New(unitBox(), 100)
	l.SetTolerance(0.01)
	l.InsertPoint(7, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	l.InsertPoint(8, r3.Vec{X: 0.1, Y: 0.9, Z: 0.3})

	tests := []struct {
		name string
		x    r3.Vec
		want int
		ok   bool
	}{
		{"exact", r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 7, true},
		{"within tolerance", r3.Vec{X: 0.105, Y: 0.9, Z: 0.3}, 8, true},
		{"outside tolerance", r3.Vec{X: 0.52, Y: 0.5, Z: 0.5}, -1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := l.IsInsertedPoint(tc.x)
			if got != tc.want || ok != tc.ok {
				t.Errorf("IsInsertedPoint(%v) = (%d, %v), want (%d, %v)", tc.x, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestFindClosestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	l := New(unitBox(), 400)
	pts := make([]r3.Vec, 400)
	for i := range pts {
		pts[i] = r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
		l.InsertPoint(i, pts[i])
	}

	for q := 0; q < 200; q++ {
		x := r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
		want, wantD2 := -1, math.Inf(1)
		for i, p := range pts {
			if d2 := r3.Norm2(r3.Sub(p, x)); d2 < wantD2 {
				want, wantD2 = i, d2
			}
		}
		got, gotD2, ok := l.FindClosestInsertedPoint(x)
		if !ok || got != want {
			t.Fatalf("query %v: got %d (d2=%g), want %d (d2=%g)", x, got, gotD2, want, wantD2)
		}
	}
}

func TestPointsOutsideBoundsAreClamped(t *testing.T) {
	l := New(unitBox(), 10)
	far := r3.Vec{X: 10, Y: -10, Z: 0.5}
	l.InsertPoint(0, far)
	got, d2, ok := l.FindClosestInsertedPoint(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	if !ok || got != 0 {
		t.Fatalf("got (%d, %v), want the clamped point", got, ok)
	}
	if want := r3.Norm2(r3.Sub(far, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})); d2 != want {
		t.Errorf("d2 = %g, want %g", d2, want)
	}
	if id, ok := l.IsInsertedPoint(far); !ok || id != 0 {
		t.Errorf("clamped point not found as duplicate of itself")
	}
}

func TestFlatBounds(t *testing.T) {
	box := r3.Box{Min: r3.Vec{}, Max: r3.Vec{X: 1, Y: 1}}
	l := New(box, 50)
	for i := 0; i < 50; i++ {
		l.InsertPoint(i, r3.Vec{X: float64(i%10) / 10, Y: float64(i/10) / 5})
	}
	got, _, ok := l.FindClosestInsertedPoint(r3.Vec{X: 0.31, Y: 0.41})
	if !ok || got != 23 {
		t.Errorf("got %d, want 23", got)
	}
}
