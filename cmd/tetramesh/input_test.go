package main

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestReadPoints(t *testing.T) {
	in := `# unit tetrahedron
0 0 0
1,0,0

	0	1	0
0, 0, 1.5e0
`
	pts, err := readPoints(strings.NewReader(in))
	if err != nil {
		t.Fatalf("readPoints: %v", err)
	}
	want := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1.5}}
	if len(pts) != len(want) {
		t.Fatalf("got %d points, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestReadPointsErrors(t *testing.T) {
	tests := []struct {
		name, in, msg string
	}{
		{"two fields", "0 0 0\n1 2\n", "line 2"},
		{"not a number", "0 0 zero\n", "line 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readPoints(strings.NewReader(tc.in))
			if err == nil || !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("err = %v, want mention of %q", err, tc.msg)
			}
		})
	}

	_, err := readPoints(strings.NewReader("1 2 x\n"))
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("parse error does not wrap strconv.ErrSyntax: %v", err)
	}
}

func TestReadPointsEmpty(t *testing.T) {
	pts, err := readPoints(strings.NewReader("# nothing\n\n"))
	if err != nil || len(pts) != 0 {
		t.Fatalf("pts = %v, err = %v", pts, err)
	}
}
