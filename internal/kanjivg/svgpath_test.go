package kanjivg

import (
	"math"
	"testing"

	"github.com/knagaya/kakitori/internal/model"
)

func TestFlattenPathLines(t *testing.T) {
	points, err := FlattenPath("M10,10 L50,50")
	if err != nil {
		t.Fatalf("FlattenPath: %v", err)
	}
	want := []model.Point{{X: 10, Y: 10}, {X: 50, Y: 50}}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestFlattenPathRelativeAndClose(t *testing.T) {
	points, err := FlattenPath("m10 10 l10 0 v10 h-10 z")
	if err != nil {
		t.Fatalf("FlattenPath: %v", err)
	}
	want := []model.Point{
		{X: 10, Y: 10},
		{X: 20, Y: 10},
		{X: 20, Y: 20},
		{X: 10, Y: 20},
		{X: 10, Y: 10},
	}
	if len(points) != len(want) {
		t.Fatalf("got %v, want %v", points, want)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestFlattenPathImplicitLineTo(t *testing.T) {
	points, err := FlattenPath("M0,0 10,0 20,0")
	if err != nil {
		t.Fatalf("FlattenPath: %v", err)
	}
	if len(points) != 3 || points[2] != (model.Point{X: 20, Y: 0}) {
		t.Fatalf("implicit line-tos not applied: %v", points)
	}
}

func TestFlattenPathCubic(t *testing.T) {
	points, err := FlattenPath("M0,0 C0,10 10,10 10,0")
	if err != nil {
		t.Fatalf("FlattenPath: %v", err)
	}
	if points[0] != (model.Point{X: 0, Y: 0}) {
		t.Fatalf("curve start = %+v", points[0])
	}
	last := points[len(points)-1]
	if math.Abs(last.X-10) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Fatalf("curve end = %+v, want (10,0)", last)
	}
	if len(points) < 10 {
		t.Fatalf("cubic flattened to only %d points", len(points))
	}
	// The control points pull the curve below the chord (positive Y).
	mid := points[len(points)/2]
	if mid.Y <= 0 {
		t.Fatalf("curve midpoint %+v does not bow toward the controls", mid)
	}
}

func TestFlattenPathSmoothCubic(t *testing.T) {
	points, err := FlattenPath("M0,0 C0,10 10,10 10,0 S20,-10 20,0")
	if err != nil {
		t.Fatalf("FlattenPath: %v", err)
	}
	last := points[len(points)-1]
	if math.Abs(last.X-20) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Fatalf("smooth curve end = %+v, want (20,0)", last)
	}
}

func TestFlattenPathQuadratic(t *testing.T) {
	points, err := FlattenPath("M0,0 Q5,10 10,0 T20,0")
	if err != nil {
		t.Fatalf("FlattenPath: %v", err)
	}
	last := points[len(points)-1]
	if math.Abs(last.X-20) > 1e-9 || math.Abs(last.Y) > 1e-9 {
		t.Fatalf("quad chain end = %+v, want (20,0)", last)
	}
}

func TestFlattenPathErrors(t *testing.T) {
	cases := []string{
		"",
		"M10",
		"M10,10 L",
		"M10,10 X20,20",
	}
	for _, d := range cases {
		if _, err := FlattenPath(d); err == nil {
			t.Fatalf("FlattenPath(%q) succeeded, want error", d)
		}
	}
}
