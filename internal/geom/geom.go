// Package geom provides point and polyline math for stroke matching.
package geom

import (
	"iter"
	"math"

	"github.com/knagaya/kakitori/internal/model"
)

// Distance returns the Euclidean distance between two points.
func Distance(a, b model.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Length returns the total arc length of the polyline.
func Length(points []model.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// Lerp interpolates between a and b at parameter t in [0, 1].
func Lerp(a, b model.Point, t float64) model.Point {
	return model.Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Resample yields points evenly spaced by arc length along the stroke's
// polyline, starting at the first point. The sequence is finite and can be
// ranged over more than once. Even spacing keeps the hit-ratio calculation
// independent of the input sampling density.
func Resample(s model.Stroke, spacing float64) iter.Seq[model.Point] {
	return func(yield func(model.Point) bool) {
		if len(s) == 0 {
			return
		}
		if !yield(s[0]) {
			return
		}
		if spacing <= 0 || len(s) == 1 {
			return
		}
		prev := s[0]
		acc := 0.0
		for _, cur := range s[1:] {
			seg := Distance(prev, cur)
			for seg > 0 && acc+seg >= spacing {
				t := (spacing - acc) / seg
				p := Lerp(prev, cur, t)
				if !yield(p) {
					return
				}
				prev = p
				seg = Distance(prev, cur)
				acc = 0
			}
			acc += seg
			prev = cur
		}
	}
}

// ResamplePoints collects the resampled sequence into a slice.
func ResamplePoints(s model.Stroke, spacing float64) []model.Point {
	var out []model.Point
	for p := range Resample(s, spacing) {
		out = append(out, p)
	}
	return out
}

// DistanceToSegment returns the distance from p to the segment [a, b].
func DistanceToSegment(p, a, b model.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return Distance(p, model.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// DistanceToPolyline returns the minimum distance from p to the polyline
// formed by consecutive segments of points.
func DistanceToPolyline(p model.Point, points []model.Point) float64 {
	if len(points) == 0 {
		return math.Inf(1)
	}
	if len(points) == 1 {
		return Distance(p, points[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		if d := DistanceToSegment(p, points[i-1], points[i]); d < best {
			best = d
		}
	}
	return best
}

// WithinCorridor reports whether p lies within halfWidth of the polyline.
func WithinCorridor(p model.Point, points []model.Point, halfWidth float64) bool {
	return DistanceToPolyline(p, points) <= halfWidth
}
