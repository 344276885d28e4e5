// Package match compares drawn strokes against reference strokes.
package match

import (
	"math"

	"github.com/knagaya/kakitori/internal/geom"
	"github.com/knagaya/kakitori/internal/model"
)

// ResampleSpacing is the fixed arc-length spacing used before corridor
// testing, in canvas pixels. Resampling decouples the verdict from drawing
// speed and input sampling rate.
const ResampleSpacing = 2.0

// minDisplacement is the net displacement below which a stroke is treated as
// a dot or tick and the direction check is skipped.
const minDisplacement = 5.0

// Match scores one drawn stroke against one reference stroke.
//
// Shape: the drawn stroke is resampled to a fixed spacing and each sample is
// tested against the reference corridor; the hit ratio must reach the
// configured threshold. Direction: the net first-to-last displacement of the
// drawn stroke must not oppose the reference stroke's displacement.
func Match(drawn model.Stroke, ref model.ReferenceStroke, cfg model.Config) model.AttemptResult {
	cfg = cfg.Clamped()
	if len(drawn) < 2 {
		// Too short to judge coverage or direction.
		return model.AttemptResult{}
	}

	halfWidth := cfg.CorridorWidth / 2
	if ref.CorridorWidth > 0 {
		halfWidth = ref.CorridorWidth / 2
	}

	samples := geom.ResamplePoints(drawn, ResampleSpacing)
	hits := 0
	for _, p := range samples {
		if geom.WithinCorridor(p, ref.Points, halfWidth) {
			hits++
		}
	}
	hitRatio := float64(hits) / float64(len(samples))

	result := model.AttemptResult{
		HitRatio:  hitRatio,
		ShapePass: hitRatio >= cfg.HitRatio,
	}
	result.DirectionPass = directionPass(samples, ref, cfg)
	return result
}

func directionPass(samples []model.Point, ref model.ReferenceStroke, cfg model.Config) bool {
	if !cfg.CheckDirection {
		return true
	}
	first := samples[0]
	last := samples[len(samples)-1]
	ux := last.X - first.X
	uy := last.Y - first.Y
	ulen := math.Hypot(ux, uy)
	if ulen < minDisplacement {
		// Dots and ticks have no meaningful travel direction.
		return true
	}

	refFirst := ref.Points[0]
	refLast := ref.Points[len(ref.Points)-1]
	cx := refLast.X - refFirst.X
	cy := refLast.Y - refFirst.Y
	clen := math.Hypot(cx, cy)
	if clen < 1 {
		return true
	}

	dot := (ux*cx + uy*cy) / (ulen * clen)
	return dot > 0
}
