// Package model defines shared data structures.
package model

import "fmt"

// Point is a 2D coordinate in canvas space.
type Point struct {
	X float64
	Y float64
}

// Stroke is an ordered sequence of points captured during one drag gesture.
type Stroke []Point

// ReferenceStroke is the canonical idealized path for one stroke of a character.
type ReferenceStroke struct {
	// Index is 1-based and defines canonical drawing order.
	Index  int
	Points []Point
	// LabelX/LabelY position the stroke number on the 109x109 canvas.
	LabelX float64
	LabelY float64
	// CorridorWidth overrides the configured corridor width when > 0.
	CorridorWidth float64
}

// Character is an ordered set of reference strokes identified by its glyph.
type Character struct {
	Glyph   string
	Strokes []ReferenceStroke
}

// Validate checks that the character's stroke data is usable for practice.
func (c Character) Validate() error {
	if c.Glyph == "" {
		return fmt.Errorf("character has no glyph")
	}
	if len(c.Strokes) == 0 {
		return fmt.Errorf("character %q has no strokes", c.Glyph)
	}
	for i, s := range c.Strokes {
		if s.Index != i+1 {
			return fmt.Errorf("character %q: stroke %d has index %d", c.Glyph, i+1, s.Index)
		}
		if len(s.Points) < 2 {
			return fmt.Errorf("character %q: stroke %d has %d points", c.Glyph, s.Index, len(s.Points))
		}
	}
	return nil
}

// AttemptResult is the outcome of matching one drawn stroke against one
// reference stroke. Transient, not persisted.
type AttemptResult struct {
	ShapePass     bool
	DirectionPass bool
	HitRatio      float64
}

// Accepted reports whether the attempt passed both checks.
func (r AttemptResult) Accepted() bool {
	return r.ShapePass && r.DirectionPass
}

// PerformanceRecord accumulates per-character counters across sessions.
type PerformanceRecord struct {
	TotalAttempts      int
	ConsecutiveCorrect int
	ShapeErrors        int
	DirectionErrors    int
	Redraws            int
	TotalTimeMs        int64
}

// Config holds validated engine settings.
type Config struct {
	// HitRatio is the minimum in-corridor fraction for a shape pass (0-1).
	HitRatio float64
	// CorridorWidth is the full corridor width in canvas pixels.
	CorridorWidth float64
	CheckDirection bool
	StrictOrder    bool
	AutoAdvance    bool
	DueMode        int
}

// Default engine settings, matching the documented config defaults.
const (
	DefaultHitRatio      = 0.6
	DefaultCorridorWidth = 10.0
	DefaultDueMode       = 1
)

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		HitRatio:       DefaultHitRatio,
		CorridorWidth:  DefaultCorridorWidth,
		CheckDirection: true,
		StrictOrder:    true,
		DueMode:        DefaultDueMode,
	}
}

// Clamped returns a copy with out-of-range values pulled to the nearest bound.
func (c Config) Clamped() Config {
	if c.HitRatio < 0 {
		c.HitRatio = 0
	}
	if c.HitRatio > 1 {
		c.HitRatio = 1
	}
	if c.CorridorWidth <= 0 {
		c.CorridorWidth = DefaultCorridorWidth
	}
	if c.DueMode < 1 {
		c.DueMode = 1
	}
	if c.DueMode > 3 {
		c.DueMode = 3
	}
	return c
}

// CardState mirrors the host scheduler's card phase.
type CardState int

// Card phases as supplied by the host.
const (
	CardNew CardState = iota
	CardLearning
	CardReview
	CardRelearning
)

// Due reports whether the card is in a review phase. New and learning cards
// always get full visual help regardless of the configured due mode.
func (s CardState) Due() bool {
	return s == CardReview || s == CardRelearning
}

// Outcome is the event reported to the host after a stroke submission.
type Outcome int

// Stroke submission outcomes.
const (
	OutcomeAccepted Outcome = iota
	OutcomeShapeRejected
	OutcomeDirectionRejected
	OutcomeCharacterComplete
)

// String returns the wire tag for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeShapeRejected:
		return "shape-rejected"
	case OutcomeDirectionRejected:
		return "direction-rejected"
	case OutcomeCharacterComplete:
		return "character-complete"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}
