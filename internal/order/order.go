// Package order tracks stroke completion for one practiced character.
package order

import (
	"github.com/knagaya/kakitori/internal/match"
	"github.com/knagaya/kakitori/internal/model"
)

// Decision is the controller's verdict for one submitted stroke.
type Decision struct {
	Result model.AttemptResult
	// StrokeIndex is the reference stroke the attempt was scored against.
	StrokeIndex int
	Accepted    bool
	AllComplete bool
}

// Controller is the per-character stroke order state machine. The zero value
// is not usable; construct with New.
type Controller struct {
	character model.Character
	completed map[int]bool
	attempts  int
}

// New returns a controller awaiting stroke 1 of the character.
func New(ch model.Character) *Controller {
	return &Controller{
		character: ch,
		completed: map[int]bool{},
	}
}

// CurrentTarget returns the lowest-indexed incomplete stroke, or 0 when all
// strokes are complete.
func (c *Controller) CurrentTarget() int {
	for _, s := range c.character.Strokes {
		if !c.completed[s.Index] {
			return s.Index
		}
	}
	return 0
}

// Completed reports whether the stroke with the given index is done.
func (c *Controller) Completed(index int) bool {
	return c.completed[index]
}

// CompletedCount returns the number of completed strokes.
func (c *Controller) CompletedCount() int {
	return len(c.completed)
}

// AllComplete reports whether every stroke has been completed.
func (c *Controller) AllComplete() bool {
	return len(c.completed) == len(c.character.Strokes)
}

// AttemptsThisStroke returns rejected attempts since the target last changed.
func (c *Controller) AttemptsThisStroke() int {
	return c.attempts
}

// Submit scores a drawn stroke according to the order policy and updates
// completion state on acceptance. A rejected attempt leaves completion
// unchanged and increments the attempt counter.
func (c *Controller) Submit(drawn model.Stroke, cfg model.Config) Decision {
	if c.AllComplete() {
		return Decision{AllComplete: true}
	}
	var d Decision
	if cfg.StrictOrder {
		d = c.submitStrict(drawn, cfg)
	} else {
		d = c.submitRelaxed(drawn, cfg)
	}
	if d.Accepted {
		c.completed[d.StrokeIndex] = true
		c.attempts = 0
	} else {
		c.attempts++
	}
	d.AllComplete = c.AllComplete()
	return d
}

// submitStrict evaluates the attempt only against the current target.
func (c *Controller) submitStrict(drawn model.Stroke, cfg model.Config) Decision {
	target := c.CurrentTarget()
	ref := c.character.Strokes[target-1]
	result := match.Match(drawn, ref, cfg)
	return Decision{
		Result:      result,
		StrokeIndex: target,
		Accepted:    result.Accepted(),
	}
}

// submitRelaxed evaluates the attempt against every incomplete stroke and
// accepts the passing match with the highest hit ratio. When nothing passes,
// the reported result prefers a shape-passing attempt so a direction failure
// is classified as such rather than as a shape error.
func (c *Controller) submitRelaxed(drawn model.Stroke, cfg model.Config) Decision {
	best := Decision{StrokeIndex: c.CurrentTarget()}
	haveBest := false
	for _, ref := range c.character.Strokes {
		if c.completed[ref.Index] {
			continue
		}
		result := match.Match(drawn, ref, cfg)
		if result.Accepted() {
			if !best.Accepted || result.HitRatio > best.Result.HitRatio {
				best = Decision{Result: result, StrokeIndex: ref.Index, Accepted: true}
			}
			continue
		}
		if best.Accepted {
			continue
		}
		better := !haveBest ||
			(result.ShapePass && !best.Result.ShapePass) ||
			(result.ShapePass == best.Result.ShapePass && result.HitRatio > best.Result.HitRatio)
		if better {
			best = Decision{Result: result, StrokeIndex: ref.Index}
			haveBest = true
		}
	}
	return best
}

// Clear resets the attempt counter for the current target without touching
// completed strokes.
func (c *Controller) Clear() {
	c.attempts = 0
}

// Reset returns the controller to its initial state.
func (c *Controller) Reset() {
	c.completed = map[int]bool{}
	c.attempts = 0
}
