// Package session drives one character through the stroke practice flow.
package session

import (
	"fmt"
	"time"

	"github.com/knagaya/kakitori/internal/model"
	"github.com/knagaya/kakitori/internal/order"
	"github.com/knagaya/kakitori/internal/tracker"
	"github.com/knagaya/kakitori/internal/visibility"
)

// Event is reported to the host after each action, together with the render
// state to display next.
type Event struct {
	Outcome     model.Outcome
	StrokeIndex int
	Result      model.AttemptResult
	Render      visibility.RenderState
	// AutoAdvance asks the host to move to the next character.
	AutoAdvance bool
}

// Session orchestrates matching, order tracking, stats, and visibility for
// one character. The host must serialize calls; submissions are processed to
// completion one at a time.
type Session struct {
	character model.Character
	cfg       model.Config
	card      model.CardState
	ctrl      *order.Controller
	tracker   *tracker.Tracker

	hintUntil time.Time
	startedAt time.Time
	now       func() time.Time
}

// New starts a practice session. Missing or inconsistent reference stroke
// data refuses to start rather than silently skipping strokes.
func New(ch model.Character, cfg model.Config, card model.CardState, tr *tracker.Tracker) (*Session, error) {
	if err := ch.Validate(); err != nil {
		return nil, fmt.Errorf("cannot practice character: %w", err)
	}
	s := &Session{
		character: ch,
		cfg:       cfg.Clamped(),
		card:      card,
		ctrl:      order.New(ch),
		tracker:   tr,
		now:       time.Now,
	}
	s.startedAt = s.now()
	return s, nil
}

// Character returns the character being practiced.
func (s *Session) Character() model.Character {
	return s.character
}

// Done reports whether every stroke has been completed.
func (s *Session) Done() bool {
	return s.ctrl.AllComplete()
}

// CurrentTarget returns the stroke index the learner should draw next, or 0
// when the character is complete.
func (s *Session) CurrentTarget() int {
	return s.ctrl.CurrentTarget()
}

// StrokeCompleted reports whether the given stroke index is done.
func (s *Session) StrokeCompleted(index int) bool {
	return s.ctrl.Completed(index)
}

// Render recomputes the render descriptor. Hint expiry is evaluated here, so
// polling Render is all the host needs for the mode-1 hint window.
func (s *Session) Render() visibility.RenderState {
	return visibility.Compute(s.character, s.cfg, s.card, s.ctrl, s.hintUntil, s.now())
}

// Submit processes one completed drawn stroke. The returned error is a
// persistence failure only; the practice flow continues regardless.
func (s *Session) Submit(drawn model.Stroke) (Event, error) {
	if s.ctrl.AllComplete() {
		return Event{
			Outcome: model.OutcomeCharacterComplete,
			Render:  s.Render(),
		}, nil
	}

	d := s.ctrl.Submit(drawn, s.cfg)
	outcome := classify(d)

	saveErr := s.tracker.RecordAttempt(s.character.Glyph, tracker.AttemptOutcome{
		Accepted:       d.Accepted,
		ShapeError:     !d.Accepted && !d.Result.ShapePass,
		DirectionError: !d.Accepted && d.Result.ShapePass && !d.Result.DirectionPass,
	})
	if d.Accepted && d.AllComplete {
		if err := s.tracker.RecordTime(s.character.Glyph, s.now().Sub(s.startedAt)); err != nil && saveErr == nil {
			saveErr = err
		}
		if err := s.tracker.RecordCompletion(s.character.Glyph); err != nil && saveErr == nil {
			saveErr = err
		}
	}

	return Event{
		Outcome:     outcome,
		StrokeIndex: d.StrokeIndex,
		Result:      d.Result,
		Render:      s.Render(),
		AutoAdvance: d.AllComplete && s.cfg.AutoAdvance,
	}, saveErr
}

// Clear registers a redraw of the current target. Completed strokes stay
// completed.
func (s *Session) Clear() (visibility.RenderState, error) {
	s.ctrl.Clear()
	err := s.tracker.RecordRedraw(s.character.Glyph)
	return s.Render(), err
}

// RequestHint opens the hint window. Only due mode 1 renders it.
func (s *Session) RequestHint() visibility.RenderState {
	s.hintUntil = s.now().Add(visibility.HintWindow)
	return s.Render()
}

// ResetStats zeroes the persisted record for this character.
func (s *Session) ResetStats() error {
	return s.tracker.Reset(s.character.Glyph)
}

// StatsMessage returns the stats line to display for this character.
func (s *Session) StatsMessage() string {
	return s.tracker.Message(s.character.Glyph)
}

// classify maps a controller decision to the host-facing outcome. When both
// checks fail the attempt counts as a shape rejection, since shape is
// evaluated first.
func classify(d order.Decision) model.Outcome {
	switch {
	case d.Accepted && d.AllComplete:
		return model.OutcomeCharacterComplete
	case d.Accepted:
		return model.OutcomeAccepted
	case !d.Result.ShapePass:
		return model.OutcomeShapeRejected
	default:
		return model.OutcomeDirectionRejected
	}
}
