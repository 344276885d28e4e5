// Package visibility decides which reference strokes are rendered.
package visibility

import (
	"time"

	"github.com/knagaya/kakitori/internal/model"
	"github.com/knagaya/kakitori/internal/order"
)

// HintWindow is how long a requested hint stays visible in due mode 1.
const HintWindow = 3 * time.Second

// StrokeView describes how one reference stroke should be rendered.
type StrokeView struct {
	Index      int
	Silhouette bool
	Number     bool
	Animated   bool
}

// RenderState is the full render descriptor for the practiced character.
type RenderState struct {
	Strokes     []StrokeView
	HintEnabled bool
	// HintActive reports whether a requested hint is still inside its window.
	HintActive bool
}

// Compute derives the render state from the due mode, card phase, order
// state, and the hint expiry timestamp. It has no side effects; hint expiry
// is re-evaluated on every call rather than by a timer.
func Compute(ch model.Character, cfg model.Config, card model.CardState, ctrl *order.Controller, hintUntil, now time.Time) RenderState {
	mode := cfg.Clamped().DueMode
	if !card.Due() {
		// New and learning cards always get full help.
		mode = 2
	}

	target := ctrl.CurrentTarget()
	hintActive := mode == 1 && now.Before(hintUntil)

	state := RenderState{
		Strokes:     make([]StrokeView, 0, len(ch.Strokes)),
		HintEnabled: mode == 1 && card.Due(),
		HintActive:  hintActive,
	}
	for _, ref := range ch.Strokes {
		view := StrokeView{Index: ref.Index}
		done := ctrl.Completed(ref.Index)
		current := ref.Index == target && target != 0
		switch mode {
		case 1:
			firstUntouched := ref.Index == 1 && ctrl.CompletedCount() == 0
			show := done || firstUntouched || (current && hintActive)
			view.Silhouette = show
			view.Number = show
			view.Animated = firstUntouched || (current && hintActive)
		case 2:
			view.Silhouette = true
			view.Number = true
			view.Animated = current
		case 3:
			view.Silhouette = done || current
			view.Animated = current
		}
		state.Strokes = append(state.Strokes, view)
	}
	return state
}
