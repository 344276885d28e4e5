package order

import (
	"testing"

	"github.com/knagaya/kakitori/internal/model"
)

func crossCharacter() model.Character {
	return model.Character{
		Glyph: "十",
		Strokes: []model.ReferenceStroke{
			{Index: 1, Points: []model.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}},
			{Index: 2, Points: []model.Point{{X: 50, Y: 10}, {X: 50, Y: 90}}},
		},
	}
}

func trace(ref model.ReferenceStroke) model.Stroke {
	return model.Stroke(ref.Points)
}

func reversed(ref model.ReferenceStroke) model.Stroke {
	points := ref.Points
	out := make(model.Stroke, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func TestStrictOrderRejectsOutOfOrder(t *testing.T) {
	ch := crossCharacter()
	cfg := model.DefaultConfig()
	ctrl := New(ch)

	// Drawing stroke 2 while stroke 1 is pending scores against stroke 1.
	d := ctrl.Submit(trace(ch.Strokes[1]), cfg)
	if d.Accepted {
		t.Fatal("out-of-order stroke accepted under strict order")
	}
	if d.StrokeIndex != 1 {
		t.Fatalf("scored against stroke %d, want 1", d.StrokeIndex)
	}
	if ctrl.AttemptsThisStroke() != 1 {
		t.Fatalf("attempts = %d, want 1", ctrl.AttemptsThisStroke())
	}
}

func TestStrictOrderCompletion(t *testing.T) {
	ch := crossCharacter()
	cfg := model.DefaultConfig()
	ctrl := New(ch)

	d := ctrl.Submit(trace(ch.Strokes[0]), cfg)
	if !d.Accepted || d.StrokeIndex != 1 {
		t.Fatalf("stroke 1 not accepted: %+v", d)
	}
	if d.AllComplete {
		t.Fatal("complete after one of two strokes")
	}
	if ctrl.CurrentTarget() != 2 {
		t.Fatalf("target = %d, want 2", ctrl.CurrentTarget())
	}

	d = ctrl.Submit(trace(ch.Strokes[1]), cfg)
	if !d.Accepted || !d.AllComplete {
		t.Fatalf("stroke 2 should finish the character: %+v", d)
	}
	if ctrl.CurrentTarget() != 0 {
		t.Fatalf("target after completion = %d, want 0", ctrl.CurrentTarget())
	}

	// Further submissions are no-ops.
	d = ctrl.Submit(trace(ch.Strokes[0]), cfg)
	if !d.AllComplete || d.Accepted {
		t.Fatalf("submission after completion: %+v", d)
	}
}

func TestRelaxedOrderAcceptsAnyIncomplete(t *testing.T) {
	ch := crossCharacter()
	cfg := model.DefaultConfig()
	cfg.StrictOrder = false
	ctrl := New(ch)

	d := ctrl.Submit(trace(ch.Strokes[1]), cfg)
	if !d.Accepted || d.StrokeIndex != 2 {
		t.Fatalf("stroke 2 drawn first not accepted in relaxed order: %+v", d)
	}
	d = ctrl.Submit(trace(ch.Strokes[0]), cfg)
	if !d.Accepted || !d.AllComplete {
		t.Fatalf("stroke 1 should finish the character: %+v", d)
	}
}

func TestRelaxedOrderReportsDirectionFailure(t *testing.T) {
	ch := crossCharacter()
	cfg := model.DefaultConfig()
	cfg.StrictOrder = false
	ctrl := New(ch)

	d := ctrl.Submit(reversed(ch.Strokes[1]), cfg)
	if d.Accepted {
		t.Fatal("reversed stroke accepted")
	}
	if !d.Result.ShapePass {
		t.Fatal("reversed trace should pass shape so the failure reads as direction")
	}
	if d.Result.DirectionPass {
		t.Fatal("reversed trace passed direction")
	}
	if d.StrokeIndex != 2 {
		t.Fatalf("reported stroke %d, want 2", d.StrokeIndex)
	}
}

func TestClearKeepsCompletedStrokes(t *testing.T) {
	ch := crossCharacter()
	cfg := model.DefaultConfig()
	ctrl := New(ch)

	ctrl.Submit(trace(ch.Strokes[0]), cfg)
	ctrl.Submit(reversed(ch.Strokes[1]), cfg)
	if ctrl.AttemptsThisStroke() != 1 {
		t.Fatalf("attempts = %d, want 1", ctrl.AttemptsThisStroke())
	}
	ctrl.Clear()
	if ctrl.AttemptsThisStroke() != 0 {
		t.Fatal("clear did not reset attempts")
	}
	if !ctrl.Completed(1) {
		t.Fatal("clear reset a completed stroke")
	}

	ctrl.Reset()
	if ctrl.Completed(1) || ctrl.CurrentTarget() != 1 {
		t.Fatal("reset did not return to the initial state")
	}
}
