package session

import (
	"context"
	"testing"

	"github.com/knagaya/kakitori/internal/model"
	"github.com/knagaya/kakitori/internal/tracker"
)

type memStore struct {
	records map[string]model.PerformanceRecord
}

func (s *memStore) LoadAll(context.Context) (map[string]model.PerformanceRecord, error) {
	return s.records, nil
}

func (s *memStore) Save(_ context.Context, glyph string, rec model.PerformanceRecord) error {
	s.records[glyph] = rec
	return nil
}

func crossCharacter() model.Character {
	return model.Character{
		Glyph: "十",
		Strokes: []model.ReferenceStroke{
			{Index: 1, Points: []model.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}},
			{Index: 2, Points: []model.Point{{X: 50, Y: 10}, {X: 50, Y: 90}}},
		},
	}
}

func newSession(t *testing.T, cfg model.Config, card model.CardState) (*Session, *tracker.Tracker) {
	t.Helper()
	tr, err := tracker.New(&memStore{records: map[string]model.PerformanceRecord{}})
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	sess, err := New(crossCharacter(), cfg, card, tr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sess, tr
}

func TestRejectsInvalidCharacter(t *testing.T) {
	tr, err := tracker.New(nil)
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	bad := model.Character{Glyph: "本"}
	if _, err := New(bad, model.DefaultConfig(), model.CardNew, tr); err == nil {
		t.Fatal("session started on a character with no strokes")
	}
}

func TestPracticeFlow(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.DueMode = 2
	sess, tr := newSession(t, cfg, model.CardReview)
	ch := sess.Character()

	// Stroke 1 traced correctly.
	ev, err := sess.Submit(model.Stroke(ch.Strokes[0].Points))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ev.Outcome != model.OutcomeAccepted || ev.StrokeIndex != 1 {
		t.Fatalf("first stroke event = %+v", ev)
	}
	if !sess.StrokeCompleted(1) || sess.CurrentTarget() != 2 {
		t.Fatal("stroke 1 not marked complete")
	}

	// Stroke 2 drawn bottom-to-top: shape fine, direction wrong.
	reversedStroke := model.Stroke{{X: 50, Y: 90}, {X: 50, Y: 10}}
	ev, err = sess.Submit(reversedStroke)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ev.Outcome != model.OutcomeDirectionRejected {
		t.Fatalf("reversed stroke outcome = %v, want direction-rejected", ev.Outcome)
	}
	if rec := tr.Get("十"); rec.DirectionErrors != 1 || rec.ShapeErrors != 0 {
		t.Fatalf("record after direction failure = %+v", rec)
	}

	// Stroke 2 traced correctly: character complete.
	ev, err = sess.Submit(model.Stroke(ch.Strokes[1].Points))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ev.Outcome != model.OutcomeCharacterComplete {
		t.Fatalf("final outcome = %v, want character-complete", ev.Outcome)
	}
	if !sess.Done() {
		t.Fatal("session not done after all strokes")
	}

	rec := tr.Get("十")
	if rec.TotalAttempts != 3 {
		t.Fatalf("TotalAttempts = %d, want 3", rec.TotalAttempts)
	}
	// The run had an error, so the streak resets.
	if rec.ConsecutiveCorrect != 0 {
		t.Fatalf("streak = %d, want 0", rec.ConsecutiveCorrect)
	}
	if rec.TotalTimeMs < 0 {
		t.Fatalf("TotalTimeMs = %d", rec.TotalTimeMs)
	}
}

func TestCleanRunExtendsStreak(t *testing.T) {
	cfg := model.DefaultConfig()
	tr, err := tracker.New(&memStore{records: map[string]model.PerformanceRecord{}})
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	ch := crossCharacter()

	for run := 1; run <= 2; run++ {
		sess, err := New(ch, cfg, model.CardReview, tr)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for _, ref := range ch.Strokes {
			if _, err := sess.Submit(model.Stroke(ref.Points)); err != nil {
				t.Fatalf("Submit: %v", err)
			}
		}
		if got := tr.Get("十").ConsecutiveCorrect; got != run {
			t.Fatalf("streak after run %d = %d", run, got)
		}
	}
}

func TestSubmitAfterCompletion(t *testing.T) {
	cfg := model.DefaultConfig()
	sess, _ := newSession(t, cfg, model.CardReview)
	ch := sess.Character()
	for _, ref := range ch.Strokes {
		if _, err := sess.Submit(model.Stroke(ref.Points)); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	ev, err := sess.Submit(model.Stroke(ch.Strokes[0].Points))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ev.Outcome != model.OutcomeCharacterComplete {
		t.Fatalf("post-completion outcome = %v", ev.Outcome)
	}
}

func TestClearRecordsRedraw(t *testing.T) {
	cfg := model.DefaultConfig()
	sess, tr := newSession(t, cfg, model.CardReview)

	if _, err := sess.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := tr.Get("十").Redraws; got != 1 {
		t.Fatalf("redraws = %d, want 1", got)
	}
}

func TestHintOnlyInDueMode1(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.DueMode = 1
	sess, _ := newSession(t, cfg, model.CardReview)
	ch := sess.Character()

	if _, err := sess.Submit(model.Stroke(ch.Strokes[0].Points)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	state := sess.Render()
	if state.Strokes[1].Silhouette {
		t.Fatal("current stroke visible before a hint")
	}
	state = sess.RequestHint()
	if !state.HintActive || !state.Strokes[1].Silhouette {
		t.Fatalf("hint not shown: %+v", state)
	}

	// AutoAdvance is requested only when configured.
	ev, err := sess.Submit(model.Stroke(ch.Strokes[1].Points))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ev.AutoAdvance {
		t.Fatal("auto-advance requested without the setting")
	}
}

func TestAutoAdvanceOnCompletion(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.AutoAdvance = true
	sess, _ := newSession(t, cfg, model.CardReview)
	ch := sess.Character()

	for i, ref := range ch.Strokes {
		ev, err := sess.Submit(model.Stroke(ref.Points))
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		wantAdvance := i == len(ch.Strokes)-1
		if ev.AutoAdvance != wantAdvance {
			t.Fatalf("stroke %d AutoAdvance = %v, want %v", i+1, ev.AutoAdvance, wantAdvance)
		}
	}
}

func TestStatsMessageAndReset(t *testing.T) {
	cfg := model.DefaultConfig()
	sess, tr := newSession(t, cfg, model.CardReview)

	if got := sess.StatsMessage(); got != "First time practicing this character" {
		t.Fatalf("fresh message = %q", got)
	}
	ch := sess.Character()
	for _, ref := range ch.Strokes {
		if _, err := sess.Submit(model.Stroke(ref.Points)); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	if err := sess.ResetStats(); err != nil {
		t.Fatalf("ResetStats: %v", err)
	}
	if rec := tr.Get("十"); rec != (model.PerformanceRecord{}) {
		t.Fatalf("record after reset = %+v", rec)
	}
}
