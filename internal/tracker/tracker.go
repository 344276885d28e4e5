// Package tracker accumulates per-character performance records.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/knagaya/kakitori/internal/model"
)

// Store persists performance records keyed by glyph. Format and location are
// owned by the host.
type Store interface {
	LoadAll(ctx context.Context) (map[string]model.PerformanceRecord, error)
	Save(ctx context.Context, glyph string, rec model.PerformanceRecord) error
}

// AttemptOutcome classifies one stroke submission for the tracker.
type AttemptOutcome struct {
	Accepted       bool
	ShapeError     bool
	DirectionError bool
}

// Tracker owns the glyph-to-record mapping and is its sole mutator.
// Persistence failures are returned to the caller but never roll back the
// in-memory record, so a failed save cannot stall a practice session.
type Tracker struct {
	store   Store
	records map[string]model.PerformanceRecord
	// errored marks characters with at least one stroke error since the
	// current run through the character began. It decides the streak at
	// completion time.
	errored map[string]bool
}

// New builds a tracker backed by the given store. A load failure leaves the
// tracker usable with empty records and is reported to the caller.
func New(store Store) (*Tracker, error) {
	t := &Tracker{
		store:   store,
		records: map[string]model.PerformanceRecord{},
		errored: map[string]bool{},
	}
	if store == nil {
		return t, nil
	}
	loaded, err := store.LoadAll(context.Background())
	if loaded != nil {
		t.records = loaded
	}
	if err != nil {
		return t, fmt.Errorf("failed to load performance records: %w", err)
	}
	return t, nil
}

// Get returns the record for a glyph, creating a zeroed one on first access.
func (t *Tracker) Get(glyph string) model.PerformanceRecord {
	return t.records[glyph]
}

// RecordAttempt registers one stroke submission for the glyph.
func (t *Tracker) RecordAttempt(glyph string, outcome AttemptOutcome) error {
	rec := t.records[glyph]
	rec.TotalAttempts++
	if !outcome.Accepted {
		t.errored[glyph] = true
		if outcome.ShapeError {
			rec.ShapeErrors++
		} else if outcome.DirectionError {
			rec.DirectionErrors++
		}
	}
	t.records[glyph] = rec
	return t.save(glyph, rec)
}

// RecordCompletion finalizes a run through the character. A clean run
// extends the streak; any stroke error during the run resets it.
func (t *Tracker) RecordCompletion(glyph string) error {
	rec := t.records[glyph]
	if t.errored[glyph] {
		rec.ConsecutiveCorrect = 0
	} else {
		rec.ConsecutiveCorrect++
	}
	delete(t.errored, glyph)
	t.records[glyph] = rec
	return t.save(glyph, rec)
}

// RecordRedraw registers a clear/redraw action. Redraws do not break the
// clean-run streak.
func (t *Tracker) RecordRedraw(glyph string) error {
	rec := t.records[glyph]
	rec.Redraws++
	t.records[glyph] = rec
	return t.save(glyph, rec)
}

// RecordTime adds practice time for the glyph.
func (t *Tracker) RecordTime(glyph string, elapsed time.Duration) error {
	rec := t.records[glyph]
	rec.TotalTimeMs += elapsed.Milliseconds()
	t.records[glyph] = rec
	return t.save(glyph, rec)
}

// Reset zeroes all counters for the glyph.
func (t *Tracker) Reset(glyph string) error {
	rec := model.PerformanceRecord{}
	t.records[glyph] = rec
	delete(t.errored, glyph)
	return t.save(glyph, rec)
}

// CardState derives a scheduling phase from the record: unseen glyphs are
// new, short streaks are still learning, the rest are review cards.
func (t *Tracker) CardState(glyph string) model.CardState {
	rec := t.records[glyph]
	switch {
	case rec.TotalAttempts == 0:
		return model.CardNew
	case rec.ConsecutiveCorrect < 2:
		return model.CardLearning
	default:
		return model.CardReview
	}
}

// Records returns a copy of the full glyph-to-record mapping.
func (t *Tracker) Records() map[string]model.PerformanceRecord {
	out := make(map[string]model.PerformanceRecord, len(t.records))
	for glyph, rec := range t.records {
		out[glyph] = rec
	}
	return out
}

func (t *Tracker) save(glyph string, rec model.PerformanceRecord) error {
	if t.store == nil {
		return nil
	}
	if err := t.store.Save(context.Background(), glyph, rec); err != nil {
		return fmt.Errorf("failed to save record for %q: %w", glyph, err)
	}
	return nil
}

// Message derives the host-facing stats line for a glyph.
func (t *Tracker) Message(glyph string) string {
	rec := t.records[glyph]
	switch {
	case rec.TotalAttempts == 0:
		return "First time practicing this character"
	case rec.ConsecutiveCorrect == 1:
		return "Drawn correctly 1 time in a row"
	case rec.ConsecutiveCorrect > 1:
		return fmt.Sprintf("Drawn correctly %d times in a row", rec.ConsecutiveCorrect)
	default:
		return fmt.Sprintf("Attempts: %d | Errors: %d", rec.TotalAttempts, rec.ShapeErrors+rec.DirectionErrors)
	}
}
