package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/knagaya/kakitori/internal/model"
)

func TestErrorRate(t *testing.T) {
	if got := ErrorRate(model.PerformanceRecord{}); got != 0 {
		t.Fatalf("error rate with no attempts = %v", got)
	}
	rec := model.PerformanceRecord{TotalAttempts: 10, ShapeErrors: 2, DirectionErrors: 1}
	if got := ErrorRate(rec); got != 0.3 {
		t.Fatalf("error rate = %v, want 0.3", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("sparkline of nothing = %q", got)
	}
	flat := Sparkline([]float64{2, 2, 2})
	if len(flat) != 3 || flat != strings.Repeat(string(flat[0]), 3) {
		t.Fatalf("flat sparkline = %q", flat)
	}
	ramp := Sparkline([]float64{0, 5, 10})
	if len(ramp) != 3 {
		t.Fatalf("ramp sparkline = %q", ramp)
	}
	if ramp[0] != ' ' || ramp[2] != '@' {
		t.Fatalf("ramp extremes = %q", ramp)
	}
}

func TestSelectWeak(t *testing.T) {
	records := map[string]model.PerformanceRecord{
		"木": {TotalAttempts: 10, ShapeErrors: 5},
		"本": {TotalAttempts: 10, ShapeErrors: 1},
		"日": {TotalAttempts: 10, ShapeErrors: 8},
		"未": {},
	}
	weak := SelectWeak(records, 2)
	if len(weak) != 2 {
		t.Fatalf("selected %d glyphs, want 2", len(weak))
	}
	if weak[0] != "日" || weak[1] != "木" {
		t.Fatalf("weak order = %v", weak)
	}
	// Unpracticed glyphs never qualify.
	for _, glyph := range SelectWeak(records, 0) {
		if glyph == "未" {
			t.Fatal("unpracticed glyph selected as weak")
		}
	}
}

func TestSelectWeakStreakTiebreak(t *testing.T) {
	records := map[string]model.PerformanceRecord{
		"木": {TotalAttempts: 10, ShapeErrors: 2, ConsecutiveCorrect: 5},
		"本": {TotalAttempts: 10, ShapeErrors: 2, ConsecutiveCorrect: 1},
	}
	weak := SelectWeak(records, 2)
	if weak[0] != "本" {
		t.Fatalf("shorter streak should rank first: %v", weak)
	}
}

func TestFormatTableWideGlyphs(t *testing.T) {
	headers := []string{"Char", "Attempts"}
	rows := [][]string{
		{"本", "3"},
		{"x", "12"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	// The kanji is two columns wide; every row must align to the same width.
	width := displayWidth(lines[0])
	for i, line := range lines {
		if displayWidth(line) != width {
			t.Fatalf("line %d width %d, want %d: %q", i, displayWidth(line), width, line)
		}
	}
	if !strings.HasSuffix(lines[2], "12") {
		t.Fatalf("numeric column not right-aligned: %q", lines[2])
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if !strings.Contains(buf.String(), "No practice history found.") {
		t.Fatalf("empty summary = %q", buf.String())
	}

	buf.Reset()
	records := map[string]model.PerformanceRecord{
		"本": {TotalAttempts: 10, ShapeErrors: 2, DirectionErrors: 1, ConsecutiveCorrect: 3, TotalTimeMs: 9000},
		"木": {TotalAttempts: 4, ConsecutiveCorrect: 1, TotalTimeMs: 3000},
	}
	if err := RenderSummary(&buf, records); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Characters: 2", "Stroke attempts: 14", "2 shape, 1 direction", "Avg streak: 2.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCharTable(t *testing.T) {
	var buf bytes.Buffer
	records := map[string]model.PerformanceRecord{
		"本": {TotalAttempts: 10, ShapeErrors: 5},
		"木": {TotalAttempts: 10, ShapeErrors: 1},
	}
	if err := RenderCharTable(&buf, records); err != nil {
		t.Fatalf("RenderCharTable: %v", err)
	}
	out := buf.String()
	weakPos := strings.Index(out, "本")
	strongPos := strings.Index(out, "木")
	if weakPos == -1 || strongPos == -1 {
		t.Fatalf("glyphs missing from table:\n%s", out)
	}
	if weakPos > strongPos {
		t.Fatalf("weakest glyph should come first:\n%s", out)
	}
}
