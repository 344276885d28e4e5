package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/knagaya/kakitori/internal/kanjivg"
	"github.com/knagaya/kakitori/internal/model"
)

func TestCellPointRoundtrip(t *testing.T) {
	cv := newCanvas(60, 30)
	for _, p := range []model.Point{
		{X: 0.5, Y: 0.5},
		{X: 54, Y: 54},
		{X: 108, Y: 108},
	} {
		x, y := cv.toCell(p)
		back := cv.toPoint(x, y)
		x2, y2 := cv.toCell(back)
		if x != x2 || y != y2 {
			t.Fatalf("roundtrip for %+v: (%d,%d) vs (%d,%d)", p, x, y, x2, y2)
		}
	}
}

func TestToCellClamps(t *testing.T) {
	cv := newCanvas(60, 30)
	x, y := cv.toCell(model.Point{X: -5, Y: kanjivg.CanvasSize + 5})
	if x != 0 || y != 29 {
		t.Fatalf("clamped cell = (%d, %d)", x, y)
	}
}

func TestPlotStrokeMarksCells(t *testing.T) {
	cv := newCanvas(60, 30)
	stroke := []model.Point{{X: 10, Y: 54}, {X: 98, Y: 54}}
	cv.plotStroke(stroke, '█', styleInk)

	marked := 0
	for _, cl := range cv.cells {
		if cl.style == styleInk {
			if cl.ch != '█' {
				t.Fatalf("ink cell has rune %q", cl.ch)
			}
			marked++
		}
	}
	// A horizontal stroke across most of the canvas should fill a run of
	// cells, not just the endpoints.
	if marked < 10 {
		t.Fatalf("only %d cells marked", marked)
	}
}

func TestPlotStrokePrefix(t *testing.T) {
	cv := newCanvas(60, 30)
	stroke := []model.Point{{X: 10, Y: 54}, {X: 98, Y: 54}}

	cv.plotStrokePrefix(stroke, 0, '●', styleGuide)
	for _, cl := range cv.cells {
		if cl.style == styleGuide {
			t.Fatal("zero-length prefix marked cells")
		}
	}

	steps := cv.strokeSteps(stroke)
	cv.plotStrokePrefix(stroke, steps+100, '●', styleGuide)
	full := newCanvas(60, 30)
	full.plotStroke(stroke, '●', styleGuide)
	for i := range cv.cells {
		if cv.cells[i] != full.cells[i] {
			t.Fatal("overlong prefix differs from the full stroke")
		}
	}
}

func TestRenderDimensions(t *testing.T) {
	cv := newCanvas(20, 5)
	cv.plotLabel(model.ReferenceStroke{LabelX: 54, LabelY: 54}, "12")
	out := cv.render(canvasStyles)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("rendered %d lines, want 5", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 20 {
			t.Fatalf("line %d width = %d, want 20", i, w)
		}
	}
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Fatalf("label digits missing from render:\n%s", out)
	}
}
