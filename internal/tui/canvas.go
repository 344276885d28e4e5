package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/knagaya/kakitori/internal/geom"
	"github.com/knagaya/kakitori/internal/kanjivg"
	"github.com/knagaya/kakitori/internal/model"
)

type cellStyle int

const (
	styleBlank cellStyle = iota
	styleSilhouette
	styleGuide
	styleDoneInk
	styleInk
	styleNumber
)

// canvas is a character-cell raster for the 109x109 drawing area. Cells are
// roughly twice as tall as wide, so it keeps two columns per row to stay
// square on screen.
type canvas struct {
	cols  int
	rows  int
	cells []cell
}

type cell struct {
	ch    rune
	style cellStyle
}

func newCanvas(cols, rows int) *canvas {
	return &canvas{
		cols:  cols,
		rows:  rows,
		cells: make([]cell, cols*rows),
	}
}

// toCell converts a canvas-space point to a cell coordinate.
func (c *canvas) toCell(p model.Point) (int, int) {
	x := int(p.X / kanjivg.CanvasSize * float64(c.cols))
	y := int(p.Y / kanjivg.CanvasSize * float64(c.rows))
	if x < 0 {
		x = 0
	}
	if x >= c.cols {
		x = c.cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= c.rows {
		y = c.rows - 1
	}
	return x, y
}

// toPoint converts a cell coordinate back to canvas space, at the cell center.
func (c *canvas) toPoint(x, y int) model.Point {
	return model.Point{
		X: (float64(x) + 0.5) / float64(c.cols) * kanjivg.CanvasSize,
		Y: (float64(y) + 0.5) / float64(c.rows) * kanjivg.CanvasSize,
	}
}

func (c *canvas) set(x, y int, ch rune, style cellStyle) {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = cell{ch: ch, style: style}
}

// plotStroke rasterizes a polyline. Points are resampled finely enough that
// adjacent samples land in the same or neighboring cells.
func (c *canvas) plotStroke(points []model.Point, ch rune, style cellStyle) {
	for _, p := range resampleForCells(points, c.rows) {
		x, y := c.toCell(p)
		c.set(x, y, ch, style)
	}
}

// plotStrokePrefix rasterizes only the first n resampled points, for the
// stroke-order animation.
func (c *canvas) plotStrokePrefix(points []model.Point, n int, ch rune, style cellStyle) {
	samples := resampleForCells(points, c.rows)
	if n > len(samples) {
		n = len(samples)
	}
	for _, p := range samples[:n] {
		x, y := c.toCell(p)
		c.set(x, y, ch, style)
	}
}

// strokeSteps returns the animation frame count for a stroke.
func (c *canvas) strokeSteps(points []model.Point) int {
	return len(resampleForCells(points, c.rows))
}

func resampleForCells(points []model.Point, rows int) []model.Point {
	if len(points) == 0 {
		return nil
	}
	spacing := kanjivg.CanvasSize / float64(2*rows)
	if spacing <= 0 {
		spacing = 1
	}
	return geom.ResamplePoints(model.Stroke(points), spacing)
}

// plotLabel writes the stroke number at its label position.
func (c *canvas) plotLabel(ref model.ReferenceStroke, label string) {
	x, y := c.toCell(model.Point{X: ref.LabelX, Y: ref.LabelY})
	for i, r := range label {
		c.set(x+i, y, r, styleNumber)
	}
}

// render joins the raster into styled lines, grouping runs of equal style to
// keep escape sequences down.
func (c *canvas) render(styles map[cellStyle]lipgloss.Style) string {
	lines := make([]string, 0, c.rows)
	for y := 0; y < c.rows; y++ {
		var line strings.Builder
		var run strings.Builder
		runStyle := styleBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[runStyle]; ok && runStyle != styleBlank {
				line.WriteString(st.Render(run.String()))
			} else {
				line.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.cols; x++ {
			cl := c.cells[y*c.cols+x]
			ch := cl.ch
			if ch == 0 {
				ch = ' '
			}
			if cl.style != runStyle {
				flush()
				runStyle = cl.style
			}
			run.WriteRune(ch)
		}
		flush()
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
