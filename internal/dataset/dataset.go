// Package dataset captures accepted drawings as handwriting samples.
package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/knagaya/kakitori/internal/kanjivg"
	"github.com/knagaya/kakitori/internal/model"
)

// sampleSize is the side length of saved sample images in pixels.
const sampleSize = 300

// Writer renders completed drawings to PNG files under a per-glyph
// directory. Samples feed recognizer training, which is outside this
// program.
type Writer struct {
	dir string
}

// NewWriter returns a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Save renders the drawn strokes (in 109x109 canvas space) as black on
// white and writes the sample. It returns the file path.
func (w *Writer) Save(glyph string, strokes []model.Stroke) (string, error) {
	if glyph == "" {
		return "", fmt.Errorf("sample glyph is empty")
	}
	if len(strokes) == 0 {
		return "", fmt.Errorf("sample for %q has no strokes", glyph)
	}

	dc := render(strokes)
	glyphDir := filepath.Join(w.dir, glyph)
	if err := os.MkdirAll(glyphDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create sample dir: %w", err)
	}
	path := filepath.Join(glyphDir, uuid.New().String()+".png")
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to write sample: %w", err)
	}
	return path, nil
}

// Render draws the strokes as a recognizer-ready PNG and returns the
// encoded bytes.
func Render(strokes []model.Stroke) ([]byte, error) {
	if len(strokes) == 0 {
		return nil, fmt.Errorf("nothing drawn")
	}
	var buf bytes.Buffer
	if err := render(strokes).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode drawing: %w", err)
	}
	return buf.Bytes(), nil
}

func render(strokes []model.Stroke) *gg.Context {
	dc := gg.NewContext(sampleSize, sampleSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	scale := float64(sampleSize) / kanjivg.CanvasSize
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(4 * scale)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	for _, stroke := range strokes {
		if len(stroke) == 0 {
			continue
		}
		dc.MoveTo(stroke[0].X*scale, stroke[0].Y*scale)
		for _, p := range stroke[1:] {
			dc.LineTo(p.X*scale, p.Y*scale)
		}
		dc.Stroke()
	}
	return dc
}

// Count returns the number of stored samples for a glyph.
func (w *Writer) Count(glyph string) (int, error) {
	entries, err := os.ReadDir(filepath.Join(w.dir, glyph))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".png" {
			count++
		}
	}
	return count, nil
}
