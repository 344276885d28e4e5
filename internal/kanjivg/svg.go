package kanjivg

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/knagaya/kakitori/internal/model"
)

// CanvasSize is the side length of the KanjiVG drawing area.
const CanvasSize = 109.0

var labelMatrixRe = regexp.MustCompile(`matrix\([^)]* ([\d.\-]+)[ ,]+([\d.\-]+)\)`)

// RawStroke is one stroke as stored in the cache file: the SVG path data and
// the stroke number label position.
type RawStroke struct {
	Index  int     `json:"index"`
	D      string  `json:"d"`
	LabelX float64 `json:"label_x"`
	LabelY float64 `json:"label_y"`
}

type strokeLabel struct {
	num int
	x   float64
	y   float64
}

// Extract pulls the raw stroke data for a glyph out of a KanjiVG SVG
// document. Stroke order follows document order of the path elements; number
// label positions come from the StrokeNumbers group when present.
func Extract(svgText, glyph string) ([]RawStroke, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(svgText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	group := findStrokeGroup(doc, glyph)
	if group == nil {
		return nil, fmt.Errorf("no stroke group found for %q", glyph)
	}

	var raw []RawStroke
	group.Find("path").Each(func(_ int, sel *goquery.Selection) {
		d, ok := sel.Attr("d")
		if !ok || d == "" {
			return
		}
		raw = append(raw, RawStroke{Index: len(raw) + 1, D: d})
	})
	if len(raw) == 0 {
		return nil, fmt.Errorf("no strokes found for %q", glyph)
	}

	labels := findStrokeLabels(doc)
	if len(labels) == len(raw) {
		sort.Slice(labels, func(i, j int) bool { return labels[i].num < labels[j].num })
		for i := range raw {
			raw[i].LabelX = labels[i].x
			raw[i].LabelY = labels[i].y
		}
	}
	return raw, nil
}

// Build flattens raw stroke data into a practice-ready character.
func Build(glyph string, raw []RawStroke) (model.Character, error) {
	strokes := make([]model.ReferenceStroke, 0, len(raw))
	for i, rs := range raw {
		points, err := FlattenPath(rs.D)
		if err != nil {
			return model.Character{}, fmt.Errorf("stroke %d of %q: %w", i+1, glyph, err)
		}
		strokes = append(strokes, model.ReferenceStroke{
			Index:  i + 1,
			Points: points,
			LabelX: rs.LabelX,
			LabelY: rs.LabelY,
		})
	}
	ch := model.Character{Glyph: glyph, Strokes: strokes}
	if err := ch.Validate(); err != nil {
		return model.Character{}, err
	}
	return ch, nil
}

// Parse extracts and flattens the reference strokes for a glyph.
func Parse(svgText, glyph string) (model.Character, error) {
	raw, err := Extract(svgText, glyph)
	if err != nil {
		return model.Character{}, err
	}
	return Build(glyph, raw)
}

// findStrokeGroup locates the group annotated with the glyph.
func findStrokeGroup(doc *goquery.Document, glyph string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("g").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, ok := sel.Attr("kvg:element"); ok && v == glyph {
			found = sel
			return false
		}
		return true
	})
	return found
}

func findStrokeLabels(doc *goquery.Document) []strokeLabel {
	var labels []strokeLabel
	doc.Find("g").Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Attr("id")
		if !ok || !strings.HasPrefix(id, "kvg:StrokeNumbers_") {
			return
		}
		sel.Find("text").Each(func(_ int, text *goquery.Selection) {
			transform, ok := text.Attr("transform")
			if !ok {
				return
			}
			m := labelMatrixRe.FindStringSubmatch(transform)
			if m == nil {
				return
			}
			x, errX := strconv.ParseFloat(m[1], 64)
			y, errY := strconv.ParseFloat(m[2], 64)
			if errX != nil || errY != nil {
				return
			}
			num, err := strconv.Atoi(strings.TrimSpace(text.Text()))
			if err != nil {
				return
			}
			labels = append(labels, strokeLabel{num: num, x: x, y: y})
		})
	})
	return labels
}
