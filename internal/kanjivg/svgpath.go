// Package kanjivg loads reference stroke data in the KanjiVG format.
package kanjivg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/knagaya/kakitori/internal/model"
)

// curveSteps is the number of line segments each Bezier command is
// flattened into. KanjiVG paths live on a 109x109 canvas, so this keeps
// segments well under a pixel.
const curveSteps = 16

// FlattenPath converts an SVG path `d` attribute into a polyline. Supported
// commands are M/L/H/V/C/S/Q/T in absolute and relative form; Z closes the
// subpath. Curves are flattened by uniform parameter sampling.
func FlattenPath(d string) ([]model.Point, error) {
	p := &pathScanner{data: d}
	var points []model.Point
	var cur, start model.Point
	var prevCtrl model.Point
	var prevCmd byte

	appendPoint := func(pt model.Point) {
		if len(points) > 0 {
			last := points[len(points)-1]
			if last == pt {
				return
			}
		}
		points = append(points, pt)
	}

	flattenCubic := func(p0, p1, p2, p3 model.Point) {
		for i := 1; i <= curveSteps; i++ {
			t := float64(i) / curveSteps
			mt := 1 - t
			appendPoint(model.Point{
				X: mt*mt*mt*p0.X + 3*mt*mt*t*p1.X + 3*mt*t*t*p2.X + t*t*t*p3.X,
				Y: mt*mt*mt*p0.Y + 3*mt*mt*t*p1.Y + 3*mt*t*t*p2.Y + t*t*t*p3.Y,
			})
		}
	}
	flattenQuad := func(p0, p1, p2 model.Point) {
		for i := 1; i <= curveSteps; i++ {
			t := float64(i) / curveSteps
			mt := 1 - t
			appendPoint(model.Point{
				X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
				Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
			})
		}
	}

	for {
		cmd, ok := p.nextCommand()
		if !ok {
			break
		}
		rel := cmd >= 'a' && cmd <= 'z'
		upper := cmd
		if rel {
			upper = cmd - 'a' + 'A'
		}
		switch upper {
		case 'M':
			x, y, err := p.pair()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
				y += cur.Y
			}
			cur = model.Point{X: x, Y: y}
			start = cur
			appendPoint(cur)
			// Extra coordinate pairs after a move are implicit line-tos.
			for p.hasNumber() {
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					x += cur.X
					y += cur.Y
				}
				cur = model.Point{X: x, Y: y}
				appendPoint(cur)
			}
		case 'L':
			for {
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					x += cur.X
					y += cur.Y
				}
				cur = model.Point{X: x, Y: y}
				appendPoint(cur)
				if !p.hasNumber() {
					break
				}
			}
		case 'H':
			for {
				x, err := p.number()
				if err != nil {
					return nil, err
				}
				if rel {
					x += cur.X
				}
				cur = model.Point{X: x, Y: cur.Y}
				appendPoint(cur)
				if !p.hasNumber() {
					break
				}
			}
		case 'V':
			for {
				y, err := p.number()
				if err != nil {
					return nil, err
				}
				if rel {
					y += cur.Y
				}
				cur = model.Point{X: cur.X, Y: y}
				appendPoint(cur)
				if !p.hasNumber() {
					break
				}
			}
		case 'C':
			for {
				x1, y1, err := p.pair()
				if err != nil {
					return nil, err
				}
				x2, y2, err := p.pair()
				if err != nil {
					return nil, err
				}
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					x1 += cur.X
					y1 += cur.Y
					x2 += cur.X
					y2 += cur.Y
					x += cur.X
					y += cur.Y
				}
				c1 := model.Point{X: x1, Y: y1}
				c2 := model.Point{X: x2, Y: y2}
				end := model.Point{X: x, Y: y}
				flattenCubic(cur, c1, c2, end)
				prevCtrl = c2
				cur = end
				if !p.hasNumber() {
					break
				}
			}
		case 'S':
			for {
				x2, y2, err := p.pair()
				if err != nil {
					return nil, err
				}
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					x2 += cur.X
					y2 += cur.Y
					x += cur.X
					y += cur.Y
				}
				c1 := cur
				if prevCmd == 'C' || prevCmd == 'S' {
					c1 = model.Point{X: 2*cur.X - prevCtrl.X, Y: 2*cur.Y - prevCtrl.Y}
				}
				c2 := model.Point{X: x2, Y: y2}
				end := model.Point{X: x, Y: y}
				flattenCubic(cur, c1, c2, end)
				prevCtrl = c2
				cur = end
				prevCmd = 'S'
				if !p.hasNumber() {
					break
				}
			}
		case 'Q':
			for {
				x1, y1, err := p.pair()
				if err != nil {
					return nil, err
				}
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					x1 += cur.X
					y1 += cur.Y
					x += cur.X
					y += cur.Y
				}
				c1 := model.Point{X: x1, Y: y1}
				end := model.Point{X: x, Y: y}
				flattenQuad(cur, c1, end)
				prevCtrl = c1
				cur = end
				if !p.hasNumber() {
					break
				}
			}
		case 'T':
			for {
				x, y, err := p.pair()
				if err != nil {
					return nil, err
				}
				if rel {
					x += cur.X
					y += cur.Y
				}
				c1 := cur
				if prevCmd == 'Q' || prevCmd == 'T' {
					c1 = model.Point{X: 2*cur.X - prevCtrl.X, Y: 2*cur.Y - prevCtrl.Y}
				}
				end := model.Point{X: x, Y: y}
				flattenQuad(cur, c1, end)
				prevCtrl = c1
				cur = end
				prevCmd = 'T'
				if !p.hasNumber() {
					break
				}
			}
		case 'Z':
			cur = start
			appendPoint(cur)
		default:
			return nil, fmt.Errorf("unsupported path command %q", string(cmd))
		}
		switch upper {
		case 'S', 'T':
			// prevCmd already set inside the loop.
		default:
			prevCmd = upper
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

// pathScanner tokenizes an SVG path data string.
type pathScanner struct {
	data string
	pos  int
}

func (p *pathScanner) skipSeparators() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' {
			p.pos++
			continue
		}
		return
	}
}

func (p *pathScanner) nextCommand() (byte, bool) {
	p.skipSeparators()
	if p.pos >= len(p.data) {
		return 0, false
	}
	c := p.data[p.pos]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		p.pos++
		return c, true
	}
	return 0, false
}

func (p *pathScanner) hasNumber() bool {
	p.skipSeparators()
	if p.pos >= len(p.data) {
		return false
	}
	c := p.data[p.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (p *pathScanner) number() (float64, error) {
	p.skipSeparators()
	startPos := p.pos
	if p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
		p.pos++
	}
	seenDot := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
			p.pos++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	token := p.data[startPos:p.pos]
	if token == "" || token == "-" || token == "+" {
		return 0, fmt.Errorf("expected number at offset %d in %q", startPos, truncate(p.data, 40))
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", token, err)
	}
	return v, nil
}

func (p *pathScanner) pair() (float64, float64, error) {
	x, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	y, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
