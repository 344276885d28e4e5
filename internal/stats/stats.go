// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/knagaya/kakitori/internal/model"
)

const sparkChars = " .:-=+*#%@"

// ErrorRate computes the fraction of attempts on a character that were
// rejected.
func ErrorRate(rec model.PerformanceRecord) float64 {
	if rec.TotalAttempts <= 0 {
		return 0
	}
	errors := rec.ShapeErrors + rec.DirectionErrors
	return float64(errors) / float64(rec.TotalAttempts)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals across all practiced characters.
func RenderSummary(w io.Writer, records map[string]model.PerformanceRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No practice history found.")
		return err
	}

	var attempts, shapeErrs, dirErrs, redraws int
	var streaks []float64
	var timesSec []float64
	for _, rec := range records {
		attempts += rec.TotalAttempts
		shapeErrs += rec.ShapeErrors
		dirErrs += rec.DirectionErrors
		redraws += rec.Redraws
		streaks = append(streaks, float64(rec.ConsecutiveCorrect))
		if rec.TotalTimeMs > 0 {
			timesSec = append(timesSec, float64(rec.TotalTimeMs)/1000.0)
		}
	}
	errRate := 0.0
	if attempts > 0 {
		errRate = float64(shapeErrs+dirErrs) / float64(attempts)
	}

	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Characters: %d\n", len(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Stroke attempts: %d\n", attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Errors: %d shape, %d direction (%.1f%%)\n", shapeErrs, dirErrs, errRate*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Redraws: %d\n", redraws); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg streak: %.1f\n", stat.Mean(streaks, nil)); err != nil {
		return err
	}
	if len(timesSec) > 0 {
		mean := stat.Mean(timesSec, nil)
		sd := stat.StdDev(timesSec, nil)
		if len(timesSec) < 2 || math.IsNaN(sd) {
			sd = 0
		}
		if _, err := fmt.Fprintf(w, "Practice time per character: %.1fs avg (sd %.1fs)\n", mean, sd); err != nil {
			return err
		}
	}
	if spark := errorRateSparkline(records); spark != "" {
		if _, err := fmt.Fprintf(w, "Error rate by character: %s\n", spark); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// errorRateSparkline plots per-character error rates in glyph order,
// truncated to the terminal width.
func errorRateSparkline(records map[string]model.PerformanceRecord) string {
	glyphs := make([]string, 0, len(records))
	for glyph := range records {
		glyphs = append(glyphs, glyph)
	}
	sort.Strings(glyphs)
	values := make([]float64, 0, len(glyphs))
	for _, glyph := range glyphs {
		values = append(values, ErrorRate(records[glyph]))
	}
	if max := TerminalWidth() - 25; max > 0 && len(values) > max {
		values = values[:max]
	}
	return Sparkline(values)
}

// RenderCharTable prints per-character records, weakest characters first.
func RenderCharTable(w io.Writer, records map[string]model.PerformanceRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	type row struct {
		glyph string
		rec   model.PerformanceRecord
		rate  float64
	}
	rows := make([]row, 0, len(records))
	for glyph, rec := range records {
		rows = append(rows, row{glyph: glyph, rec: rec, rate: ErrorRate(rec)})
	}
	// Sort by highest error rate, then lowest streak.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].rate != rows[j].rate {
			return rows[i].rate > rows[j].rate
		}
		if rows[i].rec.ConsecutiveCorrect != rows[j].rec.ConsecutiveCorrect {
			return rows[i].rec.ConsecutiveCorrect < rows[j].rec.ConsecutiveCorrect
		}
		return rows[i].glyph < rows[j].glyph
	})

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}

	headers := []string{"Char", "Attempts", "Streak", "Shape Err", "Dir Err", "Redraws", "Error Rate", "Time (s)"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.glyph,
			fmt.Sprintf("%d", r.rec.TotalAttempts),
			fmt.Sprintf("%d", r.rec.ConsecutiveCorrect),
			fmt.Sprintf("%d", r.rec.ShapeErrors),
			fmt.Sprintf("%d", r.rec.DirectionErrors),
			fmt.Sprintf("%d", r.rec.Redraws),
			fmt.Sprintf("%.1f%%", r.rate*100),
			fmt.Sprintf("%.1f", float64(r.rec.TotalTimeMs)/1000.0),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	lines := formatTable(headers, tableRows, rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
