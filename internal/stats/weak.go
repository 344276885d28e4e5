package stats

import (
	"sort"

	"github.com/knagaya/kakitori/internal/model"
)

// SelectWeak selects the glyphs most in need of practice: highest error
// rate first, shortest streak as a tiebreak. Unpracticed glyphs are skipped.
func SelectWeak(records map[string]model.PerformanceRecord, top int) []string {
	candidates := make([]string, 0, len(records))
	for glyph, rec := range records {
		if rec.TotalAttempts > 0 {
			candidates = append(candidates, glyph)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri := records[candidates[i]]
		rj := records[candidates[j]]
		ei := ErrorRate(ri)
		ej := ErrorRate(rj)
		if ei != ej {
			return ei > ej
		}
		if ri.ConsecutiveCorrect != rj.ConsecutiveCorrect {
			return ri.ConsecutiveCorrect < rj.ConsecutiveCorrect
		}
		return candidates[i] < candidates[j]
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}
