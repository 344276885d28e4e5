package stats

import (
	"context"
	"io"

	"github.com/knagaya/kakitori/internal/model"
	"github.com/knagaya/kakitori/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Records map[string]model.PerformanceRecord
}

// BuildReport loads all performance records for stats rendering.
func BuildReport(ctx context.Context, st *store.Store) (Report, error) {
	records, err := st.LoadAll(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{Records: records}, nil
}

// Render writes the summary followed by the per-character table.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.Records); err != nil {
		return err
	}
	return RenderCharTable(w, r.Records)
}
