// Package report assembles per-pair outcomes into the run report the
// renderers and publishers consume.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// Meta carries the run-level settings recorded on the report header.
type Meta struct {
	// RunID identifies the run. Empty generates a fresh UUID.
	RunID         string
	Tolerance     float64
	PercentPolicy string
}

// Aggregate builds the run report: one summary row per outcome, in the
// order given, plus the full outcome details. AllPassed is true only
// when at least one comparison ran and every outcome passed.
func Aggregate(outcomes []domain.Outcome, meta Meta) domain.Report {
	runID := meta.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	rep := domain.Report{
		RunID:         runID,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Tolerance:     meta.Tolerance,
		PercentPolicy: meta.PercentPolicy,
		Outcomes:      outcomes,
		AllPassed:     len(outcomes) > 0,
	}
	for _, o := range outcomes {
		rep.Summary = append(rep.Summary, summarize(o))
		if o.Status != domain.StatusPassed {
			rep.AllPassed = false
		}
	}
	return rep
}

func summarize(o domain.Outcome) domain.SummaryRow {
	row := domain.SummaryRow{Label: o.Label, Status: o.Status}
	if o.Status == domain.StatusErrored || o.Status == domain.StatusSkipped {
		row.Detail = o.Err
		return row
	}
	r := o.Result
	if r == nil {
		return row
	}
	row.RowDelta = r.RowDelta
	row.ColumnDelta = r.ColumnDelta
	row.NullDeltaColumns = nullDeltaColumns(r)
	row.MismatchCount = len(r.Mismatches)
	row.Detail = detail(r)
	return row
}

func nullDeltaColumns(r *domain.ComparisonResult) int {
	n := 0
	for _, a := range r.NullAudits {
		if a.Delta != 0 {
			n++
		}
	}
	return n
}

// detail is the one-line digest shown in summary tables.
func detail(r *domain.ComparisonResult) string {
	if r.OverallPass {
		return fmt.Sprintf("%d checks passed", r.Summary.Passed)
	}
	var parts []string
	if !r.RowCountMatch {
		parts = append(parts, fmt.Sprintf("row delta %+d", r.RowDelta))
	}
	if !r.ColumnCountMatch {
		parts = append(parts, fmt.Sprintf("column delta %+d", r.ColumnDelta))
	}
	if n := nullDeltaColumns(r); n > 0 {
		parts = append(parts, fmt.Sprintf("null drift in %d columns", n))
	}
	if len(r.Mismatches) > 0 {
		parts = append(parts, fmt.Sprintf("%d cell mismatches", len(r.Mismatches)))
	}
	return strings.Join(parts, "; ")
}
