package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

const bannerWidth = 120

// TextRenderer writes the plain-text report: a run header, a one-line
// summary per pair, and a numbered check section per comparison.
type TextRenderer struct {
	// MaxMismatches caps the mismatch lines per comparison. Zero prints
	// every mismatch.
	MaxMismatches int
}

var _ Renderer = TextRenderer{}

func (t TextRenderer) Render(rep domain.Report, path string) error {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	b.WriteString(banner + "\n")
	b.WriteString("RECONCILIATION REPORT\n")
	fmt.Fprintf(&b, "run %s  generated %s  tolerance %g  percent policy %s\n",
		rep.RunID, rep.GeneratedAt, rep.Tolerance, rep.PercentPolicy)
	b.WriteString(banner + "\n\n")

	b.WriteString("SUMMARY\n")
	for _, row := range rep.Summary {
		fmt.Fprintf(&b, "  %-28s %-8s %s\n", row.Label, statusLine(row.Status), row.Detail)
	}
	fmt.Fprintf(&b, "\n  %d passed, %d failed, %d errored, %d skipped\n\n",
		rep.CountByStatus(domain.StatusPassed),
		rep.CountByStatus(domain.StatusFailed),
		rep.CountByStatus(domain.StatusErrored),
		rep.CountByStatus(domain.StatusSkipped))

	for _, o := range rep.Outcomes {
		t.writeOutcome(&b, o)
	}

	b.WriteString(banner + "\n")
	if rep.AllPassed {
		b.WriteString("OVERALL: PASS\n")
	} else {
		b.WriteString("OVERALL: FAIL\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}

func (t TextRenderer) writeOutcome(b *strings.Builder, o domain.Outcome) {
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", bannerWidth))
	fmt.Fprintf(b, "PAIR: %s  [%s]\n\n", o.Label, statusLine(o.Status))

	if o.Status == domain.StatusErrored || o.Status == domain.StatusSkipped {
		fmt.Fprintf(b, "  reason: %s\n\n", o.Err)
		return
	}
	r := o.Result
	if r == nil {
		return
	}

	fmt.Fprintf(b, "  comparing %s (reference) against %s (candidate)\n\n", r.ReferenceLabel, r.CandidateLabel)

	check := 0
	next := func(name string, pass bool, warn bool) {
		check++
		status := "PASS"
		if warn {
			status = "WARN"
		} else if !pass {
			status = "FAIL"
		}
		fmt.Fprintf(b, "  %d. %-16s %s\n", check, name, status)
	}

	next("ROW COUNT", r.RowCountMatch, false)
	fmt.Fprintf(b, "       reference %d, candidate %d, delta %+d\n", r.ReferenceRows, r.CandidateRows, r.RowDelta)

	next("COLUMN COUNT", r.ColumnCountMatch, false)
	fmt.Fprintf(b, "       reference %d, candidate %d, delta %+d\n", r.ReferenceColumns, r.CandidateColumns, r.ColumnDelta)

	next("COLUMN MAPPING", true, !r.Mapping.Complete())
	fmt.Fprintf(b, "       %d mapped", len(r.Mapping.Pairs))
	if len(r.Mapping.ReferenceOnly) > 0 {
		fmt.Fprintf(b, ", reference only: %s", strings.Join(r.Mapping.ReferenceOnly, ", "))
	}
	if len(r.Mapping.CandidateOnly) > 0 {
		fmt.Fprintf(b, ", candidate only: %s", strings.Join(r.Mapping.CandidateOnly, ", "))
	}
	b.WriteString("\n")

	nullFailures := 0
	for _, a := range r.NullAudits {
		if a.Delta != 0 {
			nullFailures++
		}
	}
	next("NULL COUNTS", nullFailures == 0, false)
	for _, a := range r.NullAudits {
		if a.Delta == 0 {
			continue
		}
		fmt.Fprintf(b, "       %s: reference %d, candidate %d, delta %+d\n",
			a.Column, a.ReferenceNulls, a.CandidateNulls, a.Delta)
	}
	if nullFailures == 0 {
		fmt.Fprintf(b, "       %d columns audited, no drift\n", len(r.NullAudits))
	}

	next("DUPLICATE ROWS", true, r.ReferenceDuplicates > 0 || r.CandidateDuplicates > 0)
	fmt.Fprintf(b, "       reference %d, candidate %d\n", r.ReferenceDuplicates, r.CandidateDuplicates)

	next("CELL AUDIT", len(r.Mismatches) == 0, false)
	fmt.Fprintf(b, "       %d rows audited (%s alignment, %d paired), %d mismatches\n",
		r.RowsAudited, r.Alignment.Mode, r.Alignment.PairedRows, len(r.Mismatches))

	shown := len(r.Mismatches)
	if t.MaxMismatches > 0 && t.MaxMismatches < shown {
		shown = t.MaxMismatches
	}
	for _, mm := range r.Mismatches[:shown] {
		fmt.Fprintf(b, "         row %d %s: %q vs %q (%s)\n",
			mm.RowIndex, mm.Column, mm.Reference, mm.Candidate, mm.Kind)
	}
	if shown < len(r.Mismatches) {
		fmt.Fprintf(b, "         ... %d more\n", len(r.Mismatches)-shown)
	}
	b.WriteString("\n")
}
