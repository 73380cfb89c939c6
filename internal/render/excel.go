package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// Fill colors follow the house report convention: blue headers, green
// for clean checks, amber for findings that need review.
const (
	headerFill = "4472C4"
	passFill   = "C6EFCE"
	warnFill   = "FFEB9C"
	failFill   = "FFC7CE"
)

// Excel caps worksheet names at 31 characters.
const maxSheetName = 31

// ExcelRenderer writes the styled workbook: a Summary sheet plus
// BasicChecks, ColumnMapping, NULLs, and DataMismatches sheets for
// every comparison that ran.
type ExcelRenderer struct {
	// MaxMismatches caps the rows on each DataMismatches sheet. Zero
	// writes every mismatch.
	MaxMismatches int
}

var _ Renderer = ExcelRenderer{}

type workbookStyles struct {
	header int
	pass   int
	warn   int
	fail   int
}

func (e ExcelRenderer) Render(rep domain.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	if err := e.writeSummary(f, rep, styles); err != nil {
		return err
	}
	for _, o := range rep.Outcomes {
		if o.Result == nil {
			continue
		}
		if err := e.writeOutcome(f, o, styles); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("render: drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex("Summary"); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("render: save workbook %s: %w", path, err)
	}
	return nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("render: header style: %w", err)
	}
	s.pass, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{passFill}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("render: pass style: %w", err)
	}
	s.warn, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{warnFill}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("render: warn style: %w", err)
	}
	s.fail, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{failFill}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("render: fail style: %w", err)
	}
	return s, nil
}

func (e ExcelRenderer) writeSummary(f *excelize.File, rep domain.Report, styles workbookStyles) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("render: new sheet %s: %w", sheet, err)
	}

	if err := setRow(f, sheet, 1, []any{
		"Pair", "Status", "Row Delta", "Column Delta", "Null Delta Columns", "Cell Mismatches", "Detail",
	}); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, 7, styles.header); err != nil {
		return err
	}

	for i, row := range rep.Summary {
		r := i + 2
		if err := setRow(f, sheet, r, []any{
			row.Label, statusLine(row.Status), row.RowDelta, row.ColumnDelta,
			row.NullDeltaColumns, row.MismatchCount, row.Detail,
		}); err != nil {
			return err
		}
		style := styles.fail
		switch row.Status {
		case domain.StatusPassed:
			style = styles.pass
		case domain.StatusSkipped, domain.StatusErrored:
			style = styles.warn
		}
		cell, err := excelize.CoordinatesToCellName(2, r)
		if err != nil {
			return fmt.Errorf("render: cell name: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("render: style %s!%s: %w", sheet, cell, err)
		}
	}

	footer := len(rep.Summary) + 3
	if err := setRow(f, sheet, footer, []any{
		fmt.Sprintf("Run %s", rep.RunID),
		fmt.Sprintf("tolerance %g", rep.Tolerance),
		fmt.Sprintf("percent policy %s", rep.PercentPolicy),
		rep.GeneratedAt,
	}); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return fmt.Errorf("render: column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "G", "G", 60); err != nil {
		return fmt.Errorf("render: column width: %w", err)
	}
	return nil
}

func (e ExcelRenderer) writeOutcome(f *excelize.File, o domain.Outcome, styles workbookStyles) error {
	r := o.Result

	if err := e.writeBasicChecks(f, o.Label, r, styles); err != nil {
		return err
	}
	if err := e.writeMapping(f, o.Label, r, styles); err != nil {
		return err
	}
	if err := e.writeNulls(f, o.Label, r, styles); err != nil {
		return err
	}
	if err := e.writeMismatches(f, o.Label, r, styles); err != nil {
		return err
	}
	if len(r.ColumnStats) > 0 {
		if err := e.writeColumnStats(f, o.Label, r, styles); err != nil {
			return err
		}
	}
	return nil
}

func (e ExcelRenderer) writeBasicChecks(f *excelize.File, label string, r *domain.ComparisonResult, styles workbookStyles) error {
	sheet, err := newPairSheet(f, label, "BasicChecks")
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []any{"Check", "Reference", "Candidate", "Delta", "Status"}); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, 5, styles.header); err != nil {
		return err
	}

	rows := []struct {
		name       string
		ref, cand  any
		delta      any
		status     domain.CheckStatus
	}{
		{"Row count", r.ReferenceRows, r.CandidateRows, r.RowDelta, passFailStatus(r.RowCountMatch)},
		{"Column count", r.ReferenceColumns, r.CandidateColumns, r.ColumnDelta, passFailStatus(r.ColumnCountMatch)},
		{"Duplicate rows", r.ReferenceDuplicates, r.CandidateDuplicates, r.CandidateDuplicates - r.ReferenceDuplicates, warnStatus(r.ReferenceDuplicates == 0 && r.CandidateDuplicates == 0)},
		{"Rows audited", r.Alignment.PairedRows, r.RowsAudited, nil, domain.CheckPass},
		{"Cell mismatches", 0, len(r.Mismatches), len(r.Mismatches), passFailStatus(len(r.Mismatches) == 0)},
	}
	for i, row := range rows {
		n := i + 2
		if err := setRow(f, sheet, n, []any{row.name, row.ref, row.cand, row.delta, string(row.status)}); err != nil {
			return err
		}
		if err := styleStatusCell(f, sheet, 5, n, row.status, styles); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return fmt.Errorf("render: column width: %w", err)
	}
	return nil
}

func (e ExcelRenderer) writeMapping(f *excelize.File, label string, r *domain.ComparisonResult, styles workbookStyles) error {
	sheet, err := newPairSheet(f, label, "ColumnMapping")
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []any{"Reference Column", "Candidate Column", "Status"}); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, 3, styles.header); err != nil {
		return err
	}

	n := 2
	for _, p := range r.Mapping.Pairs {
		if err := setRow(f, sheet, n, []any{p.Reference, p.Candidate, "mapped"}); err != nil {
			return err
		}
		n++
	}
	for _, c := range r.Mapping.ReferenceOnly {
		if err := setRow(f, sheet, n, []any{c, "", "reference only"}); err != nil {
			return err
		}
		if err := styleStatusCell(f, sheet, 3, n, domain.CheckWarn, styles); err != nil {
			return err
		}
		n++
	}
	for _, c := range r.Mapping.CandidateOnly {
		if err := setRow(f, sheet, n, []any{"", c, "candidate only"}); err != nil {
			return err
		}
		if err := styleStatusCell(f, sheet, 3, n, domain.CheckWarn, styles); err != nil {
			return err
		}
		n++
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return fmt.Errorf("render: column width: %w", err)
	}
	return nil
}

func (e ExcelRenderer) writeNulls(f *excelize.File, label string, r *domain.ComparisonResult, styles workbookStyles) error {
	sheet, err := newPairSheet(f, label, "NULLs")
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []any{"Column", "Reference NULLs", "Candidate NULLs", "Delta", "Status"}); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, 5, styles.header); err != nil {
		return err
	}
	for i, a := range r.NullAudits {
		n := i + 2
		status := passFailStatus(a.Delta == 0)
		if err := setRow(f, sheet, n, []any{a.Column, a.ReferenceNulls, a.CandidateNulls, a.Delta, string(status)}); err != nil {
			return err
		}
		if err := styleStatusCell(f, sheet, 5, n, status, styles); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("render: column width: %w", err)
	}
	return nil
}

func (e ExcelRenderer) writeMismatches(f *excelize.File, label string, r *domain.ComparisonResult, styles workbookStyles) error {
	sheet, err := newPairSheet(f, label, "DataMismatches")
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []any{"Row", "Column", "Reference", "Candidate", "Kind"}); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, 5, styles.header); err != nil {
		return err
	}

	shown := len(r.Mismatches)
	if e.MaxMismatches > 0 && e.MaxMismatches < shown {
		shown = e.MaxMismatches
	}
	for i, mm := range r.Mismatches[:shown] {
		if err := setRow(f, sheet, i+2, []any{mm.RowIndex, mm.Column, mm.Reference, mm.Candidate, string(mm.Kind)}); err != nil {
			return err
		}
	}
	if shown < len(r.Mismatches) {
		if err := setRow(f, sheet, shown+2, []any{fmt.Sprintf("... %d more", len(r.Mismatches)-shown)}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "B", "E", 24); err != nil {
		return fmt.Errorf("render: column width: %w", err)
	}
	return nil
}

func (e ExcelRenderer) writeColumnStats(f *excelize.File, label string, r *domain.ComparisonResult, styles workbookStyles) error {
	sheet, err := newPairSheet(f, label, "ColumnStats")
	if err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []any{"Column", "Reference Mean", "Candidate Mean", "Delta"}); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, 4, styles.header); err != nil {
		return err
	}
	for i, s := range r.ColumnStats {
		if err := setRow(f, sheet, i+2, []any{s.Column, s.ReferenceMean, s.CandidateMean, s.Delta}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("render: column width: %w", err)
	}
	return nil
}

// newPairSheet creates "<label>_<suffix>", trimming the label to honor
// the worksheet name limit.
func newPairSheet(f *excelize.File, label, suffix string) (string, error) {
	name := domain.TrimLabel(label, maxSheetName-len(suffix)-1) + "_" + suffix
	if _, err := f.NewSheet(name); err != nil {
		return "", fmt.Errorf("render: new sheet %s: %w", name, err)
	}
	return name, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("render: cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("render: set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, width int, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("render: cell name: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(width, row)
	if err != nil {
		return fmt.Errorf("render: cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return fmt.Errorf("render: style %s!%s:%s: %w", sheet, start, end, err)
	}
	return nil
}

func styleStatusCell(f *excelize.File, sheet string, col, row int, status domain.CheckStatus, styles workbookStyles) error {
	style := styles.pass
	switch status {
	case domain.CheckWarn:
		style = styles.warn
	case domain.CheckFail:
		style = styles.fail
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("render: cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("render: style %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func passFailStatus(pass bool) domain.CheckStatus {
	if pass {
		return domain.CheckPass
	}
	return domain.CheckFail
}

func warnStatus(clean bool) domain.CheckStatus {
	if clean {
		return domain.CheckPass
	}
	return domain.CheckWarn
}
