// Package domain defines the data model shared by the reconciliation
// engine, the dataset connectors, and the report renderers.
//
// A reconciliation run compares pairs of tabular datasets: a reference
// export (typically hand-pulled from a BI tool) against a candidate
// extract (typically a warehouse query). Every value flowing through the
// engine is a CellValue, already canonicalized by the normalize package,
// so comparison logic never touches raw spreadsheet or driver types.
package domain

import (
	"strconv"
	"strings"
)

// CellValue is a normalized cell. Exactly one interpretation applies,
// selected by Kind: absent cells carry no payload, numeric cells carry
// Num, text cells carry Str.
type CellValue struct {
	Kind CellKind `json:"kind"`
	Num  float64  `json:"num,omitempty"`
	Str  string   `json:"str,omitempty"`
}

// Absent returns the normalized form of a missing value.
func Absent() CellValue {
	return CellValue{Kind: KindAbsent}
}

// Number returns a numeric cell.
func Number(f float64) CellValue {
	return CellValue{Kind: KindNumber, Num: f}
}

// Text returns a textual cell.
func Text(s string) CellValue {
	return CellValue{Kind: KindText, Str: s}
}

// IsAbsent reports whether the cell holds no value.
func (v CellValue) IsAbsent() bool { return v.Kind == KindAbsent }

// IsNumber reports whether the cell holds a numeric value.
func (v CellValue) IsNumber() bool { return v.Kind == KindNumber }

// String renders the cell for display and for string-form comparison.
// Absent renders empty, numbers render in the shortest exact form.
func (v CellValue) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Str
	default:
		return ""
	}
}

// Row maps column name to normalized cell value.
type Row map[string]CellValue

// Dataset is one side of a comparison: an ordered column list plus the
// normalized rows. Label identifies the source for logs and reports.
type Dataset struct {
	Label   string   `json:"label"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether name is one of the dataset's columns.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnPair links a reference column to the candidate column it is
// compared against. Both names are the original header text, not the
// canonical form.
type ColumnPair struct {
	Reference string `json:"reference"`
	Candidate string `json:"candidate"`
}

// ColumnMapping is the outcome of schema alignment between the two
// column sets. Unmatched columns are findings, not errors.
type ColumnMapping struct {
	Pairs         []ColumnPair `json:"pairs"`
	ReferenceOnly []string     `json:"reference_only,omitempty"`
	CandidateOnly []string     `json:"candidate_only,omitempty"`
}

// CandidateFor returns the candidate column mapped to the given
// reference column.
func (m ColumnMapping) CandidateFor(reference string) (string, bool) {
	for _, p := range m.Pairs {
		if p.Reference == reference {
			return p.Candidate, true
		}
	}
	return "", false
}

// Complete reports whether every column on both sides found a partner.
func (m ColumnMapping) Complete() bool {
	return len(m.ReferenceOnly) == 0 && len(m.CandidateOnly) == 0
}

// CellMismatch records one cell-level disagreement. Reference and
// Candidate hold the display forms of the two values.
type CellMismatch struct {
	RowIndex  int          `json:"row_index"`
	Column    string       `json:"column"`
	Reference string       `json:"reference"`
	Candidate string       `json:"candidate"`
	Kind      MismatchKind `json:"kind"`
}

// NullAudit reports the per-column absent-value counts on both sides.
// A nonzero Delta fails the comparison even when every audited cell
// agrees, since it catches nulls introduced past the audited sample.
type NullAudit struct {
	Column         string `json:"column"`
	ReferenceNulls int    `json:"reference_nulls"`
	CandidateNulls int    `json:"candidate_nulls"`
	Delta          int    `json:"delta"`
}

// ColumnStats carries per-column numeric means. Informational only; it
// supplements cell findings but never gates the verdict.
type ColumnStats struct {
	Column        string  `json:"column"`
	ReferenceMean float64 `json:"reference_mean"`
	CandidateMean float64 `json:"candidate_mean"`
	Delta         float64 `json:"delta"`
}

// RowAlignment describes how rows were paired for the cell audit.
// PairedRows counts every aligned pair; the audit may examine fewer
// when sampling is configured.
type RowAlignment struct {
	Mode               AlignmentMode `json:"mode"`
	JoinKeys           []string      `json:"join_keys,omitempty"`
	PairedRows         int           `json:"paired_rows"`
	ReferenceUnmatched int           `json:"reference_unmatched"`
	CandidateUnmatched int           `json:"candidate_unmatched"`
}

// CheckSummary tallies the checks behind one comparison verdict.
type CheckSummary struct {
	ChecksRun int `json:"checks_run"`
	Passed    int `json:"passed"`
	Warned    int `json:"warned"`
	Failed    int `json:"failed"`
}

// ComparisonResult is the full finding set for one dataset pair. All
// signed deltas are candidate minus reference.
type ComparisonResult struct {
	ReferenceLabel string `json:"reference_label"`
	CandidateLabel string `json:"candidate_label"`

	ReferenceRows int  `json:"reference_rows"`
	CandidateRows int  `json:"candidate_rows"`
	RowDelta      int  `json:"row_delta"`
	RowCountMatch bool `json:"row_count_match"`

	ReferenceColumns int  `json:"reference_columns"`
	CandidateColumns int  `json:"candidate_columns"`
	ColumnDelta      int  `json:"column_delta"`
	ColumnCountMatch bool `json:"column_count_match"`

	Mapping ColumnMapping `json:"mapping"`

	NullAudits []NullAudit `json:"null_audits,omitempty"`

	ReferenceDuplicates int `json:"reference_duplicates"`
	CandidateDuplicates int `json:"candidate_duplicates"`

	ColumnStats []ColumnStats `json:"column_stats,omitempty"`

	Alignment   RowAlignment   `json:"alignment"`
	RowsAudited int            `json:"rows_audited"`
	Mismatches  []CellMismatch `json:"mismatches,omitempty"`

	OverallPass bool         `json:"overall_pass"`
	Summary     CheckSummary `json:"summary"`
}

// Outcome is the terminal state of one manifest pair. Result is set only
// when the comparison ran to completion; Err carries the reason for
// errored and skipped outcomes.
type Outcome struct {
	Label  string            `json:"label"`
	Status RunStatus         `json:"status"`
	Result *ComparisonResult `json:"result,omitempty"`
	Err    string            `json:"error,omitempty"`
}

// SummaryRow is the one-line digest of an outcome used by the report
// summary tables.
type SummaryRow struct {
	Label            string    `json:"label"`
	Status           RunStatus `json:"status"`
	RowDelta         int       `json:"row_delta"`
	ColumnDelta      int       `json:"column_delta"`
	NullDeltaColumns int       `json:"null_delta_columns"`
	MismatchCount    int       `json:"mismatch_count"`
	Detail           string    `json:"detail,omitempty"`
}

// Report is the aggregated result of a whole run, in manifest order.
// AllPassed is the exit-code signal: true only when every outcome passed.
type Report struct {
	RunID         string       `json:"run_id"`
	GeneratedAt   string       `json:"generated_at"`
	Tolerance     float64      `json:"tolerance"`
	PercentPolicy string       `json:"percent_policy"`
	Summary       []SummaryRow `json:"summary"`
	Outcomes      []Outcome    `json:"outcomes"`
	AllPassed     bool         `json:"all_passed"`
}

// CountByStatus tallies outcomes with the given status.
func (r Report) CountByStatus(status RunStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// TrimLabel shortens a label for display surfaces with tight width
// limits, such as worksheet names.
func TrimLabel(label string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(label) <= max {
		return label
	}
	return strings.TrimRight(label[:max], "_-")
}
