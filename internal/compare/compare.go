// Package compare implements the tolerant comparison between a
// reference dataset and a candidate dataset.
//
// A comparison never fails because the data disagrees: row count drift,
// null drift, and cell mismatches are findings recorded on the result.
// The only error a comparison can return is a contract violation, such
// as a mapping that names a column neither dataset has.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// DefaultTolerance is the absolute numeric difference under which two
// numbers compare equal. It absorbs display rounding in BI exports.
const DefaultTolerance = 0.01

// Options configures a single comparison.
type Options struct {
	// Tolerance is the maximum absolute difference under which two
	// numbers compare equal. Zero or negative selects DefaultTolerance.
	Tolerance float64

	// SampleSize caps the rows examined by the cell audit. Zero audits
	// every aligned row. Structural checks and the null audit always see
	// the full datasets.
	SampleSize int

	// JoinKeys selects key-based row alignment on the named reference
	// columns. Empty selects positional alignment. Every join key must
	// be a mapped column.
	JoinKeys []string

	// StructuralOnly limits the comparison to row and column counts,
	// for fast smoke checks on large pairs.
	StructuralOnly bool
}

func (o Options) tolerance() float64 {
	if o.Tolerance <= 0 {
		return DefaultTolerance
	}
	return o.Tolerance
}

// MalformedMappingError reports a mapping or join key that names a
// column missing from one of the datasets. It marks a caller contract
// violation, not a data finding.
type MalformedMappingError struct {
	Column  string
	Dataset string
}

func (e *MalformedMappingError) Error() string {
	return fmt.Sprintf("compare: mapping names column %q missing from dataset %q", e.Column, e.Dataset)
}

// Compare audits the candidate dataset against the reference dataset
// under the given column mapping and returns the full finding set.
func Compare(ref, cand domain.Dataset, mapping domain.ColumnMapping, opts Options) (domain.ComparisonResult, error) {
	if err := domain.ValidateDataset(ref); err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("compare: reference: %w", err)
	}
	if err := domain.ValidateDataset(cand); err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("compare: candidate: %w", err)
	}
	for _, p := range mapping.Pairs {
		if !ref.HasColumn(p.Reference) {
			return domain.ComparisonResult{}, &MalformedMappingError{Column: p.Reference, Dataset: ref.Label}
		}
		if !cand.HasColumn(p.Candidate) {
			return domain.ComparisonResult{}, &MalformedMappingError{Column: p.Candidate, Dataset: cand.Label}
		}
	}

	result := domain.ComparisonResult{
		ReferenceLabel: ref.Label,
		CandidateLabel: cand.Label,
		Mapping:        mapping,
	}

	result.ReferenceRows = len(ref.Rows)
	result.CandidateRows = len(cand.Rows)
	result.RowDelta = result.CandidateRows - result.ReferenceRows
	result.RowCountMatch = result.RowDelta == 0

	result.ReferenceColumns = len(ref.Columns)
	result.CandidateColumns = len(cand.Columns)
	result.ColumnDelta = result.CandidateColumns - result.ReferenceColumns
	result.ColumnCountMatch = result.ColumnDelta == 0

	if opts.StructuralOnly {
		result.Alignment = domain.RowAlignment{Mode: domain.AlignPositional}
		result.OverallPass = result.RowCountMatch && result.ColumnCountMatch
		result.Summary = tally(result, true)
		return result, nil
	}

	for _, p := range mapping.Pairs {
		refNulls := countAbsent(ref, p.Reference)
		candNulls := countAbsent(cand, p.Candidate)
		result.NullAudits = append(result.NullAudits, domain.NullAudit{
			Column:         p.Reference,
			ReferenceNulls: refNulls,
			CandidateNulls: candNulls,
			Delta:          candNulls - refNulls,
		})
	}

	result.ReferenceDuplicates = countDuplicateRows(ref)
	result.CandidateDuplicates = countDuplicateRows(cand)

	result.ColumnStats = columnStats(ref, cand, mapping)

	pairs, alignment, err := alignRows(ref, cand, mapping, opts)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	result.Alignment = alignment
	result.RowsAudited = len(pairs)

	tol := opts.tolerance()
	for _, rp := range pairs {
		for _, p := range mapping.Pairs {
			refVal := ref.Rows[rp.ref][p.Reference]
			candVal := cand.Rows[rp.cand][p.Candidate]
			equal, kind := cellsEqual(refVal, candVal, tol)
			if equal {
				continue
			}
			result.Mismatches = append(result.Mismatches, domain.CellMismatch{
				RowIndex:  rp.ref,
				Column:    p.Reference,
				Reference: refVal.String(),
				Candidate: candVal.String(),
				Kind:      kind,
			})
		}
	}

	result.OverallPass = result.RowCountMatch &&
		result.ColumnCountMatch &&
		nullDeltasZero(result.NullAudits) &&
		len(result.Mismatches) == 0
	result.Summary = tally(result, false)

	return result, nil
}

// cellsEqual applies the tolerant equality rule. The returned kind is
// meaningful only when equal is false.
func cellsEqual(a, b domain.CellValue, tol float64) (bool, domain.MismatchKind) {
	switch {
	case a.IsAbsent() && b.IsAbsent():
		return true, ""
	case a.IsAbsent() != b.IsAbsent():
		return false, domain.MismatchString
	case a.IsNumber() && b.IsNumber():
		if math.Abs(a.Num-b.Num) <= tol {
			return true, ""
		}
		return false, domain.MismatchNumeric
	default:
		if strings.TrimSpace(a.String()) == strings.TrimSpace(b.String()) {
			return true, ""
		}
		return false, domain.MismatchString
	}
}

func countAbsent(d domain.Dataset, column string) int {
	n := 0
	for _, row := range d.Rows {
		if row[column].IsAbsent() {
			n++
		}
	}
	return n
}

// countDuplicateRows counts rows that exactly repeat an earlier row.
// The first occurrence is not counted.
func countDuplicateRows(d domain.Dataset) int {
	seen := make(map[string]struct{}, len(d.Rows))
	dups := 0
	for _, row := range d.Rows {
		key := tupleKey(d.Columns, row)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// columnStats computes the mean of numeric cells per mapped column.
// Columns with no numeric cells on either side are omitted.
func columnStats(ref, cand domain.Dataset, mapping domain.ColumnMapping) []domain.ColumnStats {
	var stats []domain.ColumnStats
	for _, p := range mapping.Pairs {
		refMean, refN := numericMean(ref, p.Reference)
		candMean, candN := numericMean(cand, p.Candidate)
		if refN == 0 && candN == 0 {
			continue
		}
		stats = append(stats, domain.ColumnStats{
			Column:        p.Reference,
			ReferenceMean: refMean,
			CandidateMean: candMean,
			Delta:         candMean - refMean,
		})
	}
	return stats
}

func numericMean(d domain.Dataset, column string) (mean float64, n int) {
	sum := 0.0
	for _, row := range d.Rows {
		if v := row[column]; v.IsNumber() {
			sum += v.Num
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

func nullDeltasZero(audits []domain.NullAudit) bool {
	for _, a := range audits {
		if a.Delta != 0 {
			return false
		}
	}
	return true
}

// tally counts the checks behind the verdict. The duplicate audit only
// ever warns; every other check passes or fails.
func tally(r domain.ComparisonResult, structuralOnly bool) domain.CheckSummary {
	var s domain.CheckSummary
	record := func(pass bool) {
		s.ChecksRun++
		if pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}

	record(r.RowCountMatch)
	record(r.ColumnCountMatch)
	if structuralOnly {
		return s
	}

	for _, a := range r.NullAudits {
		record(a.Delta == 0)
	}
	record(len(r.Mismatches) == 0)

	s.ChecksRun++
	if r.ReferenceDuplicates == 0 && r.CandidateDuplicates == 0 {
		s.Passed++
	} else {
		s.Warned++
	}
	return s
}
