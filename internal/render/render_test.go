package render

import (
	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// fixtureReport covers every outcome shape the renderers must handle:
// a clean pass, a comparison with findings of each kind, a skip, and an
// error.
func fixtureReport() domain.Report {
	passed := &domain.ComparisonResult{
		ReferenceLabel:   "xlsx:claims.xlsx",
		CandidateLabel:   "athena:claims_monthly",
		ReferenceRows:    120,
		CandidateRows:    120,
		RowCountMatch:    true,
		ReferenceColumns: 5,
		CandidateColumns: 5,
		ColumnCountMatch: true,
		Mapping: domain.ColumnMapping{
			Pairs: []domain.ColumnPair{
				{Reference: "Region", Candidate: "REGION"},
				{Reference: "Total Charges", Candidate: "TOTAL_CHARGES"},
			},
		},
		NullAudits: []domain.NullAudit{
			{Column: "Region", ReferenceNulls: 0, CandidateNulls: 0, Delta: 0},
			{Column: "Total Charges", ReferenceNulls: 2, CandidateNulls: 2, Delta: 0},
		},
		ColumnStats: []domain.ColumnStats{
			{Column: "Total Charges", ReferenceMean: 1042.5, CandidateMean: 1042.5, Delta: 0},
		},
		Alignment:   domain.RowAlignment{Mode: domain.AlignPositional, PairedRows: 120},
		RowsAudited: 120,
		OverallPass: true,
		Summary:     domain.CheckSummary{ChecksRun: 6, Passed: 6},
	}

	failed := &domain.ComparisonResult{
		ReferenceLabel:   "xlsx:eligibility.xlsx",
		CandidateLabel:   "athena:eligibility_monthly",
		ReferenceRows:    48,
		CandidateRows:    50,
		RowDelta:         2,
		RowCountMatch:    false,
		ReferenceColumns: 4,
		CandidateColumns: 5,
		ColumnDelta:      1,
		ColumnCountMatch: false,
		Mapping: domain.ColumnMapping{
			Pairs: []domain.ColumnPair{
				{Reference: "Member Months", Candidate: "MEMBER_MONTHS"},
				{Reference: "PMPM YoY%", Candidate: "PMPM_YOY_PERCENT"},
			},
			CandidateOnly: []string{"LOAD_TS"},
		},
		NullAudits: []domain.NullAudit{
			{Column: "Member Months", ReferenceNulls: 0, CandidateNulls: 3, Delta: 3},
		},
		ReferenceDuplicates: 1,
		Alignment:           domain.RowAlignment{Mode: domain.AlignJoinKeys, JoinKeys: []string{"Member ID"}, PairedRows: 45, ReferenceUnmatched: 3, CandidateUnmatched: 5},
		RowsAudited:         45,
		Mismatches: []domain.CellMismatch{
			{RowIndex: 3, Column: "Member Months", Reference: "1200", Candidate: "1210", Kind: domain.MismatchNumeric},
			{RowIndex: 7, Column: "PMPM YoY%", Reference: "0.6", Candidate: "0.006", Kind: domain.MismatchNumeric},
			{RowIndex: 9, Column: "Member Months", Reference: "800", Candidate: "", Kind: domain.MismatchString},
		},
		OverallPass: false,
		Summary:     domain.CheckSummary{ChecksRun: 6, Passed: 2, Warned: 1, Failed: 3},
	}

	return domain.Report{
		RunID:         "6f1f249c-aa30-4f52-90f2-3f4a277cf09d",
		GeneratedAt:   "2026-08-25T09:30:00Z",
		Tolerance:     0.01,
		PercentPolicy: "magnitude",
		Summary: []domain.SummaryRow{
			{Label: "claims", Status: domain.StatusPassed, Detail: "6 checks passed"},
			{Label: "eligibility", Status: domain.StatusFailed, RowDelta: 2, ColumnDelta: 1, NullDeltaColumns: 1, MismatchCount: 3, Detail: "row delta +2; column delta +1"},
			{Label: "providers", Status: domain.StatusSkipped, Detail: `load xlsx "providers.xlsx": no such file`},
			{Label: "rates", Status: domain.StatusErrored, Detail: `compare: mapping names column "X" missing from dataset "warehouse"`},
		},
		Outcomes: []domain.Outcome{
			{Label: "claims", Status: domain.StatusPassed, Result: passed},
			{Label: "eligibility", Status: domain.StatusFailed, Result: failed},
			{Label: "providers", Status: domain.StatusSkipped, Err: `load xlsx "providers.xlsx": no such file`},
			{Label: "rates", Status: domain.StatusErrored, Err: `compare: mapping names column "X" missing from dataset "warehouse"`},
		},
		AllPassed: false,
	}
}
