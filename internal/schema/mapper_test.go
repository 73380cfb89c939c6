package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

func TestMapExact(t *testing.T) {
	t.Parallel()
	m := Map(
		[]string{"Region", "Total Charges", "Member Months"},
		[]string{"REGION", "TOTAL_CHARGES", "MEMBER_MONTHS"},
	)

	require.Len(t, m.Pairs, 3)
	assert.Equal(t, domain.ColumnPair{Reference: "Region", Candidate: "REGION"}, m.Pairs[0])
	assert.Equal(t, domain.ColumnPair{Reference: "Total Charges", Candidate: "TOTAL_CHARGES"}, m.Pairs[1])
	assert.Equal(t, domain.ColumnPair{Reference: "Member Months", Candidate: "MEMBER_MONTHS"}, m.Pairs[2])
	assert.Empty(t, m.ReferenceOnly)
	assert.Empty(t, m.CandidateOnly)
	assert.True(t, m.Complete())
}

func TestMapFuzzyFallback(t *testing.T) {
	t.Parallel()
	// "PMPM YoY%" has no exact canonical partner but matches once
	// separators and the percent token are stripped.
	m := Map(
		[]string{"Region", "PMPM YoY%"},
		[]string{"REGION", "PMPM_YOY_PERCENT"},
	)

	require.Len(t, m.Pairs, 2)
	assert.Equal(t, "PMPM_YOY_PERCENT", m.Pairs[1].Candidate)
	assert.True(t, m.Complete())
}

func TestMapUnmatchedBothSides(t *testing.T) {
	t.Parallel()
	m := Map(
		[]string{"Region", "Notes"},
		[]string{"REGION", "LOAD_TS"},
	)

	require.Len(t, m.Pairs, 1)
	assert.Equal(t, []string{"Notes"}, m.ReferenceOnly)
	assert.Equal(t, []string{"LOAD_TS"}, m.CandidateOnly)
	assert.False(t, m.Complete())
}

func TestMapGreedyClaimsOnce(t *testing.T) {
	t.Parallel()
	// Two candidates collapse to the same loose key; the first in
	// candidate order is claimed and the second is left over.
	m := Map(
		[]string{"Cost %"},
		[]string{"COST_PERCENT", "COST PCT", "COSTPercent"},
	)

	require.Len(t, m.Pairs, 1)
	assert.Equal(t, "COST_PERCENT", m.Pairs[0].Candidate)
	assert.Contains(t, m.CandidateOnly, "COSTPercent")
}

func TestMapExactBeatsFuzzy(t *testing.T) {
	t.Parallel()
	// An exact canonical partner wins even when an earlier candidate
	// would match loosely.
	m := Map(
		[]string{"Total Charges"},
		[]string{"TOTALCHARGES", "TOTAL_CHARGES"},
	)

	require.Len(t, m.Pairs, 1)
	assert.Equal(t, "TOTAL_CHARGES", m.Pairs[0].Candidate)
	assert.Equal(t, []string{"TOTALCHARGES"}, m.CandidateOnly)
}

func TestMapDeterministic(t *testing.T) {
	t.Parallel()
	refCols := []string{"Region", "PMPM YoY%", "Total Charges", "Notes"}
	candCols := []string{"TOTAL_CHARGES", "REGION", "PMPM_YOY_PERCENT"}

	first := Map(refCols, candCols)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Map(refCols, candCols))
	}
}

func TestMapEmptySides(t *testing.T) {
	t.Parallel()
	m := Map(nil, []string{"REGION"})
	assert.Empty(t, m.Pairs)
	assert.Equal(t, []string{"REGION"}, m.CandidateOnly)

	m = Map([]string{"Region"}, nil)
	assert.Equal(t, []string{"Region"}, m.ReferenceOnly)
}
