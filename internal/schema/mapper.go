// Package schema aligns the column sets of two datasets whose headers
// follow different naming conventions.
package schema

import (
	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

// Map pairs reference columns with candidate columns. Exact matches on
// the canonical form win; a looser form with separators and the PERCENT
// token stripped is the fallback. Matching is greedy in reference order
// and each candidate column is claimed at most once, so the result is
// deterministic for a given pair of column lists. Columns left over on
// either side are reported, never treated as an error.
func Map(referenceColumns, candidateColumns []string) domain.ColumnMapping {
	canonical := make([]string, len(candidateColumns))
	loose := make([]string, len(candidateColumns))
	for i, c := range candidateColumns {
		canonical[i] = normalize.CanonicalName(c)
		loose[i] = normalize.LooseKey(c)
	}

	claimed := make([]bool, len(candidateColumns))
	var m domain.ColumnMapping

	for _, ref := range referenceColumns {
		idx := match(canonical, claimed, normalize.CanonicalName(ref))
		if idx < 0 {
			idx = match(loose, claimed, normalize.LooseKey(ref))
		}
		if idx < 0 {
			m.ReferenceOnly = append(m.ReferenceOnly, ref)
			continue
		}
		claimed[idx] = true
		m.Pairs = append(m.Pairs, domain.ColumnPair{
			Reference: ref,
			Candidate: candidateColumns[idx],
		})
	}

	for i, c := range candidateColumns {
		if !claimed[i] {
			m.CandidateOnly = append(m.CandidateOnly, c)
		}
	}
	return m
}

// match returns the first unclaimed index whose key equals want, or -1.
func match(keys []string, claimed []bool, want string) int {
	for i, k := range keys {
		if !claimed[i] && k == want {
			return i
		}
	}
	return -1
}
