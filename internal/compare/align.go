package compare

import (
	"strings"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// rowPair links one reference row index to one candidate row index.
type rowPair struct {
	ref  int
	cand int
}

// alignRows pairs rows for the cell audit. The returned pairs are
// already capped by the sample size; the alignment counts always
// describe the full datasets.
func alignRows(ref, cand domain.Dataset, mapping domain.ColumnMapping, opts Options) ([]rowPair, domain.RowAlignment, error) {
	if len(opts.JoinKeys) > 0 {
		return alignByKeys(ref, cand, mapping, opts)
	}
	return alignPositional(ref, cand, opts), domainAlignment(ref, cand), nil
}

func domainAlignment(ref, cand domain.Dataset) domain.RowAlignment {
	paired := min(len(ref.Rows), len(cand.Rows))
	return domain.RowAlignment{
		Mode:               domain.AlignPositional,
		PairedRows:         paired,
		ReferenceUnmatched: len(ref.Rows) - paired,
		CandidateUnmatched: len(cand.Rows) - paired,
	}
}

// alignPositional pairs index i with index i up to the shorter length
// and the sample cap.
func alignPositional(ref, cand domain.Dataset, opts Options) []rowPair {
	limit := min(len(ref.Rows), len(cand.Rows))
	if opts.SampleSize > 0 && opts.SampleSize < limit {
		limit = opts.SampleSize
	}
	pairs := make([]rowPair, limit)
	for i := range pairs {
		pairs[i] = rowPair{ref: i, cand: i}
	}
	return pairs
}

// alignByKeys groups candidate rows by join-key tuple and pairs the k-th
// occurrence of each tuple on each side, preserving reference order.
// Keys are compared in normalized form, so "1,204" pairs with 1204.
func alignByKeys(ref, cand domain.Dataset, mapping domain.ColumnMapping, opts Options) ([]rowPair, domain.RowAlignment, error) {
	refKeys := opts.JoinKeys
	candKeys := make([]string, len(refKeys))
	for i, k := range refKeys {
		if !ref.HasColumn(k) {
			return nil, domain.RowAlignment{}, &MalformedMappingError{Column: k, Dataset: ref.Label}
		}
		c, ok := mapping.CandidateFor(k)
		if !ok {
			return nil, domain.RowAlignment{}, &MalformedMappingError{Column: k, Dataset: cand.Label}
		}
		candKeys[i] = c
	}

	candByKey := make(map[string][]int, len(cand.Rows))
	for i, row := range cand.Rows {
		key := tupleKey(candKeys, row)
		candByKey[key] = append(candByKey[key], i)
	}

	taken := make(map[string]int, len(candByKey))
	pairs := make([]rowPair, 0, min(len(ref.Rows), len(cand.Rows)))
	unmatchedRef := 0
	for i, row := range ref.Rows {
		key := tupleKey(refKeys, row)
		idxs := candByKey[key]
		k := taken[key]
		if k >= len(idxs) {
			unmatchedRef++
			continue
		}
		taken[key] = k + 1
		pairs = append(pairs, rowPair{ref: i, cand: idxs[k]})
	}

	alignment := domain.RowAlignment{
		Mode:               domain.AlignJoinKeys,
		JoinKeys:           refKeys,
		PairedRows:         len(pairs),
		ReferenceUnmatched: unmatchedRef,
		CandidateUnmatched: len(cand.Rows) - len(pairs),
	}
	if opts.SampleSize > 0 && opts.SampleSize < len(pairs) {
		pairs = pairs[:opts.SampleSize]
	}
	return pairs, alignment, nil
}

// tupleKey serializes the named cells into a comparable key, with a
// kind prefix so Number(1) stays distinct from Text("1").
func tupleKey(columns []string, row domain.Row) string {
	var b strings.Builder
	for _, c := range columns {
		v := row[c]
		b.WriteString(string(v.Kind))
		b.WriteByte(':')
		b.WriteString(v.String())
		b.WriteByte(0x1f)
	}
	return b.String()
}
