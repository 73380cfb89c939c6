// Package normalize canonicalizes raw loader values into domain cells
// and column names into the forms used for schema matching.
//
// Every dataset source funnels its raw scalars through a Normalizer, so
// the engine compares like against like no matter whether a value
// arrived as a spreadsheet string, a driver float, or a warehouse
// VARCHAR. Normalization is total and idempotent: it never fails, and a
// normalized cell normalizes to itself.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// PercentPolicy controls how a value carrying a percent sign is scaled.
// BI exports are inconsistent about whether "0.6%" means 0.6 or 0.006,
// so the policy is set per run and recorded on the report.
type PercentPolicy string

const (
	// PercentMagnitude keeps the printed magnitude: "0.6%" parses to 0.6.
	PercentMagnitude PercentPolicy = "magnitude"
	// PercentFraction divides by 100: "0.6%" parses to 0.006.
	PercentFraction PercentPolicy = "fraction"
)

// Valid reports whether the policy is a known value.
func (p PercentPolicy) Valid() bool {
	switch p {
	case PercentMagnitude, PercentFraction:
		return true
	}
	return false
}

// Normalizer canonicalizes raw values. The zero value applies
// PercentMagnitude.
type Normalizer struct {
	Policy PercentPolicy
}

// New returns a Normalizer with the given percent policy. An empty
// policy selects PercentMagnitude.
func New(policy PercentPolicy) Normalizer {
	if policy == "" {
		policy = PercentMagnitude
	}
	return Normalizer{Policy: policy}
}

// currency and grouping symbols stripped before numeric parsing.
var stripper = strings.NewReplacer("$", "", ",", "", "%", "")

// nullTokens are string forms treated as absent, compared case-insensitively.
var nullTokens = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
}

// Normalize maps a raw loader value to its canonical cell. Nils, empty
// and whitespace-only strings, NaNs, and null tokens become absent.
// Strings are trimmed, stripped of currency and grouping symbols, and
// parsed as float64 when possible; everything else degrades to text.
func (n Normalizer) Normalize(raw any) domain.CellValue {
	switch v := raw.(type) {
	case nil:
		return domain.Absent()
	case domain.CellValue:
		return v
	case string:
		return n.normalizeString(v)
	case []byte:
		return n.normalizeString(string(v))
	case float64:
		return numberOrAbsent(v)
	case float32:
		return numberOrAbsent(float64(v))
	case int:
		return domain.Number(float64(v))
	case int8:
		return domain.Number(float64(v))
	case int16:
		return domain.Number(float64(v))
	case int32:
		return domain.Number(float64(v))
	case int64:
		return domain.Number(float64(v))
	case uint:
		return domain.Number(float64(v))
	case uint8:
		return domain.Number(float64(v))
	case uint16:
		return domain.Number(float64(v))
	case uint32:
		return domain.Number(float64(v))
	case uint64:
		return domain.Number(float64(v))
	case bool:
		return domain.Text(strconv.FormatBool(v))
	default:
		return n.normalizeString(fmt.Sprint(v))
	}
}

func (n Normalizer) normalizeString(s string) domain.CellValue {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return domain.Absent()
	}
	if _, ok := nullTokens[strings.ToLower(trimmed)]; ok {
		return domain.Absent()
	}

	hadPercent := strings.Contains(trimmed, "%")
	stripped := strings.TrimSpace(stripper.Replace(trimmed))
	if f, err := strconv.ParseFloat(stripped, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		if hadPercent && n.policy() == PercentFraction {
			f /= 100
		}
		return domain.Number(f)
	}
	return domain.Text(stripped)
}

func numberOrAbsent(f float64) domain.CellValue {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Absent()
	}
	return domain.Number(f)
}

func (n Normalizer) policy() PercentPolicy {
	if n.Policy == "" {
		return PercentMagnitude
	}
	return n.Policy
}

// BuildDataset assembles a normalized dataset from a raw rectangular
// load. Headers are trimmed, short rows are padded with absent cells,
// and cells past the header width are dropped.
func (n Normalizer) BuildDataset(label string, columns []string, rows [][]any) domain.Dataset {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
	}
	ds := domain.Dataset{
		Label:   label,
		Columns: cols,
		Rows:    make([]domain.Row, 0, len(rows)),
	}
	for _, raw := range rows {
		row := make(domain.Row, len(cols))
		for i, col := range cols {
			if i < len(raw) {
				row[col] = n.Normalize(raw[i])
			} else {
				row[col] = domain.Absent()
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}
