package normalize

import "strings"

// CanonicalName is the strict matching form of a column header: trimmed,
// upper-cased, internal spaces replaced with underscores, and percent
// signs spelled out. "PMPM YoY%" and "pmpm_yoy_percent" share one
// canonical form.
func CanonicalName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "%", "PERCENT")
	return s
}

// LooseKey is the fuzzy fallback form: the canonical name with
// underscores and the PERCENT token removed. It recovers pairs whose
// separator or percent spelling differ, e.g. "PMPM YoY%" against
// "PMPM_YOY_PERCENT".
func LooseKey(name string) string {
	s := CanonicalName(name)
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "PERCENT", "")
	return s
}
