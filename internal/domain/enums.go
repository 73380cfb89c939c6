package domain

// CellKind discriminates the interpretations of a CellValue.
type CellKind string

const (
	KindAbsent CellKind = "absent"
	KindNumber CellKind = "number"
	KindText   CellKind = "text"
)

// Valid reports whether the kind is a known value.
func (k CellKind) Valid() bool {
	switch k {
	case KindAbsent, KindNumber, KindText:
		return true
	}
	return false
}

// MismatchKind classifies a cell-level disagreement.
type MismatchKind string

const (
	// MismatchNumeric marks two numbers whose absolute difference
	// exceeds the tolerance.
	MismatchNumeric MismatchKind = "numeric-tolerance-exceeded"
	// MismatchString marks every other disagreement, including a value
	// present on only one side.
	MismatchString MismatchKind = "string-mismatch"
)

// Valid reports whether the kind is a known value.
func (k MismatchKind) Valid() bool {
	switch k {
	case MismatchNumeric, MismatchString:
		return true
	}
	return false
}

// AlignmentMode selects how rows are paired for the cell audit.
type AlignmentMode string

const (
	AlignPositional AlignmentMode = "positional"
	AlignJoinKeys   AlignmentMode = "join-keys"
)

// Valid reports whether the mode is a known value.
func (m AlignmentMode) Valid() bool {
	switch m {
	case AlignPositional, AlignJoinKeys:
		return true
	}
	return false
}

// RunStatus is the terminal state of one manifest pair.
type RunStatus string

const (
	// StatusPassed means the comparison ran and every gating check passed.
	StatusPassed RunStatus = "passed"
	// StatusFailed means the comparison ran and found disagreements.
	StatusFailed RunStatus = "failed"
	// StatusErrored means the comparison could not run to completion,
	// e.g. a malformed mapping.
	StatusErrored RunStatus = "errored"
	// StatusSkipped means a dataset never materialized, so nothing ran.
	StatusSkipped RunStatus = "skipped"
)

// Valid reports whether the status is a known value.
func (s RunStatus) Valid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusErrored, StatusSkipped:
		return true
	}
	return false
}

// CheckStatus grades a single check inside a comparison.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// Valid reports whether the status is a known value.
func (s CheckStatus) Valid() bool {
	switch s {
	case CheckPass, CheckWarn, CheckFail:
		return true
	}
	return false
}
