package domain

import "testing"

func TestCellKindValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		kind  CellKind
		valid bool
	}{
		{name: "absent", kind: KindAbsent, valid: true},
		{name: "number", kind: KindNumber, valid: true},
		{name: "text", kind: KindText, valid: true},
		{name: "bogus", kind: CellKind("bogus"), valid: false},
		{name: "empty", kind: CellKind(""), valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.Valid(); got != tt.valid {
				t.Errorf("CellKind(%q).Valid() = %v, want %v", tt.kind, got, tt.valid)
			}
		})
	}
}

func TestMismatchKindValues(t *testing.T) {
	t.Parallel()
	// Wire values are part of the report format.
	tests := []struct {
		kind MismatchKind
		want string
	}{
		{MismatchNumeric, "numeric-tolerance-exceeded"},
		{MismatchString, "string-mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if string(tt.kind) != tt.want {
				t.Errorf("MismatchKind: got %q, want %q", tt.kind, tt.want)
			}
			if !tt.kind.Valid() {
				t.Errorf("MismatchKind(%q).Valid() = false", tt.kind)
			}
		})
	}
	if MismatchKind("close-enough").Valid() {
		t.Error("unknown mismatch kind reported valid")
	}
}

func TestRunStatusValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status RunStatus
		valid  bool
	}{
		{name: "passed", status: StatusPassed, valid: true},
		{name: "failed", status: StatusFailed, valid: true},
		{name: "errored", status: StatusErrored, valid: true},
		{name: "skipped", status: StatusSkipped, valid: true},
		{name: "bogus", status: RunStatus("bogus"), valid: false},
		{name: "empty", status: RunStatus(""), valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.Valid(); got != tt.valid {
				t.Errorf("RunStatus(%q).Valid() = %v, want %v", tt.status, got, tt.valid)
			}
		})
	}
}

func TestAlignmentModeValid(t *testing.T) {
	t.Parallel()
	if !AlignPositional.Valid() || !AlignJoinKeys.Valid() {
		t.Error("known alignment modes reported invalid")
	}
	if AlignmentMode("fuzzy").Valid() {
		t.Error("unknown alignment mode reported valid")
	}
}

func TestCheckStatusValid(t *testing.T) {
	t.Parallel()
	if !CheckPass.Valid() || !CheckWarn.Valid() || !CheckFail.Valid() {
		t.Error("known check statuses reported invalid")
	}
	if CheckStatus("meh").Valid() {
		t.Error("unknown check status reported valid")
	}
}
