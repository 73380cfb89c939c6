package domain

import "fmt"

// ValidateDataset checks the loader contract on a dataset: a label, and
// column names that are unique after trimming. The engine indexes rows
// by column name, so a duplicate header would silently drop data.
func ValidateDataset(d Dataset) error {
	if d.Label == "" {
		return fmt.Errorf("dataset label is required")
	}
	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("dataset %q has duplicate column %q", d.Label, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// ValidateOutcome checks internal consistency of a terminal outcome.
func ValidateOutcome(o Outcome) error {
	if o.Label == "" {
		return fmt.Errorf("outcome label is required")
	}
	if !o.Status.Valid() {
		return fmt.Errorf("outcome %q has invalid status %q", o.Label, o.Status)
	}
	switch o.Status {
	case StatusPassed, StatusFailed:
		if o.Result == nil {
			return fmt.Errorf("outcome %q status %s requires a result", o.Label, o.Status)
		}
	case StatusErrored, StatusSkipped:
		if o.Err == "" {
			return fmt.Errorf("outcome %q status %s requires an error reason", o.Label, o.Status)
		}
	}
	return nil
}

// ValidateReport checks a report before it is rendered or published.
func ValidateReport(r Report) error {
	if r.RunID == "" {
		return fmt.Errorf("report run_id is required")
	}
	if len(r.Summary) != len(r.Outcomes) {
		return fmt.Errorf("report has %d summary rows for %d outcomes", len(r.Summary), len(r.Outcomes))
	}
	for _, o := range r.Outcomes {
		if err := ValidateOutcome(o); err != nil {
			return err
		}
	}
	return nil
}
