package athena

import (
	"fmt"
	"regexp"
)

var tablePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// buildSelect constructs the full-table scan for one side of a pair.
// The table name is validated because it cannot be bound as a query
// parameter.
func buildSelect(table string) (string, error) {
	if !tablePattern.MatchString(table) {
		return "", fmt.Errorf("athena query: invalid table name %q (must be alphanumeric, dots, underscores)", table)
	}
	return "SELECT * FROM " + table, nil
}
