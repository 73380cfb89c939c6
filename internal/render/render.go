// Package render writes run reports to reviewable artifacts. Three
// renderers share one interface: a styled workbook for analysts, a
// plain-text report for terminals and tickets, and JSON for machines.
package render

import "github.com/finops-claw-gang/recon-go/internal/domain"

// Renderer writes a report to the artifact at path.
type Renderer interface {
	Render(rep domain.Report, path string) error
}

// statusLine renders a run status for human-facing surfaces.
func statusLine(s domain.RunStatus) string {
	switch s {
	case domain.StatusPassed:
		return "PASS"
	case domain.StatusFailed:
		return "FAIL"
	case domain.StatusErrored:
		return "ERROR"
	case domain.StatusSkipped:
		return "SKIPPED"
	default:
		return string(s)
	}
}
