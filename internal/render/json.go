package render

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// JSONRenderer writes the full report as indented JSON.
type JSONRenderer struct{}

var _ Renderer = JSONRenderer{}

func (JSONRenderer) Render(rep domain.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("render: marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}
