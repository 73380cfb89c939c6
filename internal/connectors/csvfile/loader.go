// Package csvfile loads staged CSV extracts as datasets, applying the
// same export cleanup rules as the spreadsheet loader.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

const filterFooterMarker = "applied filters"

// Loader reads one CSV file.
type Loader struct {
	path string
	norm normalize.Normalizer
}

// New returns a Loader for the given CSV path.
func New(path string, norm normalize.Normalizer) *Loader {
	return &Loader{path: path, norm: norm}
}

func (l *Loader) Describe() string { return "csv:" + l.path }

func (l *Loader) Ping(_ context.Context) error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("csv: stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("csv: %s is a directory", l.path)
	}
	return nil
}

func (l *Loader) Load(_ context.Context) (domain.Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("csv: open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Exports are frequently ragged; normalization pads short rows.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return domain.Dataset{}, fmt.Errorf("csv: %s has no header row", l.path)
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("csv: read header: %w", err)
	}

	var records [][]any
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("csv: read row: %w", err)
		}
		if blankRow(row) || filterFooter(row) {
			continue
		}
		rec := make([]any, len(row))
		for i, cell := range row {
			rec[i] = cell
		}
		records = append(records, rec)
	}

	return l.norm.BuildDataset(l.Describe(), header, records), nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func filterFooter(row []string) bool {
	return len(row) > 0 && strings.Contains(strings.ToLower(row[0]), filterFooterMarker)
}
