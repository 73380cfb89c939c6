// Package xlsx loads BI spreadsheet exports as datasets.
//
// Exports come with baggage the engine must never see: padded headers,
// fully blank spacer rows, and an "Applied filters" footer some BI
// tools append below the data. The loader strips all of it before
// normalization.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

// filterFooterMarker flags rows appended by BI export tooling below the
// data, matched case-insensitively against the first cell.
const filterFooterMarker = "applied filters"

// Loader reads one worksheet of a workbook.
type Loader struct {
	path  string
	sheet string // empty selects the first sheet
	norm  normalize.Normalizer
}

// New returns a Loader for the given workbook path. An empty sheet name
// selects the workbook's first sheet.
func New(path, sheet string, norm normalize.Normalizer) *Loader {
	return &Loader{path: path, sheet: sheet, norm: norm}
}

func (l *Loader) Describe() string { return "xlsx:" + l.path }

func (l *Loader) Ping(_ context.Context) error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("xlsx: stat workbook: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("xlsx: %s is a directory", l.path)
	}
	return nil
}

// Load reads the worksheet, drops spacer rows and the filter footer,
// and normalizes everything else.
func (l *Loader) Load(_ context.Context) (domain.Dataset, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return domain.Dataset{}, fmt.Errorf("xlsx: sheet %q has no header row", sheet)
	}

	var records [][]any
	for _, row := range rows[1:] {
		if blankRow(row) || filterFooter(row) {
			continue
		}
		rec := make([]any, len(row))
		for i, cell := range row {
			rec[i] = cell
		}
		records = append(records, rec)
	}

	return l.norm.BuildDataset(l.Describe(), rows[0], records), nil
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
