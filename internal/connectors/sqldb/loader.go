// Package sqldb loads datasets from local SQL databases, the staging
// format used when warehouse extracts are snapshotted for offline
// reconciliation.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

const driverName = "sqlite"

// tablePattern constrains identifiers interpolated into generated SQL.
var tablePattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// Loader reads one table or query result from a SQLite snapshot.
type Loader struct {
	path  string
	table string
	query string // overrides table when set
	norm  normalize.Normalizer
}

// New returns a Loader for the database at path. A non-empty query wins
// over the table name.
func New(path, table, query string, norm normalize.Normalizer) *Loader {
	return &Loader{path: path, table: table, query: query, norm: norm}
}

func (l *Loader) Describe() string {
	if l.query != "" {
		return "sqlite:" + l.path + "#query"
	}
	return "sqlite:" + l.path + "#" + l.table
}

func (l *Loader) Ping(ctx context.Context) error {
	db, err := sql.Open(driverName, l.path)
	if err != nil {
		return fmt.Errorf("sqlite: open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping database: %w", err)
	}
	return nil
}

func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	query := l.query
	if query == "" {
		if !tablePattern.MatchString(l.table) {
			return domain.Dataset{}, fmt.Errorf("sqlite: invalid table name %q", l.table)
		}
		query = "SELECT * FROM " + l.table
	}

	db, err := sql.Open(driverName, l.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite: open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite: read columns: %w", err)
	}

	var records [][]any
	scan := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range scan {
		ptrs[i] = &scan[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return domain.Dataset{}, fmt.Errorf("sqlite: scan row: %w", err)
		}
		rec := make([]any, len(columns))
		copy(rec, scan)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite: iterate rows: %w", err)
	}

	return l.norm.BuildDataset(l.Describe(), columns, records), nil
}
