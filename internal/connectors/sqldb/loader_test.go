package sqldb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

func seedDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE claims_monthly (
		REGION TEXT,
		TOTAL_CHARGES REAL,
		MEMBER_MONTHS INTEGER,
		NOTES TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO claims_monthly VALUES
		('North', 100.5, 1200, NULL),
		('South', 1204.0, 800, 'restated')`)
	require.NoError(t, err)
	return path
}

func TestLoaderLoadTable(t *testing.T) {
	t.Parallel()
	path := seedDatabase(t)
	l := New(path, "claims_monthly", "", normalize.New(normalize.PercentMagnitude))

	ds, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"REGION", "TOTAL_CHARGES", "MEMBER_MONTHS", "NOTES"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, domain.Text("North"), ds.Rows[0]["REGION"])
	assert.Equal(t, domain.Number(100.5), ds.Rows[0]["TOTAL_CHARGES"])
	// Integer driver values normalize to numbers like everything else.
	assert.Equal(t, domain.Number(1200), ds.Rows[0]["MEMBER_MONTHS"])
	// SQL NULL normalizes to absent.
	assert.Equal(t, domain.Absent(), ds.Rows[0]["NOTES"])
	assert.Equal(t, domain.Text("restated"), ds.Rows[1]["NOTES"])
}

func TestLoaderLoadQuery(t *testing.T) {
	t.Parallel()
	path := seedDatabase(t)
	l := New(path, "", "SELECT REGION, TOTAL_CHARGES FROM claims_monthly WHERE REGION = 'North'", normalize.New(""))

	ds, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"REGION", "TOTAL_CHARGES"}, ds.Columns)
	require.Len(t, ds.Rows, 1)
}

func TestLoaderRejectsBadTableName(t *testing.T) {
	t.Parallel()
	l := New(seedDatabase(t), "claims; DROP TABLE claims_monthly", "", normalize.New(""))
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestLoaderMissingTable(t *testing.T) {
	t.Parallel()
	l := New(seedDatabase(t), "no_such_table", "", normalize.New(""))
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: query")
}

func TestLoaderDescribe(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "sqlite:x.db#claims", New("x.db", "claims", "", normalize.New("")).Describe())
	assert.Equal(t, "sqlite:x.db#query", New("x.db", "", "SELECT 1", normalize.New("")).Describe())
}

func TestLoaderPing(t *testing.T) {
	t.Parallel()
	l := New(seedDatabase(t), "claims_monthly", "", normalize.New(""))
	assert.NoError(t, l.Ping(context.Background()))
}
