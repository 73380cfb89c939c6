package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	n := New(PercentMagnitude)

	tests := []struct {
		name string
		raw  any
		want domain.CellValue
	}{
		{name: "nil", raw: nil, want: domain.Absent()},
		{name: "empty string", raw: "", want: domain.Absent()},
		{name: "whitespace only", raw: "   \t ", want: domain.Absent()},
		{name: "nan token", raw: "NaN", want: domain.Absent()},
		{name: "none token", raw: "None", want: domain.Absent()},
		{name: "null token upper", raw: "NULL", want: domain.Absent()},
		{name: "nan float", raw: math.NaN(), want: domain.Absent()},
		{name: "float", raw: 100.5, want: domain.Number(100.5)},
		{name: "int stays float", raw: 100, want: domain.Number(100)},
		{name: "int64", raw: int64(-3), want: domain.Number(-3)},
		{name: "uint", raw: uint(7), want: domain.Number(7)},
		{name: "plain numeric string", raw: "42", want: domain.Number(42)},
		{name: "padded numeric string", raw: "  42.5  ", want: domain.Number(42.5)},
		{name: "currency", raw: "$100.50", want: domain.Number(100.5)},
		{name: "thousands separators", raw: "1,234.56", want: domain.Number(1234.56)},
		{name: "currency with separators", raw: "$1,234,567.89", want: domain.Number(1234567.89)},
		{name: "percent magnitude", raw: "0.6%", want: domain.Number(0.6)},
		{name: "negative", raw: "-12.5", want: domain.Number(-12.5)},
		{name: "scientific", raw: "1e3", want: domain.Number(1000)},
		{name: "plain text", raw: "North Region", want: domain.Text("North Region")},
		{name: "padded text trims", raw: "  North  ", want: domain.Text("North")},
		{name: "not quite a number", raw: "12.3.4", want: domain.Text("12.3.4")},
		{name: "text keeps case", raw: "Alpha", want: domain.Text("Alpha")},
		{name: "bool degrades to text", raw: true, want: domain.Text("true")},
		{name: "bytes parse like strings", raw: []byte("$2.50"), want: domain.Number(2.5)},
		{name: "infinity degrades to text", raw: "inf", want: domain.Text("inf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	n := New(PercentFraction)

	raws := []any{nil, "", "NaN", "$1,000.25", "0.6%", "North", 12.5, int64(4), "12.3.4"}
	for _, raw := range raws {
		once := n.Normalize(raw)
		twice := n.Normalize(once)
		assert.Equal(t, once, twice, "raw %v", raw)
	}
}

func TestNormalizePercentFraction(t *testing.T) {
	t.Parallel()
	frac := New(PercentFraction)
	mag := New(PercentMagnitude)

	assert.Equal(t, domain.Number(0.006), frac.Normalize("0.6%"))
	assert.Equal(t, domain.Number(0.6), mag.Normalize("0.6%"))
	// Values without a percent sign are unaffected by the policy.
	assert.Equal(t, domain.Number(0.6), frac.Normalize("0.6"))
}

func TestNormalizerZeroValue(t *testing.T) {
	t.Parallel()
	var n Normalizer
	assert.Equal(t, domain.Number(50), n.Normalize("50%"))
	assert.False(t, PercentPolicy("half").Valid())
	assert.True(t, PercentMagnitude.Valid())
	assert.True(t, PercentFraction.Valid())
}

func TestBuildDataset(t *testing.T) {
	t.Parallel()
	n := New(PercentMagnitude)

	ds := n.BuildDataset("ref", []string{" Region ", "Charges"}, [][]any{
		{"North", "$100.50"},
		{"South"},
		{"East", "200", "spillover"},
	})

	require.Equal(t, []string{"Region", "Charges"}, ds.Columns)
	require.Len(t, ds.Rows, 3)
	assert.Equal(t, domain.Text("North"), ds.Rows[0]["Region"])
	assert.Equal(t, domain.Number(100.5), ds.Rows[0]["Charges"])
	// Short rows pad with absent cells.
	assert.Equal(t, domain.Absent(), ds.Rows[1]["Charges"])
	// Cells past the header width are dropped.
	assert.Len(t, ds.Rows[2], 2)
	assert.Equal(t, domain.Number(200), ds.Rows[2]["Charges"])
}
