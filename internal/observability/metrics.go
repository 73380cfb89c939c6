package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OTel metric instruments for the reconciliation engine.
type Metrics struct {
	Comparisons    metric.Int64Counter
	CellMismatches metric.Int64Counter
	LoaderErrors   metric.Int64Counter
	PairDuration   metric.Float64Histogram
}

// NewMetrics creates the reconciliation metric instruments. They
// export once InitTelemetry has installed a meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(ServiceName)

	comparisons, err := meter.Int64Counter("recon.comparison.count",
		metric.WithDescription("Number of pair comparisons completed"),
	)
	if err != nil {
		return nil, err
	}

	cellMismatches, err := meter.Int64Counter("recon.comparison.cell_mismatches",
		metric.WithDescription("Number of mismatched cells found"),
	)
	if err != nil {
		return nil, err
	}

	loaderErrors, err := meter.Int64Counter("recon.loader.errors",
		metric.WithDescription("Number of dataset load failures"),
	)
	if err != nil {
		return nil, err
	}

	pairDuration, err := meter.Float64Histogram("recon.pair.duration_seconds",
		metric.WithDescription("Wall time to reconcile one pair"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Comparisons:    comparisons,
		CellMismatches: cellMismatches,
		LoaderErrors:   loaderErrors,
		PairDuration:   pairDuration,
	}, nil
}

// RecordComparison records one finished pair comparison.
func (m *Metrics) RecordComparison(ctx context.Context, pair, status string) {
	m.Comparisons.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("pair", pair),
			attribute.String("status", status),
		),
	)
}

// RecordMismatches records the mismatched cell count for a pair.
func (m *Metrics) RecordMismatches(ctx context.Context, pair string, n int) {
	m.CellMismatches.Add(ctx, int64(n),
		metric.WithAttributes(attribute.String("pair", pair)),
	)
}

// RecordLoaderError records a dataset load failure by connector kind.
func (m *Metrics) RecordLoaderError(ctx context.Context, kind string) {
	m.LoaderErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

// RecordPairDuration records the wall time spent reconciling a pair.
func (m *Metrics) RecordPairDuration(ctx context.Context, pair string, d time.Duration) {
	m.PairDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("pair", pair)),
	)
}
