// Package runner executes the pairs of a reconciliation manifest
// concurrently and aggregates their outcomes into a run report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/finops-claw-gang/recon-go/internal/compare"
	"github.com/finops-claw-gang/recon-go/internal/config"
	"github.com/finops-claw-gang/recon-go/internal/connectors"
	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/events"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
	"github.com/finops-claw-gang/recon-go/internal/observability"
	"github.com/finops-claw-gang/recon-go/internal/report"
	"github.com/finops-claw-gang/recon-go/internal/schema"
	"github.com/finops-claw-gang/recon-go/internal/verifier"
)

// SourceBuilder resolves a manifest spec into a loadable source.
type SourceBuilder interface {
	Source(spec config.SourceSpec) (connectors.DatasetSource, error)
}

// Runner reconciles every pair in a manifest. Logger, Events, and
// Metrics may be nil; Concurrency defaults to 1.
type Runner struct {
	Sources     SourceBuilder
	Logger      *slog.Logger
	Events      events.Emitter
	Metrics     *observability.Metrics
	Concurrency int
	Quick       bool
}

// Run reconciles all pairs and returns the aggregated report.
// A pair whose sources cannot load is skipped; a pair whose
// comparison fails is errored. Neither stops the other pairs.
func (r *Runner) Run(ctx context.Context, m config.Manifest) domain.Report {
	runID := uuid.NewString()
	logger := r.logger().With("run_id", runID)

	logger.Info("run started", "pairs", len(m.Pairs), "quick", r.Quick)
	r.emit(events.Now(events.RunStarted, runID))

	opts := compare.Options{
		Tolerance:      m.Tolerance,
		SampleSize:     m.SampleSize,
		StructuralOnly: r.Quick,
	}

	// One slot per pair keeps outcomes in manifest order no matter
	// which worker finishes first.
	outcomes := make([]domain.Outcome, len(m.Pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())
	for i, pair := range m.Pairs {
		g.Go(func() error {
			outcomes[i] = r.runPair(gctx, runID, pair, opts)
			return nil
		})
	}
	_ = g.Wait()

	rep := report.Aggregate(outcomes, report.Meta{
		RunID:         runID,
		Tolerance:     effectiveTolerance(m.Tolerance),
		PercentPolicy: string(effectivePolicy(m.PercentPolicy)),
	})

	ev := events.Now(events.RunFinished, runID)
	ev.Status = runStatus(rep)
	r.emit(ev)
	logger.Info("run finished", "all_passed", rep.AllPassed)

	return rep
}

// Targets builds verifier probes for every source in the manifest.
func (r *Runner) Targets(m config.Manifest) ([]verifier.Target, error) {
	var targets []verifier.Target
	for _, pair := range m.Pairs {
		ref, err := r.Sources.Source(pair.Reference)
		if err != nil {
			return nil, fmt.Errorf("runner: pair %s reference: %w", pair.Label, err)
		}
		cand, err := r.Sources.Source(pair.Candidate)
		if err != nil {
			return nil, fmt.Errorf("runner: pair %s candidate: %w", pair.Label, err)
		}
		targets = append(targets,
			verifier.Target{Pair: pair.Label, Side: "reference", Source: ref},
			verifier.Target{Pair: pair.Label, Side: "candidate", Source: cand},
		)
	}
	return targets, nil
}

func (r *Runner) runPair(ctx context.Context, runID string, pair config.PairSpec, opts compare.Options) domain.Outcome {
	ctx, span := otel.Tracer("recon").Start(ctx, "reconcile."+pair.Label)
	defer span.End()
	span.SetAttributes(attribute.String("pair", pair.Label))

	started := time.Now()
	logger := r.logger().With("run_id", runID, "pair", pair.Label)

	ev := events.Now(events.PairStarted, runID)
	ev.Pair = pair.Label
	r.emit(ev)

	outcome := r.comparePair(ctx, logger, pair, opts)

	if r.Metrics != nil {
		r.Metrics.RecordComparison(ctx, pair.Label, string(outcome.Status))
		if outcome.Result != nil {
			r.Metrics.RecordMismatches(ctx, pair.Label, len(outcome.Result.Mismatches))
		}
		r.Metrics.RecordPairDuration(ctx, pair.Label, time.Since(started))
	}

	evType := events.PairFinished
	if outcome.Status == domain.StatusSkipped {
		evType = events.PairSkipped
	}
	ev = events.Now(evType, runID)
	ev.Pair = pair.Label
	ev.Status = string(outcome.Status)
	ev.Detail = outcome.Err
	r.emit(ev)

	logger.Info("pair finished",
		"status", string(outcome.Status),
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)
	return outcome
}

func (r *Runner) comparePair(ctx context.Context, logger *slog.Logger, pair config.PairSpec, opts compare.Options) domain.Outcome {
	outcome := domain.Outcome{Label: pair.Label}

	ref, err := r.loadSide(ctx, logger, pair.Reference, "reference")
	if err != nil {
		outcome.Status = domain.StatusSkipped
		outcome.Err = err.Error()
		return outcome
	}
	cand, err := r.loadSide(ctx, logger, pair.Candidate, "candidate")
	if err != nil {
		outcome.Status = domain.StatusSkipped
		outcome.Err = err.Error()
		return outcome
	}

	opts.JoinKeys = pair.JoinKeys
	mapping := schema.Map(ref.Columns, cand.Columns)

	result, err := compare.Compare(ref, cand, mapping, opts)
	if err != nil {
		outcome.Status = domain.StatusErrored
		outcome.Err = err.Error()
		return outcome
	}

	outcome.Result = &result
	if result.OverallPass {
		outcome.Status = domain.StatusPassed
	} else {
		outcome.Status = domain.StatusFailed
	}
	return outcome
}

func (r *Runner) loadSide(ctx context.Context, logger *slog.Logger, spec config.SourceSpec, side string) (domain.Dataset, error) {
	src, err := r.Sources.Source(spec)
	if err != nil {
		return domain.Dataset{}, err
	}

	ds, err := src.Load(ctx)
	if err != nil {
		logger.Warn("load failed", "side", side, "source", src.Describe(), "error", err)
		if r.Metrics != nil {
			kind := string(spec.Kind)
			var loadErr *connectors.LoadError
			if errors.As(err, &loadErr) {
				kind = loadErr.Kind
			}
			r.Metrics.RecordLoaderError(ctx, kind)
		}
		return domain.Dataset{}, err
	}

	logger.Debug("loaded dataset",
		"side", side,
		"source", ds.Label,
		"rows", len(ds.Rows),
		"columns", len(ds.Columns),
	)
	return ds, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) emit(ev events.Event) {
	if r.Events != nil {
		r.Events.Emit(ev)
	}
}

func (r *Runner) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return 1
}

func effectiveTolerance(tol float64) float64 {
	if tol <= 0 {
		return compare.DefaultTolerance
	}
	return tol
}

func effectivePolicy(policy string) normalize.PercentPolicy {
	if policy == "" {
		return normalize.PercentMagnitude
	}
	return normalize.PercentPolicy(policy)
}

func runStatus(rep domain.Report) string {
	if rep.AllPassed {
		return "passed"
	}
	return "failed"
}
