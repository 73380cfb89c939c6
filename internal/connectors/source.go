// Package connectors provides the dataset sources that materialize the
// reference and candidate sides of each reconciliation pair, and the
// factory that builds them from manifest descriptors.
//
// Concrete loaders live in subpackages (xlsx, csvfile, sqldb, and the
// AWS-backed aws/athena). The factory wraps each one so that every
// failure to materialize a dataset surfaces as a *LoadError, which the
// runner treats as "skip this pair and keep going".
package connectors

import (
	"context"
	"fmt"

	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// DatasetSource materializes one dataset. Implementations own their
// file handle or connection lifecycle; the engine only sees the
// returned dataset.
type DatasetSource interface {
	// Load materializes the normalized dataset.
	Load(ctx context.Context) (domain.Dataset, error)
	// Ping verifies the source is reachable without materializing it.
	Ping(ctx context.Context) error
	// Describe identifies the source for logs and reports.
	Describe() string
}

// LoadError marks a collaborator failure that kept a dataset from
// materializing. Pairs hitting one are skipped, never failed: a missing
// file says nothing about whether the data agrees.
type LoadError struct {
	Kind    string // source kind: xlsx, csv, sqlite, athena
	Locator string // path, table, or query label
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Locator, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// wrapped decorates a concrete loader so its failures carry the
// source kind and locator.
type wrapped struct {
	kind    string
	locator string
	src     DatasetSource
}

var _ DatasetSource = (*wrapped)(nil)

// Wrap returns a source whose Load and Ping failures are *LoadError
// values tagged with kind and locator.
func Wrap(kind, locator string, src DatasetSource) DatasetSource {
	return &wrapped{kind: kind, locator: locator, src: src}
}

func (w *wrapped) Load(ctx context.Context) (domain.Dataset, error) {
	ds, err := w.src.Load(ctx)
	if err != nil {
		return domain.Dataset{}, &LoadError{Kind: w.kind, Locator: w.locator, Err: err}
	}
	return ds, nil
}

func (w *wrapped) Ping(ctx context.Context) error {
	if err := w.src.Ping(ctx); err != nil {
		return &LoadError{Kind: w.kind, Locator: w.locator, Err: err}
	}
	return nil
}

func (w *wrapped) Describe() string { return w.src.Describe() }
