// Package testutil provides stub sources and dataset builders shared
// by runner and server tests.
package testutil

import (
	"context"
	"fmt"

	"github.com/finops-claw-gang/recon-go/internal/config"
	"github.com/finops-claw-gang/recon-go/internal/connectors"
	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

// NewDataset builds a normalized dataset from raw cell values.
func NewDataset(label string, columns []string, rows ...[]any) domain.Dataset {
	return normalize.New(normalize.PercentMagnitude).BuildDataset(label, columns, rows)
}

// StubSource serves a fixed dataset or error.
type StubSource struct {
	Name    string
	Dataset domain.Dataset
	LoadErr error
	PingErr error
	Loads   int
}

var _ connectors.DatasetSource = (*StubSource)(nil)

// Load implements connectors.DatasetSource.
func (s *StubSource) Load(context.Context) (domain.Dataset, error) {
	s.Loads++
	if s.LoadErr != nil {
		return domain.Dataset{}, s.LoadErr
	}
	return s.Dataset, nil
}

// Ping implements connectors.DatasetSource.
func (s *StubSource) Ping(context.Context) error { return s.PingErr }

// Describe implements connectors.DatasetSource.
func (s *StubSource) Describe() string { return s.Name }

// StubBuilder resolves manifest specs to stub sources keyed by path,
// falling back to table for warehouse specs.
type StubBuilder struct {
	Sources map[string]connectors.DatasetSource
}

// Source implements the runner's source builder.
func (b *StubBuilder) Source(spec config.SourceSpec) (connectors.DatasetSource, error) {
	key := spec.Path
	if key == "" {
		key = spec.Table
	}
	src, ok := b.Sources[key]
	if !ok {
		return nil, fmt.Errorf("testutil: no stub source for %q", key)
	}
	return src, nil
}
