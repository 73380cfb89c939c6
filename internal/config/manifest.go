package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

// labelPattern keeps pair labels safe for sheet names, metric
// dimensions, and file paths.
var labelPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SourceKind names a dataset connector.
type SourceKind string

const (
	SourceXLSX   SourceKind = "xlsx"
	SourceCSV    SourceKind = "csv"
	SourceSQLite SourceKind = "sqlite"
	SourceAthena SourceKind = "athena"
)

// Valid reports whether the kind names a known connector.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceXLSX, SourceCSV, SourceSQLite, SourceAthena:
		return true
	}
	return false
}

// SourceSpec describes one side of a reconciliation pair.
type SourceSpec struct {
	Kind  SourceKind `yaml:"kind"`
	Path  string     `yaml:"path,omitempty"`
	Sheet string     `yaml:"sheet,omitempty"`
	Table string     `yaml:"table,omitempty"`
	Query string     `yaml:"query,omitempty"`
}

// PairSpec names a reference/candidate dataset pair to reconcile.
type PairSpec struct {
	Label     string     `yaml:"label"`
	Reference SourceSpec `yaml:"reference"`
	Candidate SourceSpec `yaml:"candidate"`
	JoinKeys  []string   `yaml:"join_keys,omitempty"`
}

// Manifest is the YAML run definition: global comparison settings
// plus the list of pairs.
type Manifest struct {
	Tolerance     float64    `yaml:"tolerance,omitempty"`
	PercentPolicy string     `yaml:"percent_policy,omitempty"`
	SampleSize    int        `yaml:"sample_size,omitempty"`
	Pairs         []PairSpec `yaml:"pairs"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks global settings and every pair definition.
func (m Manifest) Validate() error {
	if len(m.Pairs) == 0 {
		return fmt.Errorf("manifest: no pairs defined")
	}
	if m.Tolerance < 0 {
		return fmt.Errorf("manifest: tolerance must not be negative (got %g)", m.Tolerance)
	}
	if m.SampleSize < 0 {
		return fmt.Errorf("manifest: sample_size must not be negative (got %d)", m.SampleSize)
	}
	if m.PercentPolicy != "" && !normalize.PercentPolicy(m.PercentPolicy).Valid() {
		return fmt.Errorf("manifest: invalid percent_policy %q (must be magnitude or fraction)", m.PercentPolicy)
	}

	seen := make(map[string]bool, len(m.Pairs))
	for _, pair := range m.Pairs {
		if !labelPattern.MatchString(pair.Label) {
			return fmt.Errorf("manifest: invalid pair label %q (letters, digits, underscore, hyphen)", pair.Label)
		}
		if seen[pair.Label] {
			return fmt.Errorf("manifest: duplicate pair label %q", pair.Label)
		}
		seen[pair.Label] = true

		if err := pair.Reference.validate(pair.Label, "reference"); err != nil {
			return err
		}
		if err := pair.Candidate.validate(pair.Label, "candidate"); err != nil {
			return err
		}
	}
	return nil
}

// Pair returns the pair with the given label.
func (m Manifest) Pair(label string) (PairSpec, bool) {
	for _, p := range m.Pairs {
		if p.Label == label {
			return p, true
		}
	}
	return PairSpec{}, false
}

// Labels returns pair labels in manifest order.
func (m Manifest) Labels() []string {
	labels := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		labels[i] = p.Label
	}
	return labels
}

func (s SourceSpec) validate(label, side string) error {
	if !s.Kind.Valid() {
		return fmt.Errorf("manifest: pair %s %s: unknown source kind %q", label, side, s.Kind)
	}

	switch s.Kind {
	case SourceXLSX, SourceCSV:
		if s.Path == "" {
			return fmt.Errorf("manifest: pair %s %s: path required for %s source", label, side, s.Kind)
		}
	case SourceSQLite:
		if s.Path == "" {
			return fmt.Errorf("manifest: pair %s %s: path required for sqlite source", label, side)
		}
		if s.Table == "" && s.Query == "" {
			return fmt.Errorf("manifest: pair %s %s: table or query required for sqlite source", label, side)
		}
	case SourceAthena:
		if s.Table == "" && s.Query == "" {
			return fmt.Errorf("manifest: pair %s %s: table or query required for athena source", label, side)
		}
	}
	return nil
}
