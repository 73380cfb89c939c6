// Package verifier probes every source named by a manifest so
// operators can catch bad paths and credentials before a run.
package verifier

import (
	"context"
	"time"

	"github.com/finops-claw-gang/recon-go/internal/connectors"
)

// Target is one source to probe.
type Target struct {
	Pair   string
	Side   string
	Source connectors.DatasetSource
}

// CheckResult records the probe outcome for one source.
type CheckResult struct {
	Pair     string        `json:"pair"`
	Side     string        `json:"side"`
	Source   string        `json:"source"`
	OK       bool          `json:"ok"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Run pings every target in order. A failed probe records its error
// and keeps going so one bad source does not hide the rest.
func Run(ctx context.Context, targets []Target) []CheckResult {
	results := make([]CheckResult, 0, len(targets))
	for _, tgt := range targets {
		started := time.Now()
		err := tgt.Source.Ping(ctx)

		res := CheckResult{
			Pair:     tgt.Pair,
			Side:     tgt.Side,
			Source:   tgt.Source.Describe(),
			OK:       err == nil,
			Duration: time.Since(started),
		}
		if err != nil {
			res.Detail = err.Error()
		}
		results = append(results, res)
	}
	return results
}

// AllOK reports whether every probe succeeded.
func AllOK(results []CheckResult) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}
