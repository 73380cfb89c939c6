// Package mcpserver exposes reconciliation runs via MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finops-claw-gang/recon-go/internal/config"
	"github.com/finops-claw-gang/recon-go/internal/domain"
)

// RunnerAPI is the slice of the runner used by the MCP tools.
type RunnerAPI interface {
	Run(ctx context.Context, m config.Manifest) domain.Report
}

// Tools serves the reconciliation MCP tools for one manifest. The
// most recent report is retained for get_report.
type Tools struct {
	mu       sync.Mutex
	manifest config.Manifest
	runner   RunnerAPI
	last     *domain.Report
}

// NewTools creates the tool set over a validated manifest.
func NewTools(manifest config.Manifest, runner RunnerAPI) *Tools {
	return &Tools{manifest: manifest, runner: runner}
}

// RegisterTools registers all reconciliation MCP tools on the given server.
func (t *Tools) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_pairs",
			Description: "List the reconciliation pairs defined in the manifest with their source locators",
		},
		t.listPairsHandler(),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "run_reconciliation",
			Description: "Reconcile manifest pairs and return the run summary; pass pair to run a single pair",
		},
		t.runHandler(),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_report",
			Description: "Get the full report from the most recent reconciliation run",
		},
		t.getReportHandler(),
	)
}

type listPairsInput struct{}

func (t *Tools) listPairsHandler() mcp.ToolHandlerFor[listPairsInput, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ listPairsInput) (*mcp.CallToolResult, any, error) {
		type pairInfo struct {
			Label     string   `json:"label"`
			Reference string   `json:"reference"`
			Candidate string   `json:"candidate"`
			JoinKeys  []string `json:"join_keys,omitempty"`
		}

		infos := make([]pairInfo, 0, len(t.manifest.Pairs))
		for _, p := range t.manifest.Pairs {
			infos = append(infos, pairInfo{
				Label:     p.Label,
				Reference: locator(p.Reference),
				Candidate: locator(p.Candidate),
				JoinKeys:  p.JoinKeys,
			})
		}
		return textResult(infos)
	}
}

type runInput struct {
	Pair string `json:"pair,omitempty"`
}

func (t *Tools) runHandler() mcp.ToolHandlerFor[runInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input runInput) (*mcp.CallToolResult, any, error) {
		m := t.manifest
		if input.Pair != "" {
			pair, ok := m.Pair(input.Pair)
			if !ok {
				return errorResult(fmt.Sprintf("unknown pair %q (manifest defines: %s)",
					input.Pair, strings.Join(m.Labels(), ", "))), nil, nil
			}
			m.Pairs = []config.PairSpec{pair}
		}

		rep := t.runner.Run(ctx, m)

		t.mu.Lock()
		t.last = &rep
		t.mu.Unlock()

		return textResult(map[string]any{
			"run_id":     rep.RunID,
			"all_passed": rep.AllPassed,
			"summary":    rep.Summary,
		})
	}
}

type getReportInput struct{}

func (t *Tools) getReportHandler() mcp.ToolHandlerFor[getReportInput, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ getReportInput) (*mcp.CallToolResult, any, error) {
		t.mu.Lock()
		last := t.last
		t.mu.Unlock()

		if last == nil {
			return errorResult("no report available; call run_reconciliation first"), nil, nil
		}
		return textResult(last)
	}
}

func locator(spec config.SourceSpec) string {
	switch spec.Kind {
	case config.SourceAthena:
		if spec.Table != "" {
			return "athena:" + spec.Table
		}
		return "athena:query"
	case config.SourceSQLite:
		if spec.Table != "" {
			return "sqlite:" + spec.Path + "#" + spec.Table
		}
		return "sqlite:" + spec.Path + "#query"
	default:
		return string(spec.Kind) + ":" + spec.Path
	}
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
