// Package athena loads reconciliation datasets from AWS Athena
// tables or ad-hoc queries.
package athena

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ath "github.com/aws/aws-sdk-go-v2/service/athena"
	athtypes "github.com/aws/aws-sdk-go-v2/service/athena/types"

	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
	"github.com/finops-claw-gang/recon-go/internal/ratelimit"
)

const (
	pollInterval = 2 * time.Second
	pollTimeout  = 120 * time.Second
)

// API is the subset of the Athena client used by this package.
type API interface {
	StartQueryExecution(ctx context.Context, params *ath.StartQueryExecutionInput, optFns ...func(*ath.Options)) (*ath.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *ath.GetQueryExecutionInput, optFns ...func(*ath.Options)) (*ath.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *ath.GetQueryResultsInput, optFns ...func(*ath.Options)) (*ath.GetQueryResultsOutput, error)
}

// Settings holds the Athena execution context shared by all sources.
type Settings struct {
	Database       string
	Workgroup      string
	OutputLocation string
}

// Source loads one side of a reconciliation pair from Athena. Either
// table or query is set; query wins when both are present.
type Source struct {
	api      API
	settings Settings
	table    string
	query    string
	norm     normalize.Normalizer
	limiter  *ratelimit.ServiceLimiter
	budget   *ratelimit.QueryBudget
}

// New creates a Source from an AWS config. limiter and budget may be
// nil to disable throttling.
func New(cfg aws.Config, settings Settings, table, query string, norm normalize.Normalizer, limiter *ratelimit.ServiceLimiter, budget *ratelimit.QueryBudget) *Source {
	return NewFromAPI(ath.NewFromConfig(cfg), settings, table, query, norm, limiter, budget)
}

// NewFromAPI creates a Source from an explicit API implementation (for testing).
func NewFromAPI(api API, settings Settings, table, query string, norm normalize.Normalizer, limiter *ratelimit.ServiceLimiter, budget *ratelimit.QueryBudget) *Source {
	return &Source{
		api:      api,
		settings: settings,
		table:    table,
		query:    query,
		norm:     norm,
		limiter:  limiter,
		budget:   budget,
	}
}

// Describe identifies the source in reports and logs.
func (s *Source) Describe() string {
	if s.query != "" {
		return "athena:" + s.settings.Database + "#query"
	}
	return "athena:" + s.settings.Database + "." + s.table
}

// Load runs the query, pages through the result set, and normalizes
// every cell. The first row of the first page is the header.
func (s *Source) Load(ctx context.Context) (domain.Dataset, error) {
	sql := s.query
	if sql == "" {
		var err error
		sql, err = buildSelect(s.table)
		if err != nil {
			return domain.Dataset{}, err
		}
	}

	header, rows, err := s.execute(ctx, sql)
	if err != nil {
		return domain.Dataset{}, err
	}
	if len(header) == 0 {
		return domain.Dataset{}, fmt.Errorf("athena: query returned no header row")
	}
	return s.norm.BuildDataset(s.Describe(), header, rows), nil
}

// Ping verifies the execution context by running a trivial query.
func (s *Source) Ping(ctx context.Context) error {
	_, _, err := s.execute(ctx, "SELECT 1")
	return err
}

func (s *Source) execute(ctx context.Context, sql string) ([]string, [][]any, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, ratelimit.ServiceAthena); err != nil {
			return nil, nil, err
		}
	}
	if s.budget != nil {
		if err := s.budget.Check(s.settings.Database, s.budgetTable()); err != nil {
			return nil, nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	in := &ath.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &athtypes.QueryExecutionContext{
			Database: aws.String(s.settings.Database),
		},
	}
	if s.settings.Workgroup != "" {
		in.WorkGroup = aws.String(s.settings.Workgroup)
	}
	if s.settings.OutputLocation != "" {
		in.ResultConfiguration = &athtypes.ResultConfiguration{
			OutputLocation: aws.String(s.settings.OutputLocation),
		}
	}

	startOut, err := s.api.StartQueryExecution(ctx, in)
	if err != nil {
		return nil, nil, fmt.Errorf("athena: start query: %w", err)
	}
	if s.budget != nil {
		s.budget.Record(s.settings.Database, s.budgetTable())
	}

	queryID := startOut.QueryExecutionId
	if err := s.waitForQuery(ctx, queryID); err != nil {
		return nil, nil, err
	}
	return s.fetchResults(ctx, queryID)
}

func (s *Source) budgetTable() string {
	if s.table != "" {
		return s.table
	}
	return "adhoc"
}

// waitForQuery polls until the execution reaches a terminal state,
// respecting context cancellation.
func (s *Source) waitForQuery(ctx context.Context, queryID *string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		execOut, err := s.api.GetQueryExecution(ctx, &ath.GetQueryExecutionInput{
			QueryExecutionId: queryID,
		})
		if err != nil {
			return fmt.Errorf("athena: get query execution: %w", err)
		}

		switch execOut.QueryExecution.Status.State {
		case athtypes.QueryExecutionStateSucceeded:
			return nil
		case athtypes.QueryExecutionStateFailed:
			reason := ""
			if execOut.QueryExecution.Status.StateChangeReason != nil {
				reason = *execOut.QueryExecution.Status.StateChangeReason
			}
			return fmt.Errorf("athena: query failed: %s", reason)
		case athtypes.QueryExecutionStateCancelled:
			return fmt.Errorf("athena: query was cancelled")
		default:
			select {
			case <-ctx.Done():
				return fmt.Errorf("athena: query %s: %w", aws.ToString(queryID), ctx.Err())
			case <-ticker.C:
			}
		}
	}
}

// fetchResults pages through the result set. Athena repeats the
// header row only on the first page.
func (s *Source) fetchResults(ctx context.Context, queryID *string) ([]string, [][]any, error) {
	var (
		header []string
		rows   [][]any
		token  *string
		first  = true
	)
	for {
		out, err := s.api.GetQueryResults(ctx, &ath.GetQueryResultsInput{
			QueryExecutionId: queryID,
			NextToken:        token,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("athena: get query results: %w", err)
		}

		if out.ResultSet != nil {
			data := out.ResultSet.Rows
			if first && len(data) > 0 {
				header = datumStrings(data[0])
				data = data[1:]
			}
			for _, row := range data {
				rows = append(rows, datumValues(row))
			}
		}
		first = false

		token = out.NextToken
		if token == nil {
			return header, rows, nil
		}
	}
}

func datumStrings(row athtypes.Row) []string {
	out := make([]string, len(row.Data))
	for i, d := range row.Data {
		out[i] = aws.ToString(d.VarCharValue)
	}
	return out
}

// datumValues keeps NULL cells as nil so normalization marks them
// absent instead of empty text.
func datumValues(row athtypes.Row) []any {
	out := make([]any, len(row.Data))
	for i, d := range row.Data {
		if d.VarCharValue != nil {
			out[i] = *d.VarCharValue
		}
	}
	return out
}
