// Command recon reconciles reference/candidate dataset pairs defined
// in a YAML manifest.
//
// Usage:
//
//	recon run   [--manifest recon.yaml] [--quick] [--text out.txt] [--json out.json] [--excel out.xlsx]
//	recon check [--manifest recon.yaml]
//	recon version
//
// Exit codes: 0 when every pair passes, 1 when any pair fails, is
// skipped, or errors, 2 on configuration or runtime failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finops-claw-gang/recon-go/internal/config"
	"github.com/finops-claw-gang/recon-go/internal/connectors"
	awsauth "github.com/finops-claw-gang/recon-go/internal/connectors/aws"
	"github.com/finops-claw-gang/recon-go/internal/connectors/aws/cloudwatch"
	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/events"
	"github.com/finops-claw-gang/recon-go/internal/observability"
	"github.com/finops-claw-gang/recon-go/internal/render"
	"github.com/finops-claw-gang/recon-go/internal/runner"
	"github.com/finops-claw-gang/recon-go/internal/verifier"
)

var version = "v1.0.0"

// errFindings signals a completed run with failing, skipped, or
// errored pairs. main maps it to exit code 1.
var errFindings = errors.New("reconciliation findings")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "recon:", err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "recon",
		Short: "Reconcile tabular datasets across files and warehouses",
		Long: `recon compares reference/candidate dataset pairs cell by cell and
reports row, column, null, and value drift. Pairs are defined in a
YAML manifest; sources can be Excel workbooks, CSV files, SQLite
databases, or Athena tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCheckCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		manifestPath  string
		tolerance     float64
		sampleSize    int
		quick         bool
		textPath      string
		jsonPath      string
		excelPath     string
		maxMismatches int
		publish       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile every pair in the manifest and write reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			logger := observability.InitLogger(cfg.LogLevel, os.Stderr)

			ctx := cmd.Context()
			if cfg.TracingEnabled {
				shutdown, err := observability.InitTelemetry(ctx)
				if err != nil {
					logger.Error("otel init failed", "error", err)
				} else {
					defer shutdown(context.Background())
				}
			}

			if manifestPath == "" {
				manifestPath = cfg.ManifestPath
			}
			m, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			// Flag overrides beat manifest settings.
			if cmd.Flags().Changed("tolerance") {
				m.Tolerance = tolerance
			}
			if cmd.Flags().Changed("sample") {
				m.SampleSize = sampleSize
			}

			factory, err := connectors.NewFactory(ctx, cfg, m)
			if err != nil {
				return err
			}
			metrics, err := observability.NewMetrics()
			if err != nil {
				return err
			}

			r := &runner.Runner{
				Sources:     factory,
				Logger:      logger,
				Events:      events.LogEmitter{Logger: logger},
				Metrics:     metrics,
				Concurrency: cfg.Concurrency,
				Quick:       quick,
			}
			rep := r.Run(ctx, m)

			if err := writeReports(rep, textPath, jsonPath, excelPath, maxMismatches); err != nil {
				return err
			}
			if publish {
				if err := publishMetrics(ctx, cfg, factory, rep); err != nil {
					logger.Error("metrics publish failed", "error", err)
				}
			}
			printSummary(os.Stdout, rep)

			if !rep.AllPassed {
				return errFindings
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest path (default $RECON_MANIFEST or recon.yaml)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "numeric tolerance override")
	cmd.Flags().IntVar(&sampleSize, "sample", 0, "cell audit sample size override (0 audits every row)")
	cmd.Flags().BoolVar(&quick, "quick", false, "structural checks only, skip null and cell audits")
	cmd.Flags().StringVar(&textPath, "text", "", "write the text report to this path")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the JSON report to this path")
	cmd.Flags().StringVar(&excelPath, "excel", "", "write the Excel workbook to this path")
	cmd.Flags().IntVar(&maxMismatches, "max-mismatches", 50, "mismatch rows listed per pair in reports")
	cmd.Flags().BoolVar(&publish, "publish-metrics", false, "publish per-pair results to CloudWatch")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe every manifest source without reconciling",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			logger := observability.InitLogger(cfg.LogLevel, os.Stderr)
			ctx := cmd.Context()

			if manifestPath == "" {
				manifestPath = cfg.ManifestPath
			}
			m, err := config.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			factory, err := connectors.NewFactory(ctx, cfg, m)
			if err != nil {
				return err
			}

			if factory.AWSCfg != nil {
				checker := awsauth.NewIdentityChecker(*factory.AWSCfg, factory.Limiter)
				ident, err := checker.Check(ctx)
				if err != nil {
					fmt.Fprintf(os.Stdout, "aws identity   FAILED: %v\n", err)
					return errFindings
				}
				fmt.Fprintf(os.Stdout, "aws identity   %s (account %s)\n", ident.ARN, ident.Account)
			}

			r := &runner.Runner{Sources: factory, Logger: logger}
			targets, err := r.Targets(m)
			if err != nil {
				return err
			}

			results := verifier.Run(ctx, targets)
			for _, res := range results {
				status := "ok"
				if !res.OK {
					status = "FAILED: " + res.Detail
				}
				fmt.Fprintf(os.Stdout, "%-20s %-10s %-40s %s\n", res.Pair, res.Side, res.Source, status)
			}

			if !verifier.AllOK(results) {
				return errFindings
			}
			fmt.Fprintln(os.Stdout, "all sources reachable")
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest path (default $RECON_MANIFEST or recon.yaml)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the recon version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "recon", version)
		},
	}
}

func writeReports(rep domain.Report, textPath, jsonPath, excelPath string, maxMismatches int) error {
	if textPath != "" {
		if err := (render.TextRenderer{MaxMismatches: maxMismatches}).Render(rep, textPath); err != nil {
			return err
		}
	}
	if jsonPath != "" {
		if err := (render.JSONRenderer{}).Render(rep, jsonPath); err != nil {
			return err
		}
	}
	if excelPath != "" {
		if err := (render.ExcelRenderer{MaxMismatches: maxMismatches}).Render(rep, excelPath); err != nil {
			return err
		}
	}
	return nil
}

func publishMetrics(ctx context.Context, cfg config.Config, f *connectors.Factory, rep domain.Report) error {
	awsCfg := f.AWSCfg
	if awsCfg == nil {
		loaded, err := awsauth.NewConfig(ctx, awsauth.Settings{
			Region:  cfg.AWSRegion,
			Profile: cfg.AWSProfile,
			RoleARN: cfg.CrossAccountRole,
		})
		if err != nil {
			return err
		}
		awsCfg = &loaded
	}
	return cloudwatch.New(*awsCfg, cfg.MetricsNamespace, f.Limiter).PublishRun(ctx, rep)
}

func printSummary(w io.Writer, rep domain.Report) {
	fmt.Fprintf(w, "run %s: %d passed, %d failed, %d errored, %d skipped\n",
		rep.RunID,
		rep.CountByStatus(domain.StatusPassed),
		rep.CountByStatus(domain.StatusFailed),
		rep.CountByStatus(domain.StatusErrored),
		rep.CountByStatus(domain.StatusSkipped))
	for _, row := range rep.Summary {
		fmt.Fprintf(w, "  %-28s %-8s %s\n", row.Label, strings.ToUpper(string(row.Status)), row.Detail)
	}
	if rep.AllPassed {
		fmt.Fprintln(w, "OVERALL: PASS")
	} else {
		fmt.Fprintln(w, "OVERALL: FAIL")
	}
}
