package connectors

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/finops-claw-gang/recon-go/internal/config"
	awsauth "github.com/finops-claw-gang/recon-go/internal/connectors/aws"
	"github.com/finops-claw-gang/recon-go/internal/connectors/aws/athena"
	"github.com/finops-claw-gang/recon-go/internal/connectors/csvfile"
	"github.com/finops-claw-gang/recon-go/internal/connectors/sqldb"
	"github.com/finops-claw-gang/recon-go/internal/connectors/xlsx"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
	"github.com/finops-claw-gang/recon-go/internal/ratelimit"
)

// Factory builds dataset sources from manifest specs. AWSCfg may be
// nil when the manifest uses no athena sources.
type Factory struct {
	Norm    normalize.Normalizer
	AWSCfg  *aws.Config
	Athena  athena.Settings
	Limiter *ratelimit.ServiceLimiter
	Budget  *ratelimit.QueryBudget
}

// NewFactory wires a Factory for the manifest. The AWS session is
// only loaded when the manifest names an athena source.
func NewFactory(ctx context.Context, cfg config.Config, m config.Manifest) (*Factory, error) {
	f := &Factory{
		Norm: normalize.New(normalize.PercentPolicy(m.PercentPolicy)),
	}
	if !usesAthena(m) {
		return f, nil
	}

	if cfg.CrossAccountRole != "" {
		if err := awsauth.ValidateRoleARN(cfg.CrossAccountRole); err != nil {
			return nil, err
		}
	}
	awsCfg, err := awsauth.NewConfig(ctx, awsauth.Settings{
		Region:  cfg.AWSRegion,
		Profile: cfg.AWSProfile,
		RoleARN: cfg.CrossAccountRole,
	})
	if err != nil {
		return nil, err
	}

	f.AWSCfg = &awsCfg
	f.Athena = athena.Settings{
		Database:       cfg.AthenaDatabase,
		Workgroup:      cfg.AthenaWorkgroup,
		OutputLocation: cfg.AthenaOutput,
	}
	f.Limiter = ratelimit.NewServiceLimiter(ratelimit.DefaultServiceRates())
	if cfg.QueryBudget > 0 {
		f.Budget = ratelimit.NewQueryBudget(cfg.QueryBudget, time.Hour)
	}
	return f, nil
}

func usesAthena(m config.Manifest) bool {
	for _, p := range m.Pairs {
		if p.Reference.Kind == config.SourceAthena || p.Candidate.Kind == config.SourceAthena {
			return true
		}
	}
	return false
}

// Source builds the connector for one side of a pair. Load failures
// on the returned source surface as *LoadError.
func (f *Factory) Source(spec config.SourceSpec) (DatasetSource, error) {
	switch spec.Kind {
	case config.SourceXLSX:
		return Wrap(string(spec.Kind), spec.Path, xlsx.New(spec.Path, spec.Sheet, f.Norm)), nil
	case config.SourceCSV:
		return Wrap(string(spec.Kind), spec.Path, csvfile.New(spec.Path, f.Norm)), nil
	case config.SourceSQLite:
		return Wrap(string(spec.Kind), spec.Path, sqldb.New(spec.Path, spec.Table, spec.Query, f.Norm)), nil
	case config.SourceAthena:
		if f.AWSCfg == nil {
			return nil, fmt.Errorf("connectors: athena source requires AWS credentials")
		}
		if f.Athena.Database == "" {
			return nil, fmt.Errorf("connectors: athena source requires a database (set RECON_ATHENA_DATABASE)")
		}
		locator := spec.Table
		if locator == "" {
			locator = "query"
		}
		src := athena.New(*f.AWSCfg, f.Athena, spec.Table, spec.Query, f.Norm, f.Limiter, f.Budget)
		return Wrap(string(spec.Kind), locator, src), nil
	}
	return nil, fmt.Errorf("connectors: unknown source kind %q", spec.Kind)
}
