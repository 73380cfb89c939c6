package connectors

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/recon-go/internal/config"
	"github.com/finops-claw-gang/recon-go/internal/connectors/aws/athena"
	"github.com/finops-claw-gang/recon-go/internal/normalize"
)

func newFactory() *Factory {
	return &Factory{Norm: normalize.New(normalize.PercentMagnitude)}
}

func TestFactoryBuildsFileSources(t *testing.T) {
	f := newFactory()

	cases := []struct {
		spec config.SourceSpec
		want string
	}{
		{config.SourceSpec{Kind: config.SourceXLSX, Path: "claims.xlsx"}, "xlsx:claims.xlsx"},
		{config.SourceSpec{Kind: config.SourceCSV, Path: "claims.csv"}, "csv:claims.csv"},
		{config.SourceSpec{Kind: config.SourceSQLite, Path: "w.db", Table: "claims"}, "sqlite:w.db#claims"},
	}

	for _, tc := range cases {
		src, err := f.Source(tc.spec)
		require.NoError(t, err)
		assert.Equal(t, tc.want, src.Describe())
	}
}

func TestFactoryWrapsLoadErrors(t *testing.T) {
	f := newFactory()
	missing := filepath.Join(t.TempDir(), "absent.csv")

	src, err := f.Source(config.SourceSpec{Kind: config.SourceCSV, Path: missing})
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "csv", loadErr.Kind)
	assert.Equal(t, missing, loadErr.Locator)
}

func TestFactoryAthenaSource(t *testing.T) {
	cfg := aws.Config{}
	f := &Factory{
		Norm:   normalize.New(normalize.PercentMagnitude),
		AWSCfg: &cfg,
		Athena: athena.Settings{Database: "cur_db", Workgroup: "primary"},
	}

	src, err := f.Source(config.SourceSpec{Kind: config.SourceAthena, Table: "claims_monthly"})
	require.NoError(t, err)
	assert.Equal(t, "athena:cur_db.claims_monthly", src.Describe())
}

func TestFactoryAthenaRequiresAWSConfig(t *testing.T) {
	f := newFactory()

	_, err := f.Source(config.SourceSpec{Kind: config.SourceAthena, Table: "claims_monthly"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AWS credentials")
}

func TestFactoryAthenaRequiresDatabase(t *testing.T) {
	cfg := aws.Config{}
	f := &Factory{Norm: normalize.New(normalize.PercentMagnitude), AWSCfg: &cfg}

	_, err := f.Source(config.SourceSpec{Kind: config.SourceAthena, Table: "claims_monthly"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECON_ATHENA_DATABASE")
}

func TestFactoryUnknownKind(t *testing.T) {
	f := newFactory()

	_, err := f.Source(config.SourceSpec{Kind: "parquet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source kind")
}

func TestNewFactoryFileOnlyManifest(t *testing.T) {
	m := config.Manifest{
		PercentPolicy: "fraction",
		Pairs: []config.PairSpec{{
			Label:     "claims",
			Reference: config.SourceSpec{Kind: config.SourceCSV, Path: "ref.csv"},
			Candidate: config.SourceSpec{Kind: config.SourceCSV, Path: "cand.csv"},
		}},
	}

	f, err := NewFactory(context.Background(), config.Config{}, m)
	require.NoError(t, err)
	require.NotNil(t, f.Norm)
	assert.Nil(t, f.AWSCfg)
	assert.Nil(t, f.Limiter)
	assert.Nil(t, f.Budget)
}

func TestNewFactoryRejectsBadRoleARN(t *testing.T) {
	m := config.Manifest{
		Pairs: []config.PairSpec{{
			Label:     "claims",
			Reference: config.SourceSpec{Kind: config.SourceCSV, Path: "ref.csv"},
			Candidate: config.SourceSpec{Kind: config.SourceAthena, Table: "claims_monthly"},
		}},
	}
	cfg := config.Config{AWSRegion: "us-east-1", CrossAccountRole: "not-an-arn"}

	_, err := NewFactory(context.Background(), cfg, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid IAM role ARN")
}
