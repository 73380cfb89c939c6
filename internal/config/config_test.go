package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "primary", cfg.AthenaWorkgroup)
	assert.Equal(t, "Recon", cfg.MetricsNamespace)
	assert.Equal(t, "recon.yaml", cfg.ManifestPath)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 0, cfg.QueryBudget)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECON_LOG_LEVEL", "debug")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("RECON_CROSS_ACCOUNT_ROLE", "arn:aws:iam::123456789012:role/recon-reader")
	t.Setenv("RECON_ATHENA_DATABASE", "cur_db")
	t.Setenv("RECON_ATHENA_OUTPUT_LOCATION", "s3://recon-results/")
	t.Setenv("RECON_CONCURRENCY", "8")
	t.Setenv("RECON_QUERY_BUDGET", "25")
	t.Setenv("RECON_TRACING", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.Equal(t, "arn:aws:iam::123456789012:role/recon-reader", cfg.CrossAccountRole)
	assert.Equal(t, "cur_db", cfg.AthenaDatabase)
	assert.Equal(t, "s3://recon-results/", cfg.AthenaOutput)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 25, cfg.QueryBudget)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadFromEnvInvalidConcurrency(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECON_CONCURRENCY", "0")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECON_CONCURRENCY must be positive")
}

func TestLoadFromEnvNonIntegerBudget(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECON_QUERY_BUDGET", "lots")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an integer")
}

func TestLoadFromEnvInvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECON_LOG_LEVEL", "loud")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid RECON_LOG_LEVEL")
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RECON_LOG_LEVEL", "AWS_REGION", "AWS_PROFILE",
		"RECON_CROSS_ACCOUNT_ROLE", "RECON_ATHENA_DATABASE",
		"RECON_ATHENA_WORKGROUP", "RECON_ATHENA_OUTPUT_LOCATION",
		"RECON_METRICS_NAMESPACE", "RECON_QUERY_BUDGET",
		"RECON_CONCURRENCY", "RECON_TRACING", "RECON_MANIFEST",
	} {
		// t.Setenv would restore the value; unsetting here ensures the
		// key is absent during the test.
		orig, wasSet := os.LookupEnv(key)
		if wasSet {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}
