// Package config loads runtime settings from the environment and
// reconciliation manifests from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all process-level configuration. Pair definitions live
// in the manifest, not here.
type Config struct {
	LogLevel         string
	AWSRegion        string
	AWSProfile       string
	CrossAccountRole string
	AthenaDatabase   string
	AthenaWorkgroup  string
	AthenaOutput     string
	MetricsNamespace string
	QueryBudget      int
	Concurrency      int
	TracingEnabled   bool
	ManifestPath     string
}

// LoadFromEnv reads configuration from environment variables with
// sensible defaults.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		LogLevel:         envOr("RECON_LOG_LEVEL", "info"),
		AWSRegion:        envOr("AWS_REGION", "us-east-1"),
		AWSProfile:       os.Getenv("AWS_PROFILE"),
		CrossAccountRole: os.Getenv("RECON_CROSS_ACCOUNT_ROLE"),
		AthenaDatabase:   os.Getenv("RECON_ATHENA_DATABASE"),
		AthenaWorkgroup:  envOr("RECON_ATHENA_WORKGROUP", "primary"),
		AthenaOutput:     os.Getenv("RECON_ATHENA_OUTPUT_LOCATION"),
		MetricsNamespace: envOr("RECON_METRICS_NAMESPACE", "Recon"),
		ManifestPath:     envOr("RECON_MANIFEST", "recon.yaml"),
		TracingEnabled:   boolEnv("RECON_TRACING"),
	}

	var err error
	if cfg.Concurrency, err = intEnv("RECON_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}
	if cfg.QueryBudget, err = intEnv("RECON_QUERY_BUDGET", 0); err != nil {
		return Config{}, err
	}

	if cfg.Concurrency < 1 {
		return Config{}, fmt.Errorf("config: RECON_CONCURRENCY must be positive (got %d)", cfg.Concurrency)
	}
	if cfg.QueryBudget < 0 {
		return Config{}, fmt.Errorf("config: RECON_QUERY_BUDGET must not be negative (got %d)", cfg.QueryBudget)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("config: invalid RECON_LOG_LEVEL %q (must be debug, info, warn or error)", cfg.LogLevel)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer (got %q)", key, raw)
	}
	return n, nil
}
