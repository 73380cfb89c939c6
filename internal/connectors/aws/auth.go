// Package aws provides the shared AWS session configuration for the
// warehouse-backed connectors and the metrics publisher.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Settings selects the account and identity the connectors run under.
// RoleARN is set when the warehouse lives in another account than the
// credentials, the usual shape for shared analytics accounts.
type Settings struct {
	Region  string
	Profile string
	RoleARN string
}

// NewConfig builds the aws.Config every AWS-backed connector shares.
// Credentials resolve through the default chain, optionally scoped to a
// named profile, then assume RoleARN when one is given.
func NewConfig(ctx context.Context, s Settings) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s.Region),
	}
	if s.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(s.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("aws auth: load config: %w", err)
	}

	if s.RoleARN != "" {
		stsClient := sts.NewFromConfig(cfg)
		cfg.Credentials = stscreds.NewAssumeRoleProvider(stsClient, s.RoleARN)
	}

	return cfg, nil
}
