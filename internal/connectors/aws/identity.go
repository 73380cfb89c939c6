package aws

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/finops-claw-gang/recon-go/internal/ratelimit"
)

var roleARNRe = regexp.MustCompile(`^arn:aws:iam::\d{12}:role/.+$`)

// ValidateRoleARN checks that the ARN looks like an IAM role ARN before
// any credentials are exchanged for it.
func ValidateRoleARN(arn string) error {
	if !roleARNRe.MatchString(arn) {
		return fmt.Errorf("invalid IAM role ARN: %q", arn)
	}
	return nil
}

// IdentityAPI is the subset of the STS client used for the preflight
// identity probe.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity reports who the resolved credentials authenticate as.
type Identity struct {
	Account string `json:"account"`
	ARN     string `json:"arn"`
}

// IdentityChecker probes the resolved credentials. Preflight checks run
// it before any warehouse query so a run fails fast on expired or
// mis-scoped credentials instead of mid-batch.
type IdentityChecker struct {
	api     IdentityAPI
	limiter *ratelimit.ServiceLimiter
}

// NewIdentityChecker builds a checker from the shared AWS config.
func NewIdentityChecker(cfg aws.Config, limiter *ratelimit.ServiceLimiter) *IdentityChecker {
	return &IdentityChecker{api: sts.NewFromConfig(cfg), limiter: limiter}
}

// NewIdentityCheckerFromAPI builds a checker with the given API
// implementation, used in tests.
func NewIdentityCheckerFromAPI(api IdentityAPI) *IdentityChecker {
	return &IdentityChecker{api: api}
}

// Check resolves the caller identity.
func (c *IdentityChecker) Check(ctx context.Context) (Identity, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, ratelimit.ServiceSTS); err != nil {
			return Identity{}, fmt.Errorf("aws identity: %w", err)
		}
	}
	out, err := c.api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("aws identity: get caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
	}, nil
}
