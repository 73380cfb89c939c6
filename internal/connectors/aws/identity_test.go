package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRoleARN(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		arn     string
		wantErr bool
	}{
		{name: "valid", arn: "arn:aws:iam::123456789012:role/recon-readonly"},
		{name: "valid with path", arn: "arn:aws:iam::123456789012:role/analytics/recon"},
		{name: "wrong service", arn: "arn:aws:s3:::bucket", wantErr: true},
		{name: "short account", arn: "arn:aws:iam::1234:role/x", wantErr: true},
		{name: "empty", arn: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateRoleARN(tt.arn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIdentityCheckerCheck(t *testing.T) {
	t.Parallel()
	fake := &fakeIdentityAPI{
		out: &sts.GetCallerIdentityOutput{
			Account: awssdk.String("123456789012"),
			Arn:     awssdk.String("arn:aws:iam::123456789012:role/recon-readonly"),
		},
	}
	c := NewIdentityCheckerFromAPI(fake)

	id, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789012", id.Account)
	assert.Contains(t, id.ARN, "recon-readonly")
}

func TestIdentityCheckerError(t *testing.T) {
	t.Parallel()
	c := NewIdentityCheckerFromAPI(&fakeIdentityAPI{err: errors.New("ExpiredToken")})

	_, err := c.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get caller identity")
}

type fakeIdentityAPI struct {
	out *sts.GetCallerIdentityOutput
	err error
}

func (f *fakeIdentityAPI) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}
