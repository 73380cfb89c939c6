package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLimiterAllowsWithinRate(t *testing.T) {
	t.Parallel()

	sl := NewServiceLimiter(ServiceRates{Athena: 100, CloudWatch: 100, STS: 100})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, sl.Wait(ctx, ServiceAthena))
	}
}

func TestServiceLimiterUnknownServicePassesThrough(t *testing.T) {
	t.Parallel()

	sl := NewServiceLimiter(DefaultServiceRates())

	assert.NoError(t, sl.Wait(context.Background(), "Glue"))
}

func TestServiceLimiterFloorsBurstForFractionalRates(t *testing.T) {
	t.Parallel()

	// Truncating 0.5 rps to a zero burst would reject every Wait.
	sl := NewServiceLimiter(ServiceRates{Athena: 0.5, CloudWatch: 1, STS: 1})

	require.NoError(t, sl.Wait(context.Background(), ServiceAthena))
}

func TestServiceLimiterHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	// One token per 1000s, so the second Wait must block until cancel.
	sl := NewServiceLimiter(ServiceRates{Athena: 0.001, CloudWatch: 1, STS: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, sl.Wait(ctx, ServiceAthena))
	err := sl.Wait(ctx, ServiceAthena)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit Athena")
}

func TestDefaultServiceRates(t *testing.T) {
	t.Parallel()

	rates := DefaultServiceRates()
	assert.Equal(t, float64(5), rates.Athena)
	assert.Equal(t, float64(20), rates.CloudWatch)
	assert.Equal(t, float64(10), rates.STS)
}
