// Package ratelimit provides token-bucket limits for the AWS-backed
// connectors and a per-table query budget for warehouse sources.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Service names accepted by Wait. Each owns one token bucket.
const (
	ServiceAthena     = "Athena"
	ServiceCloudWatch = "CloudWatch"
	ServiceSTS        = "STS"
)

// ServiceRates configures per-service request rates in requests per
// second.
type ServiceRates struct {
	Athena     float64
	CloudWatch float64
	STS        float64
}

// DefaultServiceRates returns rates sized for reconciliation runs.
// Athena carries the most traffic because every warehouse-backed pair
// side submits a query and then polls it; CloudWatch only sees the
// end-of-run metric batches and STS one identity probe per preflight.
func DefaultServiceRates() ServiceRates {
	return ServiceRates{
		Athena:     5,
		CloudWatch: 20,
		STS:        10,
	}
}

// ServiceLimiter rate-limits AWS API calls per service using token
// buckets. Safe for concurrent use across pair workers.
type ServiceLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewServiceLimiter creates a limiter with the given per-service rates.
func NewServiceLimiter(rates ServiceRates) *ServiceLimiter {
	limiters := map[string]*rate.Limiter{
		ServiceAthena:     rate.NewLimiter(rate.Limit(rates.Athena), burst(rates.Athena)),
		ServiceCloudWatch: rate.NewLimiter(rate.Limit(rates.CloudWatch), burst(rates.CloudWatch)),
		ServiceSTS:        rate.NewLimiter(rate.Limit(rates.STS), burst(rates.STS)),
	}
	return &ServiceLimiter{limiters: limiters}
}

// burst floors the bucket size at one so fractional rates still admit
// single requests instead of rejecting every Wait.
func burst(rps float64) int {
	if rps < 1 {
		return 1
	}
	return int(rps)
}

// Wait blocks until a token is available for the named service, or ctx
// is cancelled.
func (sl *ServiceLimiter) Wait(ctx context.Context, service string) error {
	sl.mu.RLock()
	limiter, ok := sl.limiters[service]
	sl.mu.RUnlock()
	if !ok {
		return nil // unknown service = no limit
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", service, err)
	}
	return nil
}
