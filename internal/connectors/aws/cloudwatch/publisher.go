// Package cloudwatch publishes reconciliation run metrics so
// dashboards and alarms can track drift between systems.
package cloudwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/finops-claw-gang/recon-go/internal/domain"
	"github.com/finops-claw-gang/recon-go/internal/ratelimit"
)

// batchSize is the PutMetricData per-call datum limit.
const batchSize = 20

// API is the subset of the CloudWatch client used by this package.
type API interface {
	PutMetricData(ctx context.Context, params *cw.PutMetricDataInput, optFns ...func(*cw.Options)) (*cw.PutMetricDataOutput, error)
}

// Publisher emits per-pair reconciliation metrics to CloudWatch.
type Publisher struct {
	api       API
	namespace string
	limiter   *ratelimit.ServiceLimiter
}

// New creates a Publisher from an AWS config. limiter may be nil.
func New(cfg aws.Config, namespace string, limiter *ratelimit.ServiceLimiter) *Publisher {
	return NewFromAPI(cw.NewFromConfig(cfg), namespace, limiter)
}

// NewFromAPI creates a Publisher from an explicit API implementation (for testing).
func NewFromAPI(api API, namespace string, limiter *ratelimit.ServiceLimiter) *Publisher {
	return &Publisher{api: api, namespace: namespace, limiter: limiter}
}

// PublishRun emits one ComparisonPassed datum per pair, plus a
// CellMismatches datum for every pair that produced a comparison.
// Datums are dimensioned by pair label and batched per the
// PutMetricData limit.
func (p *Publisher) PublishRun(ctx context.Context, rep domain.Report) error {
	ts := time.Now().UTC()
	if parsed, err := time.Parse(time.RFC3339, rep.GeneratedAt); err == nil {
		ts = parsed
	}

	var data []cwtypes.MetricDatum
	for _, out := range rep.Outcomes {
		dims := []cwtypes.Dimension{{
			Name:  aws.String("Pair"),
			Value: aws.String(out.Label),
		}}

		passed := 0.0
		if out.Status == domain.StatusPassed {
			passed = 1
		}
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String("ComparisonPassed"),
			Dimensions: dims,
			Timestamp:  aws.Time(ts),
			Value:      aws.Float64(passed),
			Unit:       cwtypes.StandardUnitCount,
		})

		if out.Result != nil {
			data = append(data, cwtypes.MetricDatum{
				MetricName: aws.String("CellMismatches"),
				Dimensions: dims,
				Timestamp:  aws.Time(ts),
				Value:      aws.Float64(float64(len(out.Result.Mismatches))),
				Unit:       cwtypes.StandardUnitCount,
			})
		}
	}

	for start := 0; start < len(data); start += batchSize {
		end := start + batchSize
		if end > len(data) {
			end = len(data)
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx, ratelimit.ServiceCloudWatch); err != nil {
				return err
			}
		}
		_, err := p.api.PutMetricData(ctx, &cw.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: data[start:end],
		})
		if err != nil {
			return fmt.Errorf("cloudwatch: put metric data: %w", err)
		}
	}
	return nil
}
