package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"van-route-service/internal/domain"
	"van-route-service/internal/platform/obs"
	"van-route-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// Stage names reported to OptimizerMetrics.
const (
	StageMatrix   = "matrix"
	StageAllocate = "allocate"
	StageSequence = "sequence"
	StageImprove  = "improve"
)

// Optimizer runs the full routing pipeline for one request at a time.
// It holds no per-request state and is safe for concurrent use.
type Optimizer struct {
	provider ports.DistanceProvider
	opts     Options
	log      logrus.FieldLogger
	metrics  OptimizerMetrics
}

func NewOptimizer(
	provider ports.DistanceProvider,
	opts Options,
	log logrus.FieldLogger,
	metrics OptimizerMetrics,
) (*Optimizer, error) {
	if provider == nil {
		return nil, errors.New("new optimizer: provider must be non-nil")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Optimizer{
		provider: provider,
		opts:     opts.withDefaults(),
		log:      log.WithField("component", "optimizer"),
		metrics:  metrics,
	}, nil
}

// Options returns the effective options after defaults were applied.
func (o *Optimizer) Options() Options { return o.opts }

// Optimize assigns the request's locations to vans and orders each route.
//
// Only validation problems are returned as errors (*domain.ValidationError).
// Provider failures degrade to estimates and an expired timeout returns the
// best solution found so far; both are reported through the result status.
func (o *Optimizer) Optimize(ctx context.Context, req domain.RouteRequest) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, o.log, "optimizer.Optimize")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	opts := o.opts
	opts.ReturnToDepot = req.ReturnToDepot

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	builder := NewMatrixBuilder(o.provider, opts, o.log, o.metrics)
	m, err := builder.Build(ctx, req.Depot, req.Locations)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	start = o.observe(StageMatrix, start)

	initial := AllocateCapacity(m, req.Vans, req.Locations, opts.ReturnToDepot)
	start = o.observe(StageAllocate, start)

	sequenced := SequenceAll(m, initial)
	start = o.observe(StageSequence, start)

	improved, stats := ImproveRoutes(ctx, m, req.Vans, sequenced, opts)
	o.observe(StageImprove, start)

	result := AggregateResult(m, req.Vans, improved, stats.Completion, req.DepartAt, opts)

	o.log.WithFields(logrus.Fields{
		"req_id":       obs.RequestID(ctx),
		"vans":         len(req.Vans),
		"locations":    len(req.Locations),
		"unassigned":   len(result.Unassigned),
		"moves":        stats.Moves,
		"initial_cost": stats.InitialCost,
		"final_cost":   stats.FinalCost,
		"status":       result.Status.Flags(),
	}).Info("routes optimized")

	for _, u := range result.Unassigned {
		o.log.WithFields(logrus.Fields{
			"req_id":   obs.RequestID(ctx),
			"location": u.LocationID,
			"demand":   u.Demand,
			"reason":   u.Reason,
		}).Warn("location could not be assigned to any van")
	}

	if o.metrics != nil {
		o.metrics.ResultObserve(result.Status, len(result.Unassigned))
	}

	return result, nil
}

func (o *Optimizer) observe(stage string, start time.Time) time.Time {
	now := time.Now()
	if o.metrics != nil {
		o.metrics.StageObserve(stage, now.Sub(start))
	}
	return now
}
