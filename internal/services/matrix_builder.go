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
	"golang.org/x/sync/errgroup"
)

// MatrixBuilder materializes the full travel-time matrix for one request.
//
// Provider lookups run concurrently (bounded by Options.Concurrency) and are
// deduplicated by place. Failed lookups are retried with backoff and then
// replaced by straight-line estimates, so Build only fails on bad input.
type MatrixBuilder struct {
	provider ports.DistanceProvider
	opts     Options
	log      logrus.FieldLogger
	metrics  OptimizerMetrics
}

func NewMatrixBuilder(
	provider ports.DistanceProvider,
	opts Options,
	log logrus.FieldLogger,
	metrics OptimizerMetrics,
) *MatrixBuilder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MatrixBuilder{
		provider: provider,
		opts:     opts.withDefaults(),
		log:      log,
		metrics:  metrics,
	}
}

// lookup is one unique (origin place, destination place) pair and every
// matrix cell that shares it.
type lookup struct {
	origin, destination domain.Location
	cells               [][2]int
	result              ports.DistanceResult
	ok                  bool
}

// Build returns the complete directed matrix over the depot and locations.
func (b *MatrixBuilder) Build(
	ctx context.Context,
	depot domain.Location,
	locations []domain.Location,
) (_ *TravelTimeMatrix, err error) {
	defer obs.Time(ctx, b.log, "matrix.Build")(&err)

	if b.provider == nil {
		return nil, errors.New("build matrix: provider must be non-nil")
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("build matrix: %w", domain.ErrNoLocations)
	}

	seen := map[string]struct{}{depot.ID: {}}
	for _, l := range locations {
		if _, ok := seen[l.ID]; ok {
			return nil, fmt.Errorf("build matrix: location %q: %w", l.ID, domain.ErrDuplicateID)
		}
		seen[l.ID] = struct{}{}
	}

	m := newTravelTimeMatrix(depot, locations)

	// The per-build cache: one lookup per unique place pair, discarded with the run.
	lookups := make([]*lookup, 0, m.Size()*m.Size())
	byKey := make(map[string]*lookup)
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			if i == j {
				continue
			}
			from, to := m.locations[i], m.locations[j]
			if from.PlaceKey() == to.PlaceKey() {
				m.set(i, j, matrixEntry{provenance: domain.Measured})
				continue
			}

			key := from.PlaceKey() + "|" + to.PlaceKey() + "|" + b.opts.Mode
			lk, ok := byKey[key]
			if !ok {
				lk = &lookup{origin: from, destination: to}
				byKey[key] = lk
				lookups = append(lookups, lk)
			}
			lk.cells = append(lk.cells, [2]int{i, j})
		}
	}

	if mp, ok := b.provider.(ports.DistanceMatrixProvider); ok {
		b.fetchRows(ctx, mp, lookups)
	} else {
		b.fetchPairs(ctx, lookups)
	}

	estimated := 0
	for _, lk := range lookups {
		entry := matrixEntry{
			minutes:    float64(lk.result.DurationSeconds) / 60,
			meters:     float64(lk.result.DistanceMeters),
			provenance: domain.Measured,
		}
		if !lk.ok {
			entry = b.estimate(lk.origin, lk.destination)
			estimated += len(lk.cells)
		}
		for _, c := range lk.cells {
			m.set(c[0], c[1], entry)
		}
	}

	if estimated > 0 {
		b.log.WithFields(logrus.Fields{
			"req_id":    obs.RequestID(ctx),
			"estimated": estimated,
			"lookups":   len(lookups),
		}).Warn("matrix degraded to straight-line estimates")
		if b.metrics != nil {
			b.metrics.EstimatedEntriesAdd(estimated)
		}
	}

	return m, nil
}

// fetchPairs issues one provider call per unique pair.
func (b *MatrixBuilder) fetchPairs(ctx context.Context, lookups []*lookup) {
	var g errgroup.Group
	g.SetLimit(b.opts.Concurrency)

	for _, lk := range lookups {
		g.Go(func() error {
			b.fetchPair(ctx, lk)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *MatrixBuilder) fetchPair(ctx context.Context, lk *lookup) {
	var res ports.DistanceResult
	err := b.withRetry(ctx, func(callCtx context.Context) error {
		r, err := b.provider.GetDistance(callCtx, lk.origin, lk.destination)
		if err != nil {
			return err
		}
		if r.DurationSeconds < 0 {
			return fmt.Errorf("negative duration %d: %w", r.DurationSeconds, ports.ErrPermanent)
		}
		res = r
		return nil
	})
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"req_id": obs.RequestID(ctx),
			"from":   lk.origin.Label(),
			"to":     lk.destination.Label(),
		}).WithError(err).Warn("travel time lookup failed, using estimate")
		return
	}
	lk.result, lk.ok = res, true
}

// fetchRows issues one batched call per unique origin place. Destinations a
// row does not return are looked up individually; a failed row is estimated.
func (b *MatrixBuilder) fetchRows(ctx context.Context, mp ports.DistanceMatrixProvider, lookups []*lookup) {
	type row struct {
		origin  domain.Location
		lookups []*lookup
	}

	rows := make([]*row, 0)
	byOrigin := make(map[string]*row)
	for _, lk := range lookups {
		key := lk.origin.PlaceKey()
		r, ok := byOrigin[key]
		if !ok {
			r = &row{origin: lk.origin}
			byOrigin[key] = r
			rows = append(rows, r)
		}
		r.lookups = append(r.lookups, lk)
	}

	var g errgroup.Group
	g.SetLimit(b.opts.Concurrency)

	for _, r := range rows {
		g.Go(func() error {
			destinations := make([]domain.Location, 0, len(r.lookups))
			for _, lk := range r.lookups {
				destinations = append(destinations, lk.destination)
			}

			var results map[string]ports.DistanceResult
			err := b.withRetry(ctx, func(callCtx context.Context) error {
				res, err := mp.GetDistances(callCtx, r.origin, destinations)
				if err != nil {
					return err
				}
				results = res
				return nil
			})
			if err != nil {
				b.log.WithFields(logrus.Fields{
					"req_id": obs.RequestID(ctx),
					"from":   r.origin.Label(),
					"count":  len(destinations),
				}).WithError(err).Warn("travel time row failed, using estimates")
				return nil
			}

			for _, lk := range r.lookups {
				res, ok := results[lk.destination.PlaceKey()]
				if ok && res.DurationSeconds >= 0 {
					lk.result, lk.ok = res, true
					continue
				}
				b.fetchPair(ctx, lk)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// withRetry runs call with a per-attempt timeout, retrying transient errors
// with exponential backoff while respecting ctx cancellation.
func (b *MatrixBuilder) withRetry(ctx context.Context, call func(context.Context) error) error {
	backoff := b.opts.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= b.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			b.observeCall(OutcomeFailed)
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return err
		}

		callCtx, cancel := context.WithTimeout(ctx, b.opts.CallTimeout)
		err := call(callCtx)
		cancel()
		if err == nil {
			b.observeCall(OutcomeOK)
			return nil
		}
		lastErr = err

		if errors.Is(err, ports.ErrPermanent) || attempt == b.opts.MaxAttempts {
			break
		}
		b.observeCall(OutcomeRetry)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			b.observeCall(OutcomeFailed)
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-timer.C:
		}

		backoff = min(backoff*2, b.opts.MaxBackoff)
	}

	b.observeCall(OutcomeFailed)
	return lastErr
}

func (b *MatrixBuilder) observeCall(outcome string) {
	if b.metrics != nil {
		b.metrics.ProviderCallInc(outcome)
	}
}

// estimate derives a travel time from straight-line distance at the
// configured average speed, or the flat fallback when coordinates are missing.
func (b *MatrixBuilder) estimate(from, to domain.Location) matrixEntry {
	if from.Coordinates == nil || to.Coordinates == nil {
		return matrixEntry{minutes: b.opts.FallbackMinutes, provenance: domain.Estimated}
	}
	meters := from.Coordinates.DistanceMeters(*to.Coordinates)
	return matrixEntry{
		minutes:    meters / 1000 / b.opts.AverageSpeedKPH * 60,
		meters:     meters,
		provenance: domain.Estimated,
	}
}
