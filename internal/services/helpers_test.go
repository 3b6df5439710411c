package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"van-route-service/internal/domain"
	"van-route-service/internal/ports"
)

type pair = [2]string

// matrixFromTable builds a measured matrix from symmetric minute entries.
func matrixFromTable(depot domain.Location, locations []domain.Location, minutes map[pair]float64) *TravelTimeMatrix {
	m := newTravelTimeMatrix(depot, locations)
	for k, v := range minutes {
		i, j := m.index[k[0]], m.index[k[1]]
		m.set(i, j, matrixEntry{minutes: v, provenance: domain.Measured})
		m.set(j, i, matrixEntry{minutes: v, provenance: domain.Measured})
	}
	return m
}

// at returns a location with distinct coordinates derived from n.
func at(id string, demand int, n float64) domain.Location {
	return domain.Location{
		ID:          id,
		Name:        id,
		Demand:      demand,
		Coordinates: &domain.Coordinates{Lon: -112 + n/100, Lat: 33 + n/100},
	}
}

func testOptions() Options {
	o := DefaultOptions()
	o.MaxAttempts = 2
	o.InitialBackoff = time.Millisecond
	o.MaxBackoff = 2 * time.Millisecond
	o.CallTimeout = time.Second
	return o
}

// failingProvider fails every call with a transient error.
type failingProvider struct {
	calls atomic.Int64
}

func (p *failingProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	p.calls.Add(1)
	return ports.DistanceResult{}, errors.New("provider unavailable")
}

// blockingProvider never answers before ctx is done.
type blockingProvider struct{}

func (blockingProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	<-ctx.Done()
	return ports.DistanceResult{}, ctx.Err()
}

// rowProvider answers rows from a fixed per-second function and can fail
// selected origins or omit selected destinations.
type rowProvider struct {
	seconds   func(from, to string) int
	failFrom  string
	omitTo    string
	rowCalls  atomic.Int64
	pairCalls atomic.Int64
}

func (p *rowProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	p.pairCalls.Add(1)
	if origin.ID == p.failFrom {
		return ports.DistanceResult{}, ports.ErrPermanent
	}
	return ports.DistanceResult{DurationSeconds: p.seconds(origin.ID, destination.ID)}, nil
}

func (p *rowProvider) GetDistances(ctx context.Context, origin domain.Location, destinations []domain.Location) (map[string]ports.DistanceResult, error) {
	p.rowCalls.Add(1)
	if origin.ID == p.failFrom {
		return nil, errors.New("row failed")
	}
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		if d.ID == p.omitTo {
			continue
		}
		out[d.PlaceKey()] = ports.DistanceResult{DurationSeconds: p.seconds(origin.ID, d.ID)}
	}
	return out, nil
}

// slowProvider sleeps on every call and records the peak number of calls in
// flight at once.
type slowProvider struct {
	delay    time.Duration
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (p *slowProvider) enter() {
	n := p.inFlight.Add(1)
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			return
		}
	}
}

func (p *slowProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	p.enter()
	defer p.inFlight.Add(-1)
	time.Sleep(p.delay)
	return ports.DistanceResult{DurationSeconds: 60}, nil
}

// slowRowProvider is slowProvider with the batched row port.
type slowRowProvider struct {
	slowProvider
}

func (p *slowRowProvider) GetDistances(ctx context.Context, origin domain.Location, destinations []domain.Location) (map[string]ports.DistanceResult, error) {
	p.enter()
	defer p.inFlight.Add(-1)
	time.Sleep(p.delay)
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		out[d.PlaceKey()] = ports.DistanceResult{DurationSeconds: 60}
	}
	return out, nil
}

// recordingMetrics counts provider call outcomes.
type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *recordingMetrics) ProviderCallInc(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string]int)
	}
	r.outcomes[outcome]++
}

func (r *recordingMetrics) count(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[outcome]
}

func (*recordingMetrics) EstimatedEntriesAdd(int)            {}
func (*recordingMetrics) StageObserve(string, time.Duration) {}
func (*recordingMetrics) ResultObserve(domain.Status, int)   {}

func (p *slowProvider) peakCalls() int64 { return p.peak.Load() }
