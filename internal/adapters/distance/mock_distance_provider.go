package distance

import (
	"context"
	"fmt"
	"sync/atomic"

	"van-route-service/internal/domain"
	"van-route-service/internal/ports"
)

// MockPair is one directed entry keyed by location ids.
type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// Symmetric returns pairs plus their reversed copies.
func Symmetric(pairs []MockPair) []MockPair {
	out := make([]MockPair, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p, MockPair{From: p.To, To: p.From, Meters: p.Meters, Seconds: p.Seconds})
	}
	return out
}

// MockDistanceProvider answers from a fixed in-memory table and counts calls.
// Unknown pairs fail permanently so callers fall back without retrying.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	calls atomic.Int64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	r, ok := p.m[origin.ID+"|"+destination.ID]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q: %w", origin.ID, destination.ID, ports.ErrPermanent)
	}

	return r, nil
}

// Calls returns how many lookups were made.
func (p *MockDistanceProvider) Calls() int { return int(p.calls.Load()) }
