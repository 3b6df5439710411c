package distance

import (
	"context"
	"errors"
	"fmt"
	"math"

	"van-route-service/internal/domain"
	"van-route-service/internal/ports"
)

// StraightLineProvider answers every pair with the great-circle distance
// driven at a constant average speed. It needs coordinates on both ends.
type StraightLineProvider struct {
	speedKPH float64
}

func NewStraightLineProvider(speedKPH float64) (*StraightLineProvider, error) {
	if speedKPH <= 0 {
		return nil, errors.New("straight line provider: speed must be positive")
	}
	return &StraightLineProvider{speedKPH: speedKPH}, nil
}

func (p *StraightLineProvider) GetDistance(
	ctx context.Context,
	origin domain.Location,
	destination domain.Location,
) (ports.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}
	if origin.Coordinates == nil || destination.Coordinates == nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"straight line %q -> %q: coordinates required: %w",
			origin.ID, destination.ID, ports.ErrPermanent,
		)
	}

	meters := origin.Coordinates.DistanceMeters(*destination.Coordinates)
	seconds := meters / 1000 / p.speedKPH * 3600

	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(seconds)),
	}, nil
}
