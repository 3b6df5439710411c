package ports

import (
	"context"

	"van-route-service/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations, keyed by
	// destination PlaceKey. Destinations absent from the result are treated
	// as failed lookups by the caller.
	GetDistances(ctx context.Context, origin domain.Location, destinations []domain.Location) (map[string]DistanceResult, error)
}
