package ports

import (
	"context"
	"errors"

	"van-route-service/internal/domain"
)

// ErrPermanent marks provider failures that will not succeed on retry,
// such as a rejected request or an address that cannot be geocoded.
var ErrPermanent = errors.New("permanent provider failure")

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel distance and duration between locations.
// Implementations must be safe for concurrent use.
type DistanceProvider interface {
	// Return travel distance and estimated duration from origin to destination.
	GetDistance(ctx context.Context, origin, destination domain.Location) (DistanceResult, error)
}
